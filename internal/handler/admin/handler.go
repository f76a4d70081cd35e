package admin

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mediflow/hms-gateway/internal/middleware"
	"github.com/mediflow/hms-gateway/internal/model"
	"github.com/mediflow/hms-gateway/internal/remote"
	"github.com/mediflow/hms-gateway/internal/repository"
	"github.com/mediflow/hms-gateway/internal/service/audit"
	apperrors "github.com/mediflow/hms-gateway/pkg/errors"
	"github.com/mediflow/hms-gateway/pkg/httputil"
)

// Handler covers admin oversight: appointment listings, doctor and staff
// registration, specialities and invoicing. Appointments themselves are
// read-only here; the only admin-triggered mutation on a completed
// appointment is generating its bill.
type Handler struct {
	client  *remote.Client
	auditor *audit.Service
}

func NewHandler(client *remote.Client, auditor *audit.Service) *Handler {
	return &Handler{client: client, auditor: auditor}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/appointments", h.ListAppointments)
	rg.GET("/doctors", h.ListDoctors)
	rg.POST("/doctors", h.RegisterDoctor)
	rg.GET("/staff", h.ListStaff)
	rg.POST("/staff", h.RegisterStaff)
	rg.GET("/specialities", h.ListSpecialities)
	rg.GET("/specialities/:id", h.GetSpeciality)
	rg.POST("/specialities", h.AddSpeciality)
	rg.PUT("/specialities/:id", h.UpdateSpeciality)
	rg.POST("/invoices", h.GenerateInvoice)
	rg.GET("/invoices/:id", h.GetInvoice)
	rg.PUT("/invoices/:id/pay", h.MarkInvoicePaid)
	rg.GET("/invoices/:id/download", h.DownloadInvoice)
	rg.GET("/audit", h.ListAuditTrail)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	token := middleware.SessionFrom(c).Token

	if status := c.Query("status"); status != "" {
		s := model.AppointmentStatus(status)
		if !s.Valid() {
			httputil.RespondWithError(c, apperrors.BadRequest(fmt.Sprintf("unknown status %q", status), nil))
			return
		}
		apts, err := h.client.ListAppointmentsByStatus(c.Request.Context(), token, s)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithSuccess(c, apts)
		return
	}

	apts, err := h.client.ListAppointments(c.Request.Context(), token)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apts)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	token := middleware.SessionFrom(c).Token
	doctors, err := h.client.ListDoctors(c.Request.Context(), token)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) RegisterDoctor(c *gin.Context) {
	var req model.RegisterDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor registration", err))
		return
	}

	sess := middleware.SessionFrom(c)
	doctor, err := h.client.RegisterDoctor(c.Request.Context(), sess.Token, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.auditor.Log(c.Request.Context(), &sess.Principal, "register", "doctor",
		strconv.FormatInt(doctor.DoctorID, 10), &audit.LogOptions{IPAddress: c.ClientIP()})

	httputil.RespondWithCreated(c, doctor)
}

func (h *Handler) ListStaff(c *gin.Context) {
	token := middleware.SessionFrom(c).Token
	staff, err := h.client.ListStaff(c.Request.Context(), token)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, staff)
}

func (h *Handler) RegisterStaff(c *gin.Context) {
	var req model.RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff registration", err))
		return
	}

	sess := middleware.SessionFrom(c)
	member, err := h.client.RegisterStaff(c.Request.Context(), sess.Token, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.auditor.Log(c.Request.Context(), &sess.Principal, "register", "staff",
		strconv.FormatInt(member.ID, 10), &audit.LogOptions{IPAddress: c.ClientIP()})

	httputil.RespondWithCreated(c, member)
}

func (h *Handler) ListSpecialities(c *gin.Context) {
	token := middleware.SessionFrom(c).Token
	specialities, err := h.client.ListSpecialities(c.Request.Context(), token)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, specialities)
}

func (h *Handler) GetSpeciality(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid speciality ID", err))
		return
	}

	token := middleware.SessionFrom(c).Token
	speciality, err := h.client.GetSpeciality(c.Request.Context(), token, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, speciality)
}

func (h *Handler) AddSpeciality(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("speciality name is required", err))
		return
	}

	token := middleware.SessionFrom(c).Token
	speciality, err := h.client.AddSpeciality(c.Request.Context(), token, req.Name)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, speciality)
}

func (h *Handler) UpdateSpeciality(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid speciality ID", err))
		return
	}

	name := c.Query("name")
	if name == "" {
		httputil.RespondWithError(c, apperrors.BadRequest("speciality name is required", nil))
		return
	}

	token := middleware.SessionFrom(c).Token
	speciality, err := h.client.UpdateSpeciality(c.Request.Context(), token, id, name)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, speciality)
}

// GenerateInvoice bills a completed appointment. The remote service keeps at
// most one bill per appointment; a repeat attempt surfaces as a conflict
// with its own message, distinct from a generic remote failure.
func (h *Handler) GenerateInvoice(c *gin.Context) {
	var req model.GenerateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(
			"cannot generate invoice: missing doctor or patient information", err))
		return
	}

	sess := middleware.SessionFrom(c)
	bill, err := h.client.GenerateBill(c.Request.Context(), sess.Token, &req)
	if err != nil {
		if apperrors.IsConflict(err) {
			httputil.RespondWithError(c, apperrors.Conflict(
				"an invoice already exists for this appointment", err))
			return
		}
		httputil.RespondWithError(c, err)
		return
	}

	h.auditor.Log(c.Request.Context(), &sess.Principal, "generate_invoice", "bill",
		strconv.FormatInt(bill.BillingID, 10), &audit.LogOptions{
			IPAddress: c.ClientIP(),
			Metadata:  gin.H{"appointment_id": req.AppointmentID, "total": bill.TotalAmount},
		})

	httputil.RespondWithCreated(c, bill)
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid billing ID", err))
		return
	}

	token := middleware.SessionFrom(c).Token
	bill, err := h.client.GetBill(c.Request.Context(), token, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bill)
}

func (h *Handler) MarkInvoicePaid(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid billing ID", err))
		return
	}

	sess := middleware.SessionFrom(c)
	bill, err := h.client.MarkBillPaid(c.Request.Context(), sess.Token, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.auditor.Log(c.Request.Context(), &sess.Principal, "mark_paid", "bill",
		strconv.FormatInt(id, 10), &audit.LogOptions{IPAddress: c.ClientIP()})

	httputil.RespondWithMessage(c, "invoice marked as paid", bill)
}

// DownloadInvoice proxies the invoice PDF from the billing service.
func (h *Handler) DownloadInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid billing ID", err))
		return
	}

	token := middleware.SessionFrom(c).Token
	payload, contentType, err := h.client.DownloadInvoice(c.Request.Context(), token, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if contentType == "" {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", id))
	c.Data(http.StatusOK, contentType, payload)
}

// ListAuditTrail exposes the gateway's local action trail on the settings view.
func (h *Handler) ListAuditTrail(c *gin.Context) {
	filter := repository.AuditFilter{
		Username:   c.Query("username"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity"),
		Limit:      100,
	}
	entries, err := h.auditor.List(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, entries)
}
