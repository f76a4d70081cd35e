package staff

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mediflow/hms-gateway/internal/lifecycle"
	"github.com/mediflow/hms-gateway/internal/middleware"
	"github.com/mediflow/hms-gateway/internal/model"
	"github.com/mediflow/hms-gateway/internal/remote"
	"github.com/mediflow/hms-gateway/internal/service/audit"
	apperrors "github.com/mediflow/hms-gateway/pkg/errors"
	"github.com/mediflow/hms-gateway/pkg/httputil"
)

// Handler drives the staff assignment board: the pending queue, doctor
// assignment and explicit status transitions. Assigning a doctor and marking
// an appointment SCHEDULED are two independent calls; the board may do one
// without the other.
type Handler struct {
	client  *remote.Client
	auditor *audit.Service
}

func NewHandler(client *remote.Client, auditor *audit.Service) *Handler {
	return &Handler{client: client, auditor: auditor}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/appointments", h.ListAppointments)
	rg.GET("/appointments/pending", h.ListPending)
	rg.GET("/doctors", h.ListDoctors)
	rg.POST("/assign/doctor", h.AssignDoctor)
	rg.PUT("/appointments/:id/status", h.UpdateStatus)
}

// ListAppointments returns every appointment, or one status when the query
// filter is present. Each request re-fetches; the board holds no cache.
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

// ListPending returns the assignment queue.
func (h *Handler) ListPending(c *gin.Context) {
	token := middleware.SessionFrom(c).Token
	apts, err := h.client.ListAppointmentsByStatus(c.Request.Context(), token, model.AppointmentStatusPending)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apts)
}

// ListDoctors populates the assignment picker.
func (h *Handler) ListDoctors(c *gin.Context) {
	token := middleware.SessionFrom(c).Token
	doctors, err := h.client.ListDoctors(c.Request.Context(), token)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

// AssignDoctor attaches a doctor to an appointment. The status is untouched;
// marking the appointment SCHEDULED is a separate transition.
func (h *Handler) AssignDoctor(c *gin.Context) {
	var req model.AssignDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("appointmentId and doctorId are required", err))
		return
	}

	sess := middleware.SessionFrom(c)
	apt, err := h.client.AssignDoctor(c.Request.Context(), sess.Token, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.auditor.Log(c.Request.Context(), &sess.Principal, "assign_doctor", "appointment",
		strconv.FormatInt(req.AppointmentID, 10), &audit.LogOptions{
			IPAddress: c.ClientIP(),
			Metadata:  gin.H{"doctor_id": req.DoctorID},
		})

	httputil.RespondWithMessage(c, "doctor assigned successfully", apt)
}

// UpdateStatus issues a staff transition. The appointment's current state is
// re-fetched and the full transition gate runs before the call goes out; the
// remote service remains the final arbiter of the edge.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	status := model.AppointmentStatus(c.Query("status"))
	if !status.Valid() {
		httputil.RespondWithError(c, apperrors.BadRequest(fmt.Sprintf("unknown status %q", c.Query("status")), nil))
		return
	}
	if !lifecycle.RoleMayTarget(model.RoleStaff, status) {
		httputil.RespondWithError(c, apperrors.Forbidden(
			fmt.Sprintf("staff cannot move an appointment to %s", status), nil))
		return
	}

	sess := middleware.SessionFrom(c)
	current, err := h.findAppointment(c.Request.Context(), sess.Token, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if err := lifecycle.ValidateTransition(model.RoleStaff, current, status); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), nil))
		return
	}

	apt, err := h.client.UpdateAppointmentStatus(c.Request.Context(), sess.Token, id, status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.auditor.Log(c.Request.Context(), &sess.Principal, "update_status", "appointment",
		strconv.FormatInt(id, 10), &audit.LogOptions{
			IPAddress: c.ClientIP(),
			Metadata:  gin.H{"status": status},
		})

	httputil.RespondWithMessage(c, fmt.Sprintf("appointment marked as %s", status), apt)
}

// findAppointment locates one appointment in the full listing; the remote
// service exposes no fetch-by-id endpoint.
func (h *Handler) findAppointment(ctx context.Context, token string, id int64) (*model.Appointment, error) {
	apts, err := h.client.ListAppointments(ctx, token)
	if err != nil {
		return nil, err
	}
	for i := range apts {
		if apts[i].ID == id {
			return &apts[i], nil
		}
	}
	return nil, apperrors.NotFound("appointment", nil)
}
