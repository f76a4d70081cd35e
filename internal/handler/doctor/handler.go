package doctor

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mediflow/hms-gateway/internal/middleware"
	"github.com/mediflow/hms-gateway/internal/remote"
	"github.com/mediflow/hms-gateway/internal/service/audit"
	apperrors "github.com/mediflow/hms-gateway/pkg/errors"
	"github.com/mediflow/hms-gateway/pkg/httputil"
)

// Handler serves the doctor worklist. Every list is scoped to the calling
// doctor by the remote service; completing an appointment that belongs to
// another doctor fails remotely and is surfaced unchanged.
type Handler struct {
	client  *remote.Client
	auditor *audit.Service
}

func NewHandler(client *remote.Client, auditor *audit.Service) *Handler {
	return &Handler{client: client, auditor: auditor}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/appointments", h.ListAppointments)
	rg.GET("/appointments/scheduled", h.ListScheduled)
	rg.PUT("/appointments/:id/complete", h.Complete)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	token := middleware.SessionFrom(c).Token
	apts, err := h.client.ListDoctorAppointments(c.Request.Context(), token)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apts)
}

func (h *Handler) ListScheduled(c *gin.Context) {
	token := middleware.SessionFrom(c).Token
	apts, err := h.client.ListDoctorScheduledAppointments(c.Request.Context(), token)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apts)
}

// Complete marks one of the doctor's SCHEDULED appointments COMPLETED. On
// failure nothing is mutated locally and no re-fetch is triggered; the
// failure notice is the whole outcome.
func (h *Handler) Complete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	sess := middleware.SessionFrom(c)
	apt, err := h.client.CompleteAppointment(c.Request.Context(), sess.Token, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.auditor.Log(c.Request.Context(), &sess.Principal, "complete", "appointment",
		strconv.FormatInt(id, 10), &audit.LogOptions{IPAddress: c.ClientIP()})

	httputil.RespondWithMessage(c, "appointment marked as complete", apt)
}
