package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mediflow/hms-gateway/internal/email"
	"github.com/mediflow/hms-gateway/internal/lifecycle"
	"github.com/mediflow/hms-gateway/internal/model"
	"github.com/mediflow/hms-gateway/internal/remote"
	"github.com/mediflow/hms-gateway/internal/service/audit"
	apperrors "github.com/mediflow/hms-gateway/pkg/errors"
	"github.com/mediflow/hms-gateway/pkg/httputil"
	"github.com/mediflow/hms-gateway/pkg/logger"
	"github.com/mediflow/hms-gateway/pkg/metrics"
)

// Handler serves the public booking form. No authentication: anyone can
// request an appointment, which enters the lifecycle as PENDING with no
// doctor attached.
type Handler struct {
	client    *remote.Client
	validator *lifecycle.BookingValidator
	emailSvc  email.Service
	auditor   *audit.Service
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewHandler(client *remote.Client, emailSvc email.Service, auditor *audit.Service, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		client:    client,
		validator: lifecycle.NewBookingValidator(),
		emailSvc:  emailSvc,
		auditor:   auditor,
		metrics:   m,
		logger:    log,
	}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/appointments/slots", h.ListSlots)
	public.POST("/appointments/book", h.Book)
}

// ListSlots returns the fixed half-hour booking grid.
func (h *Handler) ListSlots(c *gin.Context) {
	httputil.RespondWithSuccess(c, lifecycle.TimeSlots())
}

// Book validates the form, forwards the booking to the remote service and
// confirms by email. Validation failures come back per field.
func (h *Handler) Book(c *gin.Context) {
	var req model.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid booking request", err))
		return
	}

	when, err := h.validator.Validate(&req, time.Now())
	if err != nil {
		if h.metrics != nil {
			h.metrics.BookingsRejected.Inc()
		}
		var fieldErrs lifecycle.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.JSON(http.StatusBadRequest, httputil.Response{
				Status:  "error",
				Message: "booking validation failed",
				Data:    gin.H{"fields": fieldErrs},
			})
			return
		}
		httputil.RespondWithError(c, apperrors.BadRequest("invalid booking request", err))
		return
	}

	ctx := c.Request.Context()
	apt, err := h.client.BookAppointment(ctx, &model.BookAppointmentRequest{
		PatientName:         req.PatientName,
		PatientEmail:        req.PatientEmail,
		PatientNumber:       req.PatientNumber,
		Mode:                req.Mode,
		ProblemDescription:  req.ProblemDescription,
		AppointmentDateTime: when.Format(time.RFC3339),
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.BookingsTotal.Inc()
	}
	h.auditor.Log(ctx, nil, "book", "appointment", formatID(apt.ID), &audit.LogOptions{
		IPAddress: c.ClientIP(),
		Metadata:  gin.H{"patient": apt.PatientName, "mode": req.Mode},
	})

	if err := h.emailSvc.SendBookingConfirmation(ctx, req.PatientEmail, apt); err != nil {
		h.logger.Error(err, "booking confirmation email failed", "appointment_id", apt.ID)
	}

	c.JSON(http.StatusCreated, httputil.Response{
		Status:  "success",
		Message: "appointment booked successfully",
		Data:    apt,
	})
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
