package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediflow/hms-gateway/internal/middleware"
	"github.com/mediflow/hms-gateway/internal/model"
	"github.com/mediflow/hms-gateway/internal/remote"
	"github.com/mediflow/hms-gateway/internal/service/audit"
	apperrors "github.com/mediflow/hms-gateway/pkg/errors"
	"github.com/mediflow/hms-gateway/pkg/httputil"
	"github.com/mediflow/hms-gateway/pkg/metrics"
)

// SessionStore is the session persistence surface the login flow needs.
// internal/session.Store satisfies it.
type SessionStore interface {
	Create(ctx context.Context, bearer string, principal *model.Principal) (string, error)
	Destroy(ctx context.Context, portalToken string) error
}

type Handler struct {
	client  *remote.Client
	store   SessionStore
	auditor *audit.Service
	metrics *metrics.Metrics
}

func NewHandler(client *remote.Client, store SessionStore, auditor *audit.Service, m *metrics.Metrics) *Handler {
	return &Handler{client: client, store: store, auditor: auditor, metrics: m}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup, authed *gin.RouterGroup) {
	public.POST("/auth/login", h.Login)
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.CurrentUser)
}

// Login exchanges credentials for a portal session. The principal comes from
// the remote user record, never from the shape of the username.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("username and password are required", err))
		return
	}

	ctx := c.Request.Context()
	tokenResp, err := h.client.Login(ctx, &req)
	if err != nil {
		h.countLogin("failure")
		httputil.RespondWithError(c, apperrors.Unauthorized(err))
		return
	}

	principal, err := h.client.GetUser(ctx, tokenResp.Token, req.Username)
	if err != nil {
		h.countLogin("failure")
		httputil.RespondWithError(c, err)
		return
	}
	if !principal.Role.Valid() {
		h.countLogin("failure")
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	portalToken, err := h.store.Create(ctx, tokenResp.Token, principal)
	if err != nil {
		h.countLogin("failure")
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	h.countLogin("success")
	h.auditor.Log(ctx, principal, "login", "session", principal.Username, &audit.LogOptions{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	httputil.RespondWithRedirect(c, "login successful", model.DefaultRouteFor(principal.Role), model.SessionResponse{
		Token:     portalToken,
		Principal: *principal,
	})
}

// Logout clears the persisted session and sends the user back to login.
func (h *Handler) Logout(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	token := middleware.BearerToken(c)

	if err := h.store.Destroy(c.Request.Context(), token); err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	if sess != nil {
		h.auditor.Log(c.Request.Context(), &sess.Principal, "logout", "session", sess.Principal.Username, &audit.LogOptions{
			IPAddress: c.ClientIP(),
		})
	}

	httputil.RespondWithRedirect(c, "logged out successfully", "/login", nil)
}

// CurrentUser returns the acting principal.
func (h *Handler) CurrentUser(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, httputil.Response{Status: "error", Message: "not authenticated"})
		return
	}
	httputil.RespondWithSuccess(c, principal)
}

func (h *Handler) countLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}
