package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mediflow/hms-gateway/internal/guard"
	"github.com/mediflow/hms-gateway/internal/model"
	"github.com/mediflow/hms-gateway/internal/session"
	"github.com/mediflow/hms-gateway/pkg/httputil"
)

// Context keys set by the auth middleware.
const (
	ContextSession   = "session"
	ContextPrincipal = "principal"
)

type AuthMiddleware struct {
	store *session.Store
}

func NewAuthMiddleware(store *session.Store) *AuthMiddleware {
	return &AuthMiddleware{store: store}
}

// Authenticate restores the session behind the presented portal token and
// places it in the request context. Requests without a restorable session
// are redirected to the login entry point.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			redirectTo(c, guard.LoginRoute)
			return
		}

		sess, err := m.store.Load(c.Request.Context(), token)
		if err != nil {
			// Restore failures fail open to the logged-out state.
			redirectTo(c, guard.LoginRoute)
			return
		}

		c.Set(ContextSession, sess)
		c.Set(ContextPrincipal, &sess.Principal)
		c.Next()
	}
}

// RequireRoles re-evaluates the access guard on every request. A principal
// outside the required set is sent to its own default landing view.
func (m *AuthMiddleware) RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		decision := guard.Authorize(principal, false, roles...)
		switch {
		case decision.Allow:
			c.Next()
		case decision.RedirectTo != "":
			redirectTo(c, decision.RedirectTo)
		default:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, httputil.Response{
				Status:  "error",
				Message: "session restore in progress",
			})
		}
	}
}

// SessionFrom returns the restored session, or nil outside authenticated routes.
func SessionFrom(c *gin.Context) *session.Session {
	if v, ok := c.Get(ContextSession); ok {
		return v.(*session.Session)
	}
	return nil
}

// PrincipalFrom returns the acting principal, or nil outside authenticated routes.
func PrincipalFrom(c *gin.Context) *model.Principal {
	if v, ok := c.Get(ContextPrincipal); ok {
		return v.(*model.Principal)
	}
	return nil
}

// BearerToken extracts the portal token from the Authorization header, or
// returns "" when the header is absent or not a bearer credential.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// redirectTo aborts the request with the guard's navigation target. API
// clients receive it in the envelope; browser navigations get a 303.
func redirectTo(c *gin.Context, path string) {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusSeeOther, path)
		c.Abort()
		return
	}
	status := http.StatusUnauthorized
	if path != guard.LoginRoute {
		status = http.StatusForbidden
	}
	c.AbortWithStatusJSON(status, httputil.Response{
		Status:   "error",
		Message:  "access denied",
		Redirect: path,
	})
}
