package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediflow/hms-gateway/internal/model"
	"github.com/mediflow/hms-gateway/internal/session"
	"github.com/mediflow/hms-gateway/pkg/httputil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// requireRolesRouter builds a protected route with the principal pre-seeded,
// the way Authenticate would leave it.
func requireRolesRouter(principal *model.Principal, required ...model.Role) *gin.Engine {
	m := &AuthMiddleware{}
	r := gin.New()
	r.GET("/protected",
		func(c *gin.Context) {
			if principal != nil {
				c.Set(ContextSession, &session.Session{Principal: *principal})
				c.Set(ContextPrincipal, principal)
			}
		},
		m.RequireRoles(required...),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "success"})
		},
	)
	return r
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	r := requireRolesRouter(&model.Principal{Username: "nurse", Role: model.RoleStaff}, model.RoleStaff)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesRedirectsWrongRoleToOwnDashboard(t *testing.T) {
	r := requireRolesRouter(&model.Principal{Username: "drhouse", Role: model.RoleDoctor}, model.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/doctor/dashboard", resp.Redirect)
}

func TestRequireRolesRedirectsAnonymousToLogin(t *testing.T) {
	r := requireRolesRouter(nil, model.RoleStaff)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/login", resp.Redirect)
}

// Browser navigations get a real redirect instead of the JSON envelope.
func TestRequireRolesBrowserRedirect(t *testing.T) {
	r := requireRolesRouter(&model.Principal{Username: "nurse", Role: model.RoleStaff}, model.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Accept", "text/html")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/staff/dashboard", w.Header().Get("Location"))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"well formed", "Bearer abc123", "abc123"},
		{"missing", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, BearerToken(c))
		})
	}
}
