package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediflow/hms-gateway/internal/middleware"
	"github.com/mediflow/hms-gateway/internal/model"
	"github.com/mediflow/hms-gateway/internal/remote"
	"github.com/mediflow/hms-gateway/internal/repository"
	"github.com/mediflow/hms-gateway/internal/service/audit"
	"github.com/mediflow/hms-gateway/internal/session"
	"github.com/mediflow/hms-gateway/pkg/httputil"
	"github.com/mediflow/hms-gateway/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryAuditRepo struct {
	entries []*model.AuditLog
}

func (r *memoryAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memoryAuditRepo) List(_ context.Context, _ repository.AuditFilter) ([]*model.AuditLog, error) {
	return r.entries, nil
}

func (r *memoryAuditRepo) Cleanup(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeSessionStore struct {
	bearer    string
	principal *model.Principal
	destroyed []string
}

func (f *fakeSessionStore) Create(_ context.Context, bearer string, principal *model.Principal) (string, error) {
	f.bearer = bearer
	f.principal = principal
	return "portal-token", nil
}

func (f *fakeSessionStore) Destroy(_ context.Context, portalToken string) error {
	f.destroyed = append(f.destroyed, portalToken)
	return nil
}

// loginRemote answers the two-step login exchange: credentials for a bearer,
// then the authoritative user record.
func loginRemote(t *testing.T, password string, principal model.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch {
		case req.Method == http.MethodPost && req.URL.Path == "/api/auth/login":
			var creds model.LoginRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
			if creds.Password != password {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
				return
			}
			json.NewEncoder(w).Encode(model.TokenResponse{Token: "remote-bearer"})
		case req.Method == http.MethodGet && req.URL.Path == "/api/user/"+principal.Username:
			require.Equal(t, "Bearer remote-bearer", req.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(principal)
		default:
			t.Fatalf("unexpected remote call %s %s", req.Method, req.URL.Path)
		}
	})
}

func authRouter(t *testing.T, remoteHandler http.Handler) (*gin.Engine, *fakeSessionStore, *memoryAuditRepo) {
	t.Helper()
	srv := httptest.NewServer(remoteHandler)
	t.Cleanup(srv.Close)

	log := logger.NewLogger(nil)
	client := remote.NewClient(remote.Config{BaseURL: srv.URL}, nil, log)
	store := &fakeSessionStore{}
	auditRepo := &memoryAuditRepo{}
	h := NewHandler(client, store, audit.NewService(auditRepo, log), nil)

	r := gin.New()
	public := r.Group("/api")
	authed := r.Group("/api", func(c *gin.Context) {
		sess := &session.Session{
			ID:        "test-session",
			Token:     "remote-bearer",
			Principal: model.Principal{UserID: 9, Username: "nurse", Role: model.RoleStaff},
		}
		c.Set(middleware.ContextSession, sess)
		c.Set(middleware.ContextPrincipal, &sess.Principal)
	})
	h.RegisterRoutes(public, authed)
	return r, store, auditRepo
}

func postLogin(r *gin.Engine, username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(model.LoginRequest{Username: username, Password: password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	r.ServeHTTP(w, req)
	return w
}

// The principal and its role come from the fetched user record; the redirect
// is the role's own landing view.
func TestLoginRedirectsPerRole(t *testing.T) {
	tests := []struct {
		name     string
		role     model.Role
		redirect string
	}{
		{"admin", model.RoleAdmin, "/admin/dashboard"},
		{"doctor", model.RoleDoctor, "/doctor/dashboard"},
		{"staff", model.RoleStaff, "/staff/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store, auditRepo := authRouter(t, loginRemote(t, "s3cret", model.Principal{
				UserID: 9, Username: "casey", Role: tt.role,
			}))

			w := postLogin(r, "casey", "s3cret")
			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Status   string                `json:"status"`
				Redirect string                `json:"redirect"`
				Data     model.SessionResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "success", resp.Status)
			assert.Equal(t, tt.redirect, resp.Redirect)
			assert.Equal(t, "portal-token", resp.Data.Token)
			assert.Equal(t, tt.role, resp.Data.Principal.Role)

			// The bearer handed to the session store is the remote one.
			assert.Equal(t, "remote-bearer", store.bearer)
			require.NotNil(t, store.principal)
			assert.Equal(t, tt.role, store.principal.Role)

			require.Len(t, auditRepo.entries, 1)
			assert.Equal(t, "login", auditRepo.entries[0].Action)
		})
	}
}

// Bad credentials answer 401 with no navigation target; the user stays on
// the login view.
func TestLoginBadCredentials(t *testing.T) {
	r, store, auditRepo := authRouter(t, loginRemote(t, "s3cret", model.Principal{
		UserID: 9, Username: "casey", Role: model.RoleStaff,
	}))

	w := postLogin(r, "casey", "wrong")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Empty(t, resp.Redirect)

	assert.Nil(t, store.principal)
	assert.Empty(t, auditRepo.entries)
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	r, store, _ := authRouter(t, loginRemote(t, "s3cret", model.Principal{
		UserID: 9, Username: "casey", Role: model.Role("SUPERUSER"),
	}))

	w := postLogin(r, "casey", "s3cret")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, store.principal)
}

func TestLoginRequiresCredentials(t *testing.T) {
	r, _, _ := authRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("remote service must not be called")
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{"username":"casey"}`)))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogout(t *testing.T) {
	r, store, auditRepo := authRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("remote service must not be called")
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer portal-token")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/login", resp.Redirect)

	assert.Equal(t, []string{"portal-token"}, store.destroyed)
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, "logout", auditRepo.entries[0].Action)
}

func TestCurrentUser(t *testing.T) {
	r, _, _ := authRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("remote service must not be called")
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.Principal `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "nurse", resp.Data.Username)
	assert.Equal(t, model.RoleStaff, resp.Data.Role)
}
