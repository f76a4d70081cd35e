package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediflow/hms-gateway/internal/model"
)

func TestAuthorizeSuspendsWhileRestoring(t *testing.T) {
	decision := Authorize(nil, true, model.RoleAdmin)
	assert.True(t, decision.Pending)
	assert.False(t, decision.Allow)
	assert.Empty(t, decision.RedirectTo)

	// Restore-in-flight wins even when a principal is already present.
	decision = Authorize(&model.Principal{Role: model.RoleAdmin}, true, model.RoleAdmin)
	assert.True(t, decision.Pending)
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	decision := Authorize(nil, false, model.RoleStaff)
	assert.False(t, decision.Allow)
	assert.Equal(t, LoginRoute, decision.RedirectTo)
}

func TestAuthorizeMatchingRole(t *testing.T) {
	for _, role := range []model.Role{model.RoleAdmin, model.RoleDoctor, model.RoleStaff} {
		decision := Authorize(&model.Principal{Role: role}, false, role)
		assert.True(t, decision.Allow, "role %s should reach its own views", role)
	}
}

func TestAuthorizeAnyRoleSet(t *testing.T) {
	decision := Authorize(&model.Principal{Role: model.RoleDoctor}, false,
		model.RoleStaff, model.RoleDoctor)
	assert.True(t, decision.Allow)
}

// A wrong role lands on its own dashboard, never on a generic denied page.
func TestAuthorizeWrongRoleRedirectsHome(t *testing.T) {
	tests := []struct {
		name     string
		role     model.Role
		required model.Role
		want     string
	}{
		{"doctor on admin view", model.RoleDoctor, model.RoleAdmin, "/doctor/dashboard"},
		{"staff on doctor view", model.RoleStaff, model.RoleDoctor, "/staff/dashboard"},
		{"admin on staff view", model.RoleAdmin, model.RoleStaff, "/admin/dashboard"},
		{"patient on admin view", model.RolePatient, model.RoleAdmin, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Authorize(&model.Principal{Role: tt.role}, false, tt.required)
			assert.False(t, decision.Allow)
			assert.Equal(t, tt.want, decision.RedirectTo)
		})
	}
}

func TestAuthorizeNoRequirement(t *testing.T) {
	decision := Authorize(&model.Principal{Role: model.RolePatient}, false)
	assert.True(t, decision.Allow)
}
