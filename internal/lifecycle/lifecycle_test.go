package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediflow/hms-gateway/internal/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from model.AppointmentStatus
		to   model.AppointmentStatus
		want bool
	}{
		{"pending to scheduled", model.AppointmentStatusPending, model.AppointmentStatusScheduled, true},
		{"pending to cancelled", model.AppointmentStatusPending, model.AppointmentStatusCancelled, true},
		{"pending to completed skips scheduling", model.AppointmentStatusPending, model.AppointmentStatusCompleted, false},
		{"scheduled to completed", model.AppointmentStatusScheduled, model.AppointmentStatusCompleted, true},
		{"scheduled to cancelled", model.AppointmentStatusScheduled, model.AppointmentStatusCancelled, true},
		{"scheduled back to pending", model.AppointmentStatusScheduled, model.AppointmentStatusPending, false},
		{"completed is terminal", model.AppointmentStatusCompleted, model.AppointmentStatusScheduled, false},
		{"cancelled is terminal", model.AppointmentStatusCancelled, model.AppointmentStatusPending, false},
		{"no self loop", model.AppointmentStatusPending, model.AppointmentStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, Terminal(model.AppointmentStatusPending))
	assert.False(t, Terminal(model.AppointmentStatusScheduled))
	assert.True(t, Terminal(model.AppointmentStatusCompleted))
	assert.True(t, Terminal(model.AppointmentStatusCancelled))
}

func TestAllowedFor(t *testing.T) {
	tests := []struct {
		name string
		role model.Role
		from model.AppointmentStatus
		to   model.AppointmentStatus
		want bool
	}{
		{"staff schedules", model.RoleStaff, model.AppointmentStatusPending, model.AppointmentStatusScheduled, true},
		{"staff cancels pending", model.RoleStaff, model.AppointmentStatusPending, model.AppointmentStatusCancelled, true},
		{"staff cancels scheduled", model.RoleStaff, model.AppointmentStatusScheduled, model.AppointmentStatusCancelled, true},
		{"staff completes", model.RoleStaff, model.AppointmentStatusScheduled, model.AppointmentStatusCompleted, true},
		{"doctor completes scheduled", model.RoleDoctor, model.AppointmentStatusScheduled, model.AppointmentStatusCompleted, true},
		{"doctor cannot schedule", model.RoleDoctor, model.AppointmentStatusPending, model.AppointmentStatusScheduled, false},
		{"doctor cannot cancel", model.RoleDoctor, model.AppointmentStatusScheduled, model.AppointmentStatusCancelled, false},
		{"admin has no transitions", model.RoleAdmin, model.AppointmentStatusPending, model.AppointmentStatusScheduled, false},
		{"patient has no transitions", model.RolePatient, model.AppointmentStatusScheduled, model.AppointmentStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedFor(tt.role, tt.from, tt.to))
		})
	}
}

func TestRoleMayTarget(t *testing.T) {
	assert.True(t, RoleMayTarget(model.RoleStaff, model.AppointmentStatusScheduled))
	assert.True(t, RoleMayTarget(model.RoleStaff, model.AppointmentStatusCancelled))
	assert.True(t, RoleMayTarget(model.RoleStaff, model.AppointmentStatusCompleted))
	assert.False(t, RoleMayTarget(model.RoleStaff, model.AppointmentStatusPending))

	assert.True(t, RoleMayTarget(model.RoleDoctor, model.AppointmentStatusCompleted))
	assert.False(t, RoleMayTarget(model.RoleDoctor, model.AppointmentStatusScheduled))
	assert.False(t, RoleMayTarget(model.RoleAdmin, model.AppointmentStatusScheduled))
}

func TestCheckDoctorAssignment(t *testing.T) {
	doctorID := int64(7)

	tests := []struct {
		name    string
		apt     model.Appointment
		wantErr bool
	}{
		{"pending without doctor", model.Appointment{ID: 1, Status: model.AppointmentStatusPending}, false},
		{"pending with doctor is tolerated", model.Appointment{ID: 2, Status: model.AppointmentStatusPending, DoctorID: &doctorID}, false},
		{"scheduled with doctor", model.Appointment{ID: 3, Status: model.AppointmentStatusScheduled, DoctorID: &doctorID}, false},
		{"scheduled without doctor", model.Appointment{ID: 4, Status: model.AppointmentStatusScheduled}, true},
		{"completed without doctor", model.Appointment{ID: 5, Status: model.AppointmentStatusCompleted}, true},
		{"cancelled keeps assigned doctor", model.Appointment{ID: 6, Status: model.AppointmentStatusCancelled, DoctorID: &doctorID}, false},
		{"cancelled without doctor", model.Appointment{ID: 7, Status: model.AppointmentStatusCancelled}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDoctorAssignment(&tt.apt)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTransition(t *testing.T) {
	doctorID := int64(7)

	t.Run("staff schedules an assigned appointment", func(t *testing.T) {
		apt := &model.Appointment{ID: 1, Status: model.AppointmentStatusPending, DoctorID: &doctorID}
		require.NoError(t, ValidateTransition(model.RoleStaff, apt, model.AppointmentStatusScheduled))
	})

	t.Run("scheduling without a doctor is rejected", func(t *testing.T) {
		apt := &model.Appointment{ID: 2, Status: model.AppointmentStatusPending}
		err := ValidateTransition(model.RoleStaff, apt, model.AppointmentStatusScheduled)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "without an assigned doctor")
	})

	t.Run("cancelling needs no doctor", func(t *testing.T) {
		apt := &model.Appointment{ID: 3, Status: model.AppointmentStatusPending}
		require.NoError(t, ValidateTransition(model.RoleStaff, apt, model.AppointmentStatusCancelled))
	})

	t.Run("terminal appointments reject every transition", func(t *testing.T) {
		apt := &model.Appointment{ID: 4, Status: model.AppointmentStatusCompleted, DoctorID: &doctorID}
		err := ValidateTransition(model.RoleStaff, apt, model.AppointmentStatusCancelled)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already COMPLETED")
	})

	t.Run("doctor may not schedule", func(t *testing.T) {
		apt := &model.Appointment{ID: 5, Status: model.AppointmentStatusPending, DoctorID: &doctorID}
		err := ValidateTransition(model.RoleDoctor, apt, model.AppointmentStatusScheduled)
		require.Error(t, err)
	})

	t.Run("doctor completes a scheduled appointment", func(t *testing.T) {
		apt := &model.Appointment{ID: 6, Status: model.AppointmentStatusScheduled, DoctorID: &doctorID}
		require.NoError(t, ValidateTransition(model.RoleDoctor, apt, model.AppointmentStatusCompleted))
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		apt := &model.Appointment{ID: 7, Status: model.AppointmentStatusPending, DoctorID: &doctorID}
		err := ValidateTransition(model.RoleStaff, apt, model.AppointmentStatus("APPROVED"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown status")
	})
}
