package lifecycle

import (
	"fmt"

	"github.com/mediflow/hms-gateway/internal/model"
)

// transitions is the full appointment state machine. COMPLETED and CANCELLED
// are terminal; nothing leaves them.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending: {
		model.AppointmentStatusScheduled,
		model.AppointmentStatusCancelled,
	},
	model.AppointmentStatusScheduled: {
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
	},
	model.AppointmentStatusCompleted: {},
	model.AppointmentStatusCancelled: {},
}

// roleTransitions restricts who may trigger which transition. Staff drive
// scheduling and cancellation; doctors only complete their own scheduled
// appointments (ownership is checked by the remote service).
var roleTransitions = map[model.Role]map[model.AppointmentStatus][]model.AppointmentStatus{
	model.RoleStaff: {
		model.AppointmentStatusPending: {
			model.AppointmentStatusScheduled,
			model.AppointmentStatusCancelled,
		},
		model.AppointmentStatusScheduled: {
			model.AppointmentStatusCompleted,
			model.AppointmentStatusCancelled,
		},
	},
	model.RoleDoctor: {
		model.AppointmentStatusScheduled: {
			model.AppointmentStatusCompleted,
		},
	},
}

// CanTransition reports whether the state machine defines an edge from one
// status to another, regardless of who triggers it.
func CanTransition(from, to model.AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are defined from a status.
func Terminal(status model.AppointmentStatus) bool {
	return len(transitions[status]) == 0
}

// AllowedFor reports whether the given role may trigger the transition.
func AllowedFor(role model.Role, from, to model.AppointmentStatus) bool {
	allowed, ok := roleTransitions[role]
	if !ok {
		return false
	}
	for _, next := range allowed[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RoleMayTarget reports whether any transition triggered by the role lands
// on the given status. Dashboards use it to gate affordances when only the
// target status is known; the remote service still enforces the exact edge.
func RoleMayTarget(role model.Role, to model.AppointmentStatus) bool {
	allowed, ok := roleTransitions[role]
	if !ok {
		return false
	}
	for _, targets := range allowed {
		for _, next := range targets {
			if next == to {
				return true
			}
		}
	}
	return false
}

// RequiresDoctor reports whether entering a status requires an assigned
// doctor. Doctor assignment and status are decoupled fields: assigning a
// doctor never flips the status by itself, so a PENDING appointment with a
// doctor attached is a tolerated state.
func RequiresDoctor(to model.AppointmentStatus) bool {
	return to == model.AppointmentStatusScheduled || to == model.AppointmentStatusCompleted
}

// CheckDoctorAssignment enforces the invariant that a SCHEDULED or COMPLETED
// appointment always carries a doctor.
func CheckDoctorAssignment(apt *model.Appointment) error {
	if RequiresDoctor(apt.Status) && apt.DoctorID == nil {
		return fmt.Errorf("appointment %d is %s without an assigned doctor", apt.ID, apt.Status)
	}
	return nil
}

// ValidateTransition combines the edge check, the role check and the doctor
// precondition into the single gate every dashboard goes through before
// issuing a transition call.
func ValidateTransition(role model.Role, apt *model.Appointment, to model.AppointmentStatus) error {
	if !to.Valid() {
		return fmt.Errorf("unknown status %q", to)
	}
	if Terminal(apt.Status) {
		return fmt.Errorf("appointment %d is already %s", apt.ID, apt.Status)
	}
	if !CanTransition(apt.Status, to) {
		return fmt.Errorf("cannot move appointment %d from %s to %s", apt.ID, apt.Status, to)
	}
	if !AllowedFor(role, apt.Status, to) {
		return fmt.Errorf("role %s may not move appointment %d from %s to %s", role, apt.ID, apt.Status, to)
	}
	next := *apt
	next.Status = to
	return CheckDoctorAssignment(&next)
}
