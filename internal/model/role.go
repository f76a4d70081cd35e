package model

// Role identifies the kind of principal acting against the portal.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleStaff   Role = "STAFF"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether the role is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// DefaultRouteFor returns the landing view for a role. Both the access guard
// and the post-login redirect consume this single table.
func DefaultRouteFor(role Role) string {
	switch role {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleDoctor:
		return "/doctor/dashboard"
	case RoleStaff:
		return "/staff/dashboard"
	default:
		return "/"
	}
}
