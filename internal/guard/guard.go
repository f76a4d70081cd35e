package guard

import (
	"github.com/mediflow/hms-gateway/internal/model"
)

// Decision is the outcome of an authorization check. Exactly one of the
// three outcomes applies: the view may render, the check must be suspended
// while the session restore is in flight, or the caller must navigate
// elsewhere.
type Decision struct {
	Allow      bool
	Pending    bool
	RedirectTo string
}

// LoginRoute is where unauthenticated requests for protected views land.
const LoginRoute = "/login"

// Authorize gates a requested view. It is a pure function over the current
// principal and the required role set, evaluated on every request and never
// cached: role and authentication can change between navigations.
//
// A nil principal redirects to the login entry point. A principal whose role
// is outside the required set is sent to its own default landing view, not
// to a generic access-denied page.
func Authorize(principal *model.Principal, restoring bool, required ...model.Role) Decision {
	if restoring {
		return Decision{Pending: true}
	}
	if principal == nil {
		return Decision{RedirectTo: LoginRoute}
	}
	if len(required) == 0 {
		return Decision{Allow: true}
	}
	for _, role := range required {
		if principal.Role == role {
			return Decision{Allow: true}
		}
	}
	return Decision{RedirectTo: model.DefaultRouteFor(principal.Role)}
}
