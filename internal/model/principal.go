package model

// Principal is the authenticated identity driving authorization decisions.
// It is built from the remote user record at login and held for the lifetime
// of the session.
type Principal struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the remote service's answer to a login call.
type TokenResponse struct {
	Token string `json:"token"`
}

// SessionResponse is returned to the browser after a successful login.
type SessionResponse struct {
	Token     string    `json:"token"`
	Principal Principal `json:"user"`
}
