package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mediflow/hms-gateway/internal/model"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	var token model.TokenResponse
	if err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", nil, req, &token, ""); err != nil {
		return nil, err
	}
	return &token, nil
}

// GetUser fetches the authoritative user record for a username. The
// principal's role always comes from here, never from the username itself.
func (c *Client) GetUser(ctx context.Context, token, username string) (*model.Principal, error) {
	var principal model.Principal
	path := fmt.Sprintf("/api/user/%s", username)
	if err := c.do(ctx, "get_user", http.MethodGet, path, nil, nil, &principal, token); err != nil {
		return nil, err
	}
	return &principal, nil
}
