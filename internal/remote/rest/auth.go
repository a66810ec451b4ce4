package rest

import (
	"context"
	"fmt"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

// AuthClient exchanges credentials for a bearer token via /auth/*.
type AuthClient struct {
	c *Client
}

// NewAuth constructs an AuthClient over shared plumbing.
func NewAuth(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

// Login authenticates an existing account.
func (a *AuthClient) Login(ctx context.Context, username, password string) (model.Session, error) {
	return a.exchange(ctx, "/auth/login", username, password)
}

// Register creates an account and logs it in.
func (a *AuthClient) Register(ctx context.Context, username, password string) (model.Session, error) {
	return a.exchange(ctx, "/auth/register", username, password)
}

func (a *AuthClient) exchange(ctx context.Context, path, username, password string) (model.Session, error) {
	var resp authResponse
	if err := a.c.do(ctx, "POST", path, "", credentials{Username: username, Password: password}, &resp); err != nil {
		return model.Session{}, err
	}
	// A success response without a token is useless for authenticated
	// calls and is treated as an auth failure.
	if resp.Token == "" {
		return model.Session{}, fmt.Errorf("%w: no token in response", errs.ErrUnauthorized)
	}
	return model.Session{Token: resp.Token, Username: username}, nil
}
