package api

import (
	"context"
	"net/http"
	"net/url"

	apperrors "github.com/jrsteele09/wash24-admin/internal/errors"
	"github.com/jrsteele09/wash24-admin/session"
)

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginToken wraps the bearer token in the login response.
type LoginToken struct {
	Token string `json:"token"`
}

// LoginData is the payload of a successful login.
type LoginData struct {
	User  session.User `json:"user"`
	Token LoginToken   `json:"token"`
}

// LoginResponse is the backend's answer to POST /auth/login/{role}.
type LoginResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message,omitempty"`
	LoginData *LoginData `json:"loginData,omitempty"`
}

// Complete reports whether the response carries both a user and a token.
func (r LoginResponse) Complete() bool {
	return r.Success && r.LoginData != nil && r.LoginData.User.ID != "" && r.LoginData.Token.Token != ""
}

// Login exchanges credentials for a token. A 2xx answer with success=false
// is returned as a response, not an error. A success=true answer without a
// user or token returns ErrIncompleteLogin.
func (c *Client) Login(ctx context.Context, role string, creds Credentials) (*LoginResponse, error) {
	resp := &LoginResponse{}
	if err := c.Do(ctx, http.MethodPost, "auth/login/"+url.PathEscape(role), creds, resp); err != nil {
		return nil, err
	}
	if resp.Success && !resp.Complete() {
		return resp, apperrors.Wrapf(apperrors.ErrIncompleteLogin, "[Client Login] role %q", role)
	}
	return resp, nil
}
