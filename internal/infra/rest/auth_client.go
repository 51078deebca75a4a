package rest

import (
	"context"
	"net/http"

	"prapp-client/internal/domain/model"
	"prapp-client/internal/domain/ports/api"
)

var _ api.AuthAPI = (*AuthClient)(nil)

// AuthClient covers signup/login (unauthenticated) and the profile
// endpoints (authenticated). Token refresh is not handled here.
type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient { return &AuthClient{c: c} }

func (a *AuthClient) Signup(ctx context.Context, creds model.Credentials) (*model.AuthToken, error) {
	var out model.AuthToken
	err := a.c.do(ctx, call{
		resource: "auth", operation: "signup",
		method: http.MethodPost, path: "/auth/signup",
		body: creds,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) Login(ctx context.Context, creds model.Credentials) (*model.AuthToken, error) {
	var out model.AuthToken
	err := a.c.do(ctx, call{
		resource: "auth", operation: "login",
		method: http.MethodPost, path: "/auth/login",
		body: creds,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) Profile(ctx context.Context) (*model.User, error) {
	var out model.User
	err := a.c.do(ctx, call{
		resource: "users", operation: "profile",
		method: http.MethodGet, path: "/users/profile",
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	var out model.User
	err := a.c.do(ctx, call{
		resource: "users", operation: "update_profile",
		method: http.MethodPatch, path: "/users/profile",
		authed: true, body: update,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
