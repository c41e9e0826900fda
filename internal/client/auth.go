package client

import (
	"context"
	"fmt"
	"net/http"

	"newsreader/internal/dto"
)

type loginResponse struct {
	Token string   `json:"token"`
	User  dto.User `json:"user"`
}

// Login authenticates an end user and installs the returned session. Any
// stored admin session is evicted, so at most one scheme is live at a time.
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (dto.User, error) {
	if err := c.checkInput("login request", req); err != nil {
		return dto.User{}, err
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/user/login", nil, req, &resp); err != nil {
		return dto.User{}, fmt.Errorf("login: %w", err)
	}

	if err := c.sessions.SetUser(resp.Token, resp.User); err != nil {
		return dto.User{}, fmt.Errorf("persist session: %w", err)
	}

	return resp.User, nil
}

// Register creates an account and signs the new user in.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (dto.User, error) {
	if err := c.checkInput("register request", req); err != nil {
		return dto.User{}, err
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/user/register", nil, req, &resp); err != nil {
		return dto.User{}, fmt.Errorf("register: %w", err)
	}

	if err := c.sessions.SetUser(resp.Token, resp.User); err != nil {
		return dto.User{}, fmt.Errorf("persist session: %w", err)
	}

	return resp.User, nil
}

// Me fetches the current user profile from the backend.
func (c *Client) Me(ctx context.Context) (dto.User, error) {
	var user dto.User
	if err := c.do(ctx, http.MethodGet, "/user/me", nil, nil, &user); err != nil {
		return dto.User{}, fmt.Errorf("fetch profile: %w", err)
	}
	return user, nil
}

// UpdateProfile pushes profile edits and refreshes the persisted identity.
func (c *Client) UpdateProfile(ctx context.Context, req dto.ProfileUpdateRequest) (dto.User, error) {
	if err := c.checkInput("profile update", req); err != nil {
		return dto.User{}, err
	}

	var user dto.User
	if err := c.do(ctx, http.MethodPut, "/user/profile/update", nil, req, &user); err != nil {
		return dto.User{}, fmt.Errorf("update profile: %w", err)
	}

	if token := c.sessions.UserToken(); token != "" {
		if err := c.sessions.SetUser(token, user); err != nil {
			return dto.User{}, fmt.Errorf("persist profile: %w", err)
		}
	}

	return user, nil
}

// Logout destroys the end-user session locally. The backend keeps no
// session state beyond the token itself.
func (c *Client) Logout() error {
	return c.sessions.ClearUser()
}
