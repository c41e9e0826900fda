package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"newsreader/internal/dto"
	"newsreader/pkg/pagination"
)

type adminLoginResponse struct {
	Token string    `json:"token"`
	Admin dto.Admin `json:"admin"`
}

// AdminLogin authenticates against the parallel admin scheme. A successful
// admin login evicts any end-user session from persisted storage.
func (c *Client) AdminLogin(ctx context.Context, req dto.LoginRequest) (dto.Admin, error) {
	if err := c.checkInput("admin login request", req); err != nil {
		return dto.Admin{}, err
	}

	var resp adminLoginResponse
	if err := c.do(ctx, http.MethodPost, "/admin/login", nil, req, &resp); err != nil {
		return dto.Admin{}, fmt.Errorf("admin login: %w", err)
	}

	if err := c.sessions.SetAdmin(resp.Token); err != nil {
		return dto.Admin{}, fmt.Errorf("persist admin session: %w", err)
	}

	return resp.Admin, nil
}

// AdminLogout destroys the admin session locally.
func (c *Client) AdminLogout() error {
	return c.sessions.ClearAdmin()
}

// Dashboard fetches the admin summary stats.
func (c *Client) Dashboard(ctx context.Context) (dto.DashboardStats, error) {
	var stats dto.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard", nil, nil, &stats); err != nil {
		return dto.DashboardStats{}, fmt.Errorf("fetch dashboard: %w", err)
	}
	return stats, nil
}

type adminUsersResponse struct {
	Users        []dto.User `json:"users"`
	NextPage     string     `json:"nextPage"`
	TotalResults int        `json:"totalResults"`
}

// Users fetches one page of the managed user list.
func (c *Client) Users(ctx context.Context, page pagination.PageRequest) (pagination.PageResult[dto.User], error) {
	if err := page.Validate(); err != nil {
		return pagination.PageResult[dto.User]{}, err
	}

	query := url.Values{"max": {strconv.Itoa(page.Max)}}
	if page.Page != "" {
		query.Set("page", page.Page)
	}

	var resp adminUsersResponse
	if err := c.do(ctx, http.MethodGet, "/admin/users", query, nil, &resp); err != nil {
		return pagination.PageResult[dto.User]{}, fmt.Errorf("fetch users: %w", err)
	}

	return pagination.PageResult[dto.User]{
		Items:        resp.Users,
		NextPage:     resp.NextPage,
		TotalResults: resp.TotalResults,
	}, nil
}
