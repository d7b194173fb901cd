package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sillysavant/f1nance/internal/models"
	"github.com/sillysavant/f1nance/pkg/errors"
)

// AdminLogin exchanges back-office credentials for a token pair via
// POST /admin/login (same OAuth2 form shape as the user login).
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*models.TokenPair, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var pair models.TokenPair
	err := c.doJSON(ctx, request{
		operation: "admin_login",
		method:    http.MethodPost,
		path:      "/admin/login",
		formBody:  form,
		failKind:  errors.ErrAuthenticationFailed,
	}, &pair)
	if err != nil {
		return nil, err
	}
	if pair.TokenType == "" {
		pair.TokenType = DefaultTokenType
	}
	return &pair, nil
}

// CurrentAdmin fetches the back-office identity via GET /admin/me.
func (c *Client) CurrentAdmin(ctx context.Context, tokenType, token string) (*models.AdminProfile, error) {
	if token == "" {
		return nil, errors.NewRequestError(errors.ErrUnauthenticated, 0, "No authentication token found")
	}

	var profile models.AdminProfile
	err := c.doJSON(ctx, request{
		operation: "current_admin",
		method:    http.MethodGet,
		path:      "/admin/me",
		auth:      AuthHeader(tokenType, token),
	}, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListUsers fetches the back-office user list via GET /admin/users/.
func (c *Client) ListUsers(ctx context.Context, tokenType, token string) ([]models.AdminUser, error) {
	if token == "" {
		return nil, errors.NewRequestError(errors.ErrUnauthenticated, 0, "No authentication token found")
	}

	var users []models.AdminUser
	err := c.doJSON(ctx, request{
		operation: "admin_list_users",
		method:    http.MethodGet,
		path:      "/admin/users/",
		auth:      AuthHeader(tokenType, token),
	}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// DashboardStats fetches the back-office landing page summary.
func (c *Client) DashboardStats(ctx context.Context, tokenType, token string) (*models.DashboardStats, error) {
	if token == "" {
		return nil, errors.NewRequestError(errors.ErrUnauthenticated, 0, "No authentication token found")
	}

	var stats models.DashboardStats
	err := c.doJSON(ctx, request{
		operation: "admin_dashboard_stats",
		method:    http.MethodGet,
		path:      "/admin/dashboard-stats",
		auth:      AuthHeader(tokenType, token),
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
