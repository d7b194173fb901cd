package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sillysavant/f1nance/internal/models"
	"github.com/sillysavant/f1nance/pkg/errors"
	"github.com/sillysavant/f1nance/pkg/logger"
	"go.uber.org/zap"
)

// Register creates a new account via POST /auth/register.
func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserProfile, error) {
	// The confirm field is a UI-side check and never reaches the API.
	payload := *req
	payload.ConfirmPassword = ""

	var profile models.UserProfile
	err := c.doJSON(ctx, request{
		operation: "register",
		method:    http.MethodPost,
		path:      "/auth/register",
		jsonBody:  &payload,
		failKind:  errors.ErrRegistrationFailed,
	}, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Login exchanges credentials for a token pair via POST /auth/login. The
// API speaks the OAuth2 password-grant form shape, so the email travels in
// the `username` field. The client does not persist anything; the caller
// writes the pair to the Token Store.
func (c *Client) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var pair models.TokenPair
	err := c.doJSON(ctx, request{
		operation: "login",
		method:    http.MethodPost,
		path:      "/auth/login",
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

// CurrentUser fetches the authenticated profile via GET /auth/me. An empty
// token is rejected locally to avoid a round-trip that can only 401.
func (c *Client) CurrentUser(ctx context.Context, tokenType, token string) (*models.UserProfile, error) {
	if token == "" {
		return nil, errors.NewRequestError(errors.ErrUnauthenticated, 0, "No authentication token found")
	}

	var profile models.UserProfile
	err := c.doJSON(ctx, request{
		operation: "current_user",
		method:    http.MethodGet,
		path:      "/auth/me",
		auth:      AuthHeader(tokenType, token),
	}, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies a partial patch via PATCH /users/me.
func (c *Client) UpdateProfile(ctx context.Context, tokenType, token string, patch *models.UpdateProfileRequest) (*models.UserProfile, error) {
	if token == "" {
		return nil, errors.NewRequestError(errors.ErrUnauthenticated, 0, "No authentication token found")
	}

	var profile models.UserProfile
	err := c.doJSON(ctx, request{
		operation: "update_profile",
		method:    http.MethodPatch,
		path:      "/users/me",
		jsonBody:  patch,
		auth:      AuthHeader(tokenType, token),
	}, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// VerifyEmail redeems an email verification token via
// POST /auth/verify-email?token=.
func (c *Client) VerifyEmail(ctx context.Context, verificationToken, tokenType, authToken string) error {
	q := url.Values{}
	q.Set("token", verificationToken)

	return c.doJSON(ctx, request{
		operation: "verify_email",
		method:    http.MethodPost,
		path:      "/auth/verify-email",
		query:     q,
		auth:      AuthHeader(tokenType, authToken),
	}, nil)
}

// ResendVerification requests a fresh verification email.
func (c *Client) ResendVerification(ctx context.Context, tokenType, authToken string) error {
	return c.doJSON(ctx, request{
		operation: "resend_verification",
		method:    http.MethodPost,
		path:      "/auth/resend-verification",
		auth:      AuthHeader(tokenType, authToken),
	}, nil)
}

// Logout tells the API to drop the session. Best effort: the server side
// may fail or be unreachable, the caller clears local token state either
// way (the client is authoritative about its own session).
func (c *Client) Logout(ctx context.Context, tokenType, token string) error {
	if token == "" {
		return nil
	}

	err := c.doJSON(ctx, request{
		operation: "logout",
		method:    http.MethodPost,
		path:      "/auth/logout",
		auth:      AuthHeader(tokenType, token),
	}, nil)
	if err != nil {
		logger.Warn("Server-side logout failed, clearing local session anyway", zap.Error(err))
	}
	return err
}
