package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sillysavant/f1nance/config"
	"github.com/sillysavant/f1nance/internal/backend"
	"github.com/sillysavant/f1nance/internal/middleware"
	"github.com/sillysavant/f1nance/internal/models"
	"github.com/sillysavant/f1nance/internal/tokenstore"
	"github.com/sillysavant/f1nance/internal/userstate"
	"github.com/sillysavant/f1nance/pkg/logger"
	"github.com/sillysavant/f1nance/pkg/metrics"
	"github.com/sillysavant/f1nance/pkg/token"
	"go.uber.org/zap"
)

// pendingVerificationTTL bounds the one-shot slot that carries the freshly
// registered email to the verification notice page.
const pendingVerificationTTL = time.Hour

// AuthHandler owns the user-facing authentication flows: login, registration,
// email verification and logout.
type AuthHandler struct {
	api     *backend.Client
	stores  tokenstore.Factory
	users   *userstate.Manager
	session config.SessionConfig
	errs    *ErrorResponder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(api *backend.Client, stores tokenstore.Factory, users *userstate.Manager, session config.SessionConfig, errs *ErrorResponder) *AuthHandler {
	return &AuthHandler{
		api:     api,
		stores:  stores,
		users:   users,
		session: session,
		errs:    errs,
	}
}

// LoginPage handles GET /auth. It echoes the redirect intent carried in the
// query so the login form can round-trip it through the POST.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	intent := models.IntentFromQuery(c.Request.URL.Query())
	c.JSON(http.StatusOK, gin.H{
		"page":     "login",
		"redirect": intent.TargetPath,
		"message":  intent.Reason,
	})
}

// Login handles POST /auth/login. On success the token pair lands in the
// session store and the browser is sent back to where the guard interrupted
// it, or to the dashboard when it arrived at the login page directly.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		metrics.Logins.WithLabelValues(middleware.UserZone, "failure").Inc()
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	pair, err := h.api.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.Logins.WithLabelValues(middleware.UserZone, "failure").Inc()
		respondError(c, requestStatus(err), err.Error(), err)
		return
	}

	h.persistUserSession(c, pair)
	metrics.Logins.WithLabelValues(middleware.UserZone, "success").Inc()

	intent := loginIntent(c)
	c.Redirect(http.StatusFound, intent.TargetOr("/dashboard"))
}

// Register handles POST /auth/register. The password confirmation check is
// local; the API never sees the confirm field. A successful registration
// parks the email in a one-shot slot and forwards to the verification notice.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.Registrations.WithLabelValues("failure").Inc()
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		metrics.Registrations.WithLabelValues("failure").Inc()
		respondError(c, http.StatusBadRequest, "Passwords do not match", nil)
		return
	}

	profile, err := h.api.Register(c.Request.Context(), &req)
	if err != nil {
		metrics.Registrations.WithLabelValues("failure").Inc()
		respondError(c, requestStatus(err), err.Error(), err)
		return
	}

	metrics.Registrations.WithLabelValues("success").Inc()
	logger.Info("User registered", zap.String("email", profile.Email))

	h.stores(c).SetWithTTL(tokenstore.KeyPendingVerification, profile.Email, pendingVerificationTTL)
	c.Redirect(http.StatusFound, "/auth/verify-email")
}

// VerifyEmail handles GET /auth/verify-email. With a token in the query it
// redeems the verification link; without one it renders the post-registration
// notice, consuming the one-shot pending slot so a reload shows a plain page.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	store := h.stores(c)

	verificationToken := c.Query("token")
	if verificationToken == "" {
		email, pending := store.Get(tokenstore.KeyPendingVerification)
		if pending {
			store.Remove(tokenstore.KeyPendingVerification)
		}
		c.JSON(http.StatusOK, gin.H{
			"page":    "verify_email",
			"pending": pending,
			"email":   email,
		})
		return
	}

	pair := storedUserPair(store)
	if err := h.api.VerifyEmail(c.Request.Context(), verificationToken, pair.TokenType, pair.AccessToken); err != nil {
		h.errs.UserError(c, err)
		return
	}

	// Verified flag lives server-side; drop the cached profile so the next
	// page sees it.
	h.users.Invalidate(pair.AccessToken)
	c.Redirect(http.StatusFound, "/dashboard")
}

// ResendVerification handles POST /auth/resend-verification for logged-in
// but unverified users.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	pair := storedUserPair(h.stores(c))
	if err := h.api.ResendVerification(c.Request.Context(), pair.TokenType, pair.AccessToken); err != nil {
		h.errs.UserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout handles POST /auth/logout. The server-side call is best effort; the
// local session is cleared no matter what, since the gateway is authoritative
// about its own cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	store := h.stores(c)
	pair := storedUserPair(store)

	if err := h.api.Logout(c.Request.Context(), pair.TokenType, pair.AccessToken); err != nil {
		attachError(c, err)
	}

	h.users.Invalidate(pair.AccessToken)
	tokenstore.ClearUserSession(store)

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) persistUserSession(c *gin.Context, pair *models.TokenPair) {
	store := h.stores(c)
	ttl := h.cookieTTL(pair.AccessToken)
	store.SetWithTTL(tokenstore.KeyToken, pair.AccessToken, ttl)
	store.SetWithTTL(tokenstore.KeyTokenType, pair.TokenType, ttl)
}

// cookieTTL aligns the cookie lifetime with the backend token's exp claim so
// the cheap presence check and the authoritative server check drift apart as
// little as possible. Opaque tokens fall back to the configured lifetime.
func (h *AuthHandler) cookieTTL(accessToken string) time.Duration {
	remaining, err := token.RemainingLifetime(accessToken, time.Now())
	if err != nil || remaining <= 0 {
		return time.Duration(h.session.CookieTTLHours) * time.Hour
	}
	return remaining
}

// loginIntent extracts the post-login destination from the query or the
// posted form, in that order.
func loginIntent(c *gin.Context) models.RedirectIntent {
	target := models.SafeTarget(c.Query("redirect"))
	if target == "" {
		target = models.SafeTarget(c.PostForm("redirect"))
	}
	return models.RedirectIntent{TargetPath: target}
}

// storedUserPair reads the user token slots, zero-valued when logged out.
func storedUserPair(store tokenstore.Store) models.TokenPair {
	accessToken, _ := store.Get(tokenstore.KeyToken)
	tokenType, _ := store.Get(tokenstore.KeyTokenType)
	return models.TokenPair{AccessToken: accessToken, TokenType: tokenType}
}
