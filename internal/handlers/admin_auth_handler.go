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
	"github.com/sillysavant/f1nance/pkg/metrics"
	"github.com/sillysavant/f1nance/pkg/token"
)

// AdminAuthHandler owns the back-office login and logout flows. Admin
// credentials live in their own storage slots; nothing here touches the
// regular user session.
type AdminAuthHandler struct {
	api     *backend.Client
	stores  tokenstore.Factory
	session config.SessionConfig
}

// NewAdminAuthHandler creates a new AdminAuthHandler.
func NewAdminAuthHandler(api *backend.Client, stores tokenstore.Factory, session config.SessionConfig) *AdminAuthHandler {
	return &AdminAuthHandler{
		api:     api,
		stores:  stores,
		session: session,
	}
}

// LoginPage handles GET /admin/auth. Only the reason survives a guard
// bounce; the back office never resumes deep links.
func (h *AdminAuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "admin_login",
		"message": c.Query("message"),
	})
}

// Login handles POST /admin/auth/login.
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		metrics.Logins.WithLabelValues(middleware.AdminZone, "failure").Inc()
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	pair, err := h.api.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.Logins.WithLabelValues(middleware.AdminZone, "failure").Inc()
		respondError(c, requestStatus(err), err.Error(), err)
		return
	}

	store := h.stores(c)
	ttl := h.cookieTTL(pair.AccessToken)
	store.SetWithTTL(tokenstore.KeyAdminToken, pair.AccessToken, ttl)
	store.SetWithTTL(tokenstore.KeyAdminTokenType, pair.TokenType, ttl)

	metrics.Logins.WithLabelValues(middleware.AdminZone, "success").Inc()
	c.Redirect(http.StatusFound, "/admin")
}

// Logout handles POST /admin/auth/logout. Purely local: the admin token
// slots are dropped and the browser lands back on the admin login page.
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	tokenstore.ClearAdminSession(h.stores(c))
	c.Redirect(http.StatusFound, "/admin/auth")
}

func (h *AdminAuthHandler) cookieTTL(accessToken string) time.Duration {
	remaining, err := token.RemainingLifetime(accessToken, time.Now())
	if err != nil || remaining <= 0 {
		return time.Duration(h.session.CookieTTLHours) * time.Hour
	}
	return remaining
}
