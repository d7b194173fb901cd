package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sillysavant/f1nance/internal/backend"
	"github.com/sillysavant/f1nance/internal/middleware"
)

// AdminHandler serves the back-office pages behind RequireAdminSession.
type AdminHandler struct {
	api  *backend.Client
	errs *ErrorResponder
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(api *backend.Client, errs *ErrorResponder) *AdminHandler {
	return &AdminHandler{
		api:  api,
		errs: errs,
	}
}

// Home handles GET /admin: the admin identity plus the landing page stats.
func (h *AdminHandler) Home(c *gin.Context) {
	pair, _ := middleware.AdminSession(c)

	admin, err := h.api.CurrentAdmin(c.Request.Context(), pair.TokenType, pair.AccessToken)
	if err != nil {
		h.errs.AdminError(c, err)
		return
	}

	stats, err := h.api.DashboardStats(c.Request.Context(), pair.TokenType, pair.AccessToken)
	if err != nil {
		h.errs.AdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  "admin_dashboard",
		"admin": admin,
		"stats": stats,
	})
}

// Users handles GET /admin/users.
func (h *AdminHandler) Users(c *gin.Context) {
	pair, _ := middleware.AdminSession(c)

	users, err := h.api.ListUsers(c.Request.Context(), pair.TokenType, pair.AccessToken)
	if err != nil {
		h.errs.AdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  "admin_users",
		"users": users,
	})
}
