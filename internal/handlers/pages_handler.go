package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PagesHandler serves the public pages that need no backend call.
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// Index handles GET /, the marketing landing page.
func (h *PagesHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page": "index",
	})
}

// NotFound is the catch-all for unknown paths. Deliberately zone-agnostic:
// it leaks nothing about which routes exist behind the guards.
func (h *PagesHandler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"page":  "not_found",
		"error": "Page not found",
	})
}
