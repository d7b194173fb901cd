package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Healthcheck reports gateway liveness. The finance API is deliberately not
// probed here: the gateway stays up and serves login pages even when the
// backend is down.
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
