package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodySizeLimit caps request body sizes on the form and beacon endpoints.
func BodySizeLimit(maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// GET, HEAD and OPTIONS carry no body
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

		c.Next()
	}
}
