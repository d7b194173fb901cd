package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds protective headers to all HTTP responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevents clickjacking
		c.Header("X-Frame-Options", "DENY")

		// Prevents MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		// Controls referrer information
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Restricts browser features
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()")

		// Session state travels in cookies, so responses must never be
		// cached by intermediaries.
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
		c.Header("Pragma", "no-cache")

		c.Next()
	}
}
