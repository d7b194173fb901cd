package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sillysavant/f1nance/internal/models"
	"github.com/sillysavant/f1nance/internal/tokenstore"
	"github.com/sillysavant/f1nance/pkg/metrics"
)

const (
	// UserZone labels member-area guard activity in metrics.
	UserZone = "user"

	// SessionContextKey stores the request's token pair once the guard has
	// admitted it.
	SessionContextKey = "user_session"
)

// RequireUserSession gates the member area on the presence of a stored user
// token. Presence only: validity is decided by the finance API, whose 401 on
// the subsequent data fetch is the authoritative rejection. Guests are
// redirected to the login page carrying the path they were headed to.
func RequireUserSession(stores tokenstore.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := stores(c)

		token, ok := store.Get(tokenstore.KeyToken)
		if !ok {
			intent := models.RedirectIntent{TargetPath: c.Request.URL.Path}
			metrics.GuardRedirects.WithLabelValues(UserZone, "no_token").Inc()
			c.Redirect(http.StatusFound, intent.LoginURL("/auth"))
			c.Abort()
			return
		}

		tokenType, _ := store.Get(tokenstore.KeyTokenType)
		c.Set(SessionContextKey, models.TokenPair{AccessToken: token, TokenType: tokenType})
		c.Next()
	}
}

// UserSession returns the token pair the guard admitted. Only meaningful on
// routes behind RequireUserSession.
func UserSession(c *gin.Context) (models.TokenPair, bool) {
	val, exists := c.Get(SessionContextKey)
	if !exists {
		return models.TokenPair{}, false
	}
	pair, ok := val.(models.TokenPair)
	return pair, ok
}
