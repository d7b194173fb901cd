package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sillysavant/f1nance/internal/models"
	"github.com/sillysavant/f1nance/internal/tokenstore"
	"github.com/sillysavant/f1nance/pkg/metrics"
)

const (
	// AdminZone labels back-office guard activity in metrics.
	AdminZone = "admin"

	// AdminSessionContextKey stores the admitted admin token pair.
	AdminSessionContextKey = "admin_session"
)

// RequireAdminSession gates the back office on the presence of a stored
// admin token. The admin slots are checked exclusively; a regular user
// token grants nothing here. Guests land on the admin login page with a
// session-expired notice and no deep-link resume, admin entry points are
// few enough that re-navigating is cheap.
func RequireAdminSession(stores tokenstore.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := stores(c)

		token, ok := store.Get(tokenstore.KeyAdminToken)
		if !ok {
			intent := models.RedirectIntent{Reason: models.ReasonSessionExpired}
			metrics.GuardRedirects.WithLabelValues(AdminZone, "no_token").Inc()
			c.Redirect(http.StatusFound, intent.LoginURL("/admin/auth"))
			c.Abort()
			return
		}

		tokenType, _ := store.Get(tokenstore.KeyAdminTokenType)
		c.Set(AdminSessionContextKey, models.TokenPair{AccessToken: token, TokenType: tokenType})
		c.Next()
	}
}

// AdminSession returns the token pair the admin guard admitted.
func AdminSession(c *gin.Context) (models.TokenPair, bool) {
	val, exists := c.Get(AdminSessionContextKey)
	if !exists {
		return models.TokenPair{}, false
	}
	pair, ok := val.(models.TokenPair)
	return pair, ok
}
