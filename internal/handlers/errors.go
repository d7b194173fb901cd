package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sillysavant/f1nance/internal/middleware"
	"github.com/sillysavant/f1nance/internal/models"
	"github.com/sillysavant/f1nance/internal/tokenstore"
	"github.com/sillysavant/f1nance/internal/userstate"
	"github.com/sillysavant/f1nance/pkg/errors"
	"github.com/sillysavant/f1nance/pkg/metrics"
)

// sessionExpiryHandledKey marks a request whose 401 has already been
// escalated, so overlapping failures on one request redirect exactly once.
const sessionExpiryHandledKey = "session_expiry_handled"

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin
// context so the observability middleware can include the reason in the log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) { //nolint:unparam
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// ErrorResponder is the single funnel page handlers push backend errors
// through. An unauthenticated error is session-wide: the stored tokens for
// the zone are cleared and the user lands on the zone's login page with a
// session-expired notice. Anything else stays on the page as a JSON error.
type ErrorResponder struct {
	stores tokenstore.Factory
	users  *userstate.Manager
}

func NewErrorResponder(stores tokenstore.Factory, users *userstate.Manager) *ErrorResponder {
	return &ErrorResponder{stores: stores, users: users}
}

// UserError handles a member-area failure.
func (r *ErrorResponder) UserError(c *gin.Context, err error) {
	if stderrors.Is(err, errors.ErrUnauthenticated) {
		r.expireUserSession(c, err)
		return
	}
	respondError(c, requestStatus(err), err.Error(), err)
}

// AdminError handles a back-office failure.
func (r *ErrorResponder) AdminError(c *gin.Context, err error) {
	if stderrors.Is(err, errors.ErrUnauthenticated) {
		r.expireAdminSession(c, err)
		return
	}
	respondError(c, requestStatus(err), err.Error(), err)
}

func (r *ErrorResponder) expireUserSession(c *gin.Context, err error) {
	if c.GetBool(sessionExpiryHandledKey) {
		return
	}
	c.Set(sessionExpiryHandledKey, true)
	attachError(c, err)

	store := r.stores(c)
	if token, ok := store.Get(tokenstore.KeyToken); ok {
		r.users.Invalidate(token)
	}
	tokenstore.ClearUserSession(store)

	metrics.SessionsExpired.WithLabelValues(middleware.UserZone).Inc()
	intent := models.RedirectIntent{Reason: models.ReasonSessionExpired}
	c.Redirect(http.StatusFound, intent.LoginURL("/auth"))
	c.Abort()
}

func (r *ErrorResponder) expireAdminSession(c *gin.Context, err error) {
	if c.GetBool(sessionExpiryHandledKey) {
		return
	}
	c.Set(sessionExpiryHandledKey, true)
	attachError(c, err)

	tokenstore.ClearAdminSession(r.stores(c))

	metrics.SessionsExpired.WithLabelValues(middleware.AdminZone).Inc()
	intent := models.RedirectIntent{Reason: models.ReasonSessionExpired}
	c.Redirect(http.StatusFound, intent.LoginURL("/admin/auth"))
	c.Abort()
}

// requestStatus maps a normalized backend error to the status the gateway
// relays. Transport failures (status 0) surface as 502.
func requestStatus(err error) int {
	if stderrors.Is(err, errors.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	var reqErr *errors.RequestError
	if stderrors.As(err, &reqErr) && reqErr.StatusCode > 0 {
		return reqErr.StatusCode
	}
	return http.StatusBadGateway
}
