package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sillysavant/f1nance/config"
	"github.com/sillysavant/f1nance/internal/backend"
	"github.com/sillysavant/f1nance/internal/handlers"
	"github.com/sillysavant/f1nance/internal/middleware"
	"github.com/sillysavant/f1nance/internal/tokenstore"
	"github.com/sillysavant/f1nance/internal/userstate"
	"github.com/sillysavant/f1nance/pkg/httpclient"
	"github.com/sillysavant/f1nance/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", "test")
}

// newGateway assembles the whole route table against a fake finance API,
// mirroring the wiring in cmd/gateway.
func newGateway(t *testing.T, apiHandler http.Handler) (*gin.Engine, *tokenstore.MemoryStore) {
	t.Helper()

	srv := httptest.NewServer(apiHandler)
	t.Cleanup(srv.Close)

	api := backend.New(srv.URL, httpclient.NewStandardClient())
	store := tokenstore.NewMemoryStore()
	stores := tokenstore.NewMemoryFactory(store)
	users := userstate.NewManager(api, time.Minute)
	session := config.SessionConfig{CookieTTLHours: 24}
	errs := handlers.NewErrorResponder(stores, users)

	r := gin.New()
	Register(r, Deps{
		Stores:             stores,
		Pages:              handlers.NewPagesHandler(),
		Auth:               handlers.NewAuthHandler(api, stores, users, session, errs),
		AdminAuth:          handlers.NewAdminAuthHandler(api, stores, session),
		Dashboard:          handlers.NewDashboardHandler(api, users, errs),
		Admin:              handlers.NewAdminHandler(api, errs),
		Health:             handlers.NewHealthHandler(),
		Logs:               handlers.NewLogsHandler(t.TempDir()),
		GeneralRateLimiter: middleware.NewRateLimiter(1000, 1000),
		AuthRateLimiter:    middleware.NewRateLimiter(1000, 1000),
	})

	return r, store
}

func fakeFinanceAPI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123", "token_type": "bearer"})
		case "/auth/me":
			json.NewEncoder(w).Encode(map[string]any{"id": 7, "email": "student@example.edu"})
		case "/expenses/":
			json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "category": "rent", "amount": 850.0}})
		default:
			http.NotFound(w, r)
		}
	})
}

func TestGuardedPageToLoginAndBack(t *testing.T) {
	router, store := newGateway(t, fakeFinanceAPI())

	// 1. Guest hits a protected page and is bounced to login with the
	//    return path preserved
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/dashboard/expenses", http.NoBody))
	require.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	assert.Equal(t, "/auth?redirect=%2Fdashboard%2Fexpenses", location)

	// 2. The login page echoes the intent
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", location, http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/dashboard/expenses")

	// 3. Logging in resumes the interrupted navigation
	form := url.Values{}
	form.Set("email", "student@example.edu")
	form.Set("password", "hunter22pass")
	w = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login?redirect=%2Fdashboard%2Fexpenses", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard/expenses", w.Header().Get("Location"))

	token, ok := store.Get(tokenstore.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "tok-123", token)

	// 4. The page now renders
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/dashboard/expenses", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rent")
}

func TestExpiredSessionRoundTrip(t *testing.T) {
	router, store := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	store.Set(tokenstore.KeyToken, "stale-token")
	store.Set(tokenstore.KeyTokenType, "bearer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/dashboard", http.NoBody))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth?message=session_expired", w.Header().Get("Location"))
	_, ok := store.Get(tokenstore.KeyToken)
	assert.False(t, ok)
}

func TestAdminAuthIsPublicWhileAdminIsGuarded(t *testing.T) {
	router, _ := newGateway(t, fakeFinanceAPI())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/admin/auth", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code, "the admin login page must not sit behind the guard")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/admin", http.NoBody))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/auth?message=session_expired", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/admin/users", http.NoBody))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestPublicZone(t *testing.T) {
	router, _ := newGateway(t, fakeFinanceAPI())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownPathFallsThroughToNotFound(t *testing.T) {
	router, _ := newGateway(t, fakeFinanceAPI())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/no/such/page", http.NoBody))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestFrontendLogBeacon(t *testing.T) {
	router, _ := newGateway(t, fakeFinanceAPI())

	body := `{"logs":[{"timestamp":"2026-08-29T10:00:00Z","level":"error","message":"fetch failed"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":1`)
}
