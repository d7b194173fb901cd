package handlers

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
	"github.com/sillysavant/f1nance/internal/tokenstore"
	"github.com/sillysavant/f1nance/internal/userstate"
	"github.com/sillysavant/f1nance/pkg/httpclient"
	"github.com/sillysavant/f1nance/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", "test")
}

var testSession = config.SessionConfig{CookieTTLHours: 24}

// authEnv wires an AuthHandler against a fake finance API and an in-memory
// session store.
type authEnv struct {
	router *gin.Engine
	store  *tokenstore.MemoryStore
	srv    *httptest.Server
}

func newAuthEnv(t *testing.T, apiHandler http.Handler) *authEnv {
	t.Helper()

	srv := httptest.NewServer(apiHandler)
	t.Cleanup(srv.Close)

	api := backend.New(srv.URL, httpclient.NewStandardClient())
	store := tokenstore.NewMemoryStore()
	stores := tokenstore.NewMemoryFactory(store)
	users := userstate.NewManager(api, time.Minute)
	handler := NewAuthHandler(api, stores, users, testSession, NewErrorResponder(stores, users))

	router := gin.New()
	router.GET("/auth", handler.LoginPage)
	router.POST("/auth/login", handler.Login)
	router.POST("/auth/register", handler.Register)
	router.GET("/auth/verify-email", handler.VerifyEmail)
	router.POST("/auth/logout", handler.Logout)

	return &authEnv{router: router, store: store, srv: srv}
}

func postForm(router *gin.Engine, target string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}

func loginForm() url.Values {
	form := url.Values{}
	form.Set("email", "student@example.edu")
	form.Set("password", "hunter22pass")
	return form
}

func fakeLoginAPI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123", "token_type": "bearer"})
			return
		}
		http.NotFound(w, r)
	})
}

func TestLoginPage_EchoesIntent(t *testing.T) {
	env := newAuthEnv(t, fakeLoginAPI())

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest("GET", "/auth?redirect=%2Fdashboard%2Fexpenses&message=session_expired", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/dashboard/expenses", body["redirect"])
	assert.Equal(t, "session_expired", body["message"])
}

func TestLogin_StoresTokensAndRedirectsToDashboard(t *testing.T) {
	env := newAuthEnv(t, fakeLoginAPI())

	w := postForm(env.router, "/auth/login", loginForm())

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	token, ok := env.store.Get(tokenstore.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "tok-123", token)
	tokenType, _ := env.store.Get(tokenstore.KeyTokenType)
	assert.Equal(t, "bearer", tokenType)
}

func TestLogin_ResumesInterruptedNavigation(t *testing.T) {
	env := newAuthEnv(t, fakeLoginAPI())

	w := postForm(env.router, "/auth/login?redirect=%2Fdashboard%2Fexpenses", loginForm())

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard/expenses", w.Header().Get("Location"))
}

func TestLogin_DiscardsExternalRedirect(t *testing.T) {
	env := newAuthEnv(t, fakeLoginAPI())

	w := postForm(env.router, "/auth/login?redirect="+url.QueryEscape("https://evil.example/phish"), loginForm())

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestLogin_RejectedCredentialsStayOnPage(t *testing.T) {
	env := newAuthEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
	}))

	w := postForm(env.router, "/auth/login", loginForm())

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect email or password")

	_, ok := env.store.Get(tokenstore.KeyToken)
	assert.False(t, ok, "nothing may be stored on a failed login")
}

func TestLogin_ValidationFailure(t *testing.T) {
	env := newAuthEnv(t, fakeLoginAPI())

	form := url.Values{}
	form.Set("email", "not-an-email")
	form.Set("password", "x")
	w := postForm(env.router, "/auth/login", form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Validation failed")
}

func TestRegister_PasswordMismatchNeverReachesAPI(t *testing.T) {
	apiCalled := false
	env := newAuthEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalled = true
	}))

	body := `{"email":"student@example.edu","username":"student","full_name":"Test Student","password":"hunter22pass","confirm_password":"different22"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Passwords do not match")
	assert.False(t, apiCalled)
}

func TestRegister_SetsPendingSlotAndForwards(t *testing.T) {
	env := newAuthEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "email": "student@example.edu"})
	}))

	body := `{"email":"student@example.edu","username":"student","full_name":"Test Student","password":"hunter22pass","confirm_password":"hunter22pass"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/verify-email", w.Header().Get("Location"))

	email, ok := env.store.Get(tokenstore.KeyPendingVerification)
	require.True(t, ok)
	assert.Equal(t, "student@example.edu", email)
}

func TestVerifyEmail_NoticeConsumesPendingSlot(t *testing.T) {
	env := newAuthEnv(t, fakeLoginAPI())
	env.store.Set(tokenstore.KeyPendingVerification, "student@example.edu")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest("GET", "/auth/verify-email", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["pending"])
	assert.Equal(t, "student@example.edu", body["email"])

	// The slot is one-shot: a reload renders a plain page
	_, ok := env.store.Get(tokenstore.KeyPendingVerification)
	assert.False(t, ok)

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest("GET", "/auth/verify-email", http.NoBody))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["pending"])
}

func TestVerifyEmail_RedeemsTokenAndForwards(t *testing.T) {
	var gotToken string
	env := newAuthEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/verify-email", r.URL.Path)
		gotToken = r.URL.Query().Get("token")
		json.NewEncoder(w).Encode(map[string]string{"message": "Email verified"})
	}))
	env.store.Set(tokenstore.KeyToken, "tok-123")
	env.store.Set(tokenstore.KeyTokenType, "bearer")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest("GET", "/auth/verify-email?token=verify-abc", http.NoBody))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Equal(t, "verify-abc", gotToken)
}

func TestLogout_ClearsSessionEvenWhenServerFails(t *testing.T) {
	env := newAuthEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	env.store.Set(tokenstore.KeyToken, "tok-123")
	env.store.Set(tokenstore.KeyTokenType, "bearer")

	w := postForm(env.router, "/auth/logout", url.Values{})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	_, ok := env.store.Get(tokenstore.KeyToken)
	assert.False(t, ok, "the client is authoritative about its own session")
	_, ok = env.store.Get(tokenstore.KeyTokenType)
	assert.False(t, ok)
}
