package tokenstore

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMemoryStore_AbsentSignal(t *testing.T) {
	store := NewMemoryStore()

	value, ok := store.Get(KeyToken)
	assert.False(t, ok, "missing key should signal absence")
	assert.Equal(t, "", value)

	store.Set(KeyToken, "abc")
	value, ok = store.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)
}

func TestMemoryStore_RemoveIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	store.Set(KeyToken, "abc")

	store.Remove(KeyToken)
	_, ok := store.Get(KeyToken)
	assert.False(t, ok)

	// Removing again must not panic or resurrect anything
	store.Remove(KeyToken)
	_, ok = store.Get(KeyToken)
	assert.False(t, ok)
}

func TestClearUserSession_LeavesAdminSlotsAlone(t *testing.T) {
	store := NewMemoryStore()
	store.Set(KeyToken, "user-token")
	store.Set(KeyTokenType, "bearer")
	store.Set(KeyAdminToken, "admin-token")
	store.Set(KeyAdminTokenType, "bearer")

	ClearUserSession(store)

	_, ok := store.Get(KeyToken)
	assert.False(t, ok)
	_, ok = store.Get(KeyTokenType)
	assert.False(t, ok)

	adminToken, ok := store.Get(KeyAdminToken)
	assert.True(t, ok, "admin session must survive a user logout")
	assert.Equal(t, "admin-token", adminToken)
}

func TestClearAdminSession_LeavesUserSlotsAlone(t *testing.T) {
	store := NewMemoryStore()
	store.Set(KeyToken, "user-token")
	store.Set(KeyAdminToken, "admin-token")

	ClearAdminSession(store)

	_, ok := store.Get(KeyAdminToken)
	assert.False(t, ok)

	userToken, ok := store.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "user-token", userToken)
}

func TestCookieStore_ReadsRequestCookies(t *testing.T) {
	factory := NewCookieFactory("", false, time.Hour)

	router := gin.New()
	var gotValue string
	var gotOK bool
	router.GET("/read", func(c *gin.Context) {
		store := factory(c)
		gotValue, gotOK = store.Get(KeyToken)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/read", http.NoBody)
	req.AddCookie(&http.Cookie{Name: KeyToken, Value: "abc"})
	router.ServeHTTP(w, req)

	assert.True(t, gotOK)
	assert.Equal(t, "abc", gotValue)
}

func TestCookieStore_MissingCookieSignalsAbsence(t *testing.T) {
	factory := NewCookieFactory("", false, time.Hour)

	router := gin.New()
	var gotOK bool
	router.GET("/read", func(c *gin.Context) {
		_, gotOK = factory(c).Get(KeyToken)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/read", http.NoBody))

	assert.False(t, gotOK)
}

func TestCookieStore_SetWritesHttpOnlyCookie(t *testing.T) {
	factory := NewCookieFactory("", false, time.Hour)

	router := gin.New()
	router.GET("/write", func(c *gin.Context) {
		factory(c).Set(KeyToken, "abc")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/write", http.NoBody))

	setCookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, "token=abc")
	assert.Contains(t, setCookie, "HttpOnly")
	assert.Contains(t, setCookie, "Max-Age=3600")
}

func TestCookieStore_RemoveExpiresCookie(t *testing.T) {
	factory := NewCookieFactory("", false, time.Hour)

	router := gin.New()
	router.GET("/remove", func(c *gin.Context) {
		factory(c).Remove(KeyToken)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/remove", http.NoBody))

	setCookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.Contains(setCookie, "token=;") || strings.Contains(setCookie, `token="";`),
		"expected cleared cookie, got %q", setCookie)
	assert.Contains(t, setCookie, "Max-Age=0")
}
