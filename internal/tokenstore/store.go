package tokenstore

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Storage keys for credential material. User and admin sessions live under
// distinct keys and are fully independent: neither grants the other's zone.
const (
	KeyToken          = "token"
	KeyTokenType      = "token_type"
	KeyAdminToken     = "admin_token"
	KeyAdminTokenType = "admin_token_type"

	// KeyPendingVerification is a one-shot slot used to resume the email
	// verification flow after registration.
	KeyPendingVerification = "pending_verification"
)

// Store is durable client-side storage of credential material: a named
// key-value bag with an explicit absent signal and idempotent removal.
// Implementations perform no network I/O.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	SetWithTTL(key, value string, ttl time.Duration)
	Remove(key string)
}

// Factory binds a Store to the current request. The cookie implementation
// needs the gin context; tests swap in a MemoryStore.
type Factory func(c *gin.Context) Store

// CookieStore persists values as cookies on the browser session: reads come
// from the request, writes go out as Set-Cookie headers.
type CookieStore struct {
	c      *gin.Context
	domain string
	secure bool
	ttl    time.Duration
}

// NewCookieFactory returns a Factory producing cookie-backed stores with
// the given domain/secure settings and default lifetime.
func NewCookieFactory(domain string, secure bool, defaultTTL time.Duration) Factory {
	return func(c *gin.Context) Store {
		return &CookieStore{c: c, domain: domain, secure: secure, ttl: defaultTTL}
	}
}

func (s *CookieStore) Get(key string) (string, bool) {
	value, err := s.c.Cookie(key)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

func (s *CookieStore) Set(key, value string) {
	s.SetWithTTL(key, value, s.ttl)
}

func (s *CookieStore) SetWithTTL(key, value string, ttl time.Duration) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, int(ttl.Seconds()), "/", s.domain, s.secure, true)
}

// Remove deletes the cookie. Expiring an already-absent cookie is harmless,
// which keeps removal idempotent.
func (s *CookieStore) Remove(key string) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, "", -1, "/", s.domain, s.secure, true)
}

// MemoryStore is an in-memory Store for tests. Not safe for concurrent use;
// the UI event loop is single-writer by construction.
type MemoryStore struct {
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// NewMemoryFactory returns a Factory that hands every request the same
// MemoryStore, so tests can seed and inspect it.
func NewMemoryFactory(store *MemoryStore) Factory {
	return func(c *gin.Context) Store {
		return store
	}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	value, ok := s.values[key]
	return value, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.values[key] = value
}

func (s *MemoryStore) SetWithTTL(key, value string, ttl time.Duration) {
	s.values[key] = value
}

func (s *MemoryStore) Remove(key string) {
	delete(s.values, key)
}

// ClearUserSession removes the user token slots from the store.
func ClearUserSession(store Store) {
	store.Remove(KeyToken)
	store.Remove(KeyTokenType)
}

// ClearAdminSession removes the admin token slots from the store.
func ClearAdminSession(store Store) {
	store.Remove(KeyAdminToken)
	store.Remove(KeyAdminTokenType)
}
