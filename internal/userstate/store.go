// Package userstate caches the current user's profile so pages sharing a
// session do not each pay for a GET /auth/me round-trip. The Manager owns
// the cross-request cache; a Store is the injectable per-session container
// pages observe, exposing fetch/set/clear/refresh.
package userstate

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sillysavant/f1nance/internal/models"
	"github.com/sillysavant/f1nance/pkg/logger"
	"github.com/sillysavant/f1nance/pkg/metrics"
	"go.uber.org/zap"
)

const cacheName = "user_profile"

// Fetcher is the slice of the backend client the store needs.
type Fetcher interface {
	CurrentUser(ctx context.Context, tokenType, token string) (*models.UserProfile, error)
}

// Snapshot is the observable state pages render from.
type Snapshot struct {
	User      *models.UserProfile
	IsLoading bool
	Error     string
}

// Manager owns the profile cache, keyed by token value so a new login never
// sees its predecessor's profile.
type Manager struct {
	fetcher Fetcher
	cache   *gocache.Cache
}

// NewManager creates a Manager whose cache entries live for ttl.
func NewManager(fetcher Fetcher, ttl time.Duration) *Manager {
	return &Manager{
		fetcher: fetcher,
		cache:   gocache.New(ttl, 2*ttl),
	}
}

// ForSession binds a Store to one session's credentials.
func (m *Manager) ForSession(tokenType, token string) *Store {
	return &Store{
		manager:   m,
		tokenType: tokenType,
		token:     token,
	}
}

// Invalidate drops the cached profile for a token (logout, admin edits).
func (m *Manager) Invalidate(token string) {
	m.cache.Delete(token)
}

// Store is a per-session observable container. Mutations flow through
// explicit calls from page handlers; subscribers get pushed every change.
type Store struct {
	manager   *Manager
	tokenType string
	token     string

	mu        sync.Mutex
	snapshot  Snapshot
	listeners []func(Snapshot)
}

// Subscribe registers a listener notified on every state change.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// User returns the cached profile, nil when unauthenticated or not yet
// fetched.
func (s *Store) User() *models.UserProfile {
	return s.Snapshot().User
}

func (s *Store) setState(update func(*Snapshot)) {
	s.mu.Lock()
	update(&s.snapshot)
	snapshot := s.snapshot
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// FetchUser loads the profile, reusing the manager's cache when warm.
// Overlapping calls are not deduplicated; each one runs to completion and
// the last writer wins, which matches at-most-one-fetch-per-page-mount use.
func (s *Store) FetchUser(ctx context.Context) error {
	if cached, found := s.manager.cache.Get(s.token); found {
		if profile, ok := cached.(*models.UserProfile); ok {
			metrics.CacheHits.WithLabelValues(cacheName).Inc()
			s.setState(func(snap *Snapshot) {
				snap.User = profile
				snap.IsLoading = false
				snap.Error = ""
			})
			return nil
		}
	}
	metrics.CacheMisses.WithLabelValues(cacheName).Inc()

	return s.fetch(ctx)
}

// RefreshUser re-fetches the profile, bypassing the cache.
func (s *Store) RefreshUser(ctx context.Context) error {
	s.manager.Invalidate(s.token)
	return s.fetch(ctx)
}

func (s *Store) fetch(ctx context.Context) error {
	s.setState(func(snap *Snapshot) {
		snap.IsLoading = true
		snap.Error = ""
	})

	profile, err := s.manager.fetcher.CurrentUser(ctx, s.tokenType, s.token)
	if err != nil {
		logger.Debug("Profile fetch failed", zap.Error(err))
		s.setState(func(snap *Snapshot) {
			snap.IsLoading = false
			snap.Error = err.Error()
		})
		return err
	}

	s.manager.cache.SetDefault(s.token, profile)
	s.setState(func(snap *Snapshot) {
		snap.User = profile
		snap.IsLoading = false
		snap.Error = ""
	})
	return nil
}

// SetUser writes the profile directly, used after profile edits to avoid a
// redundant re-fetch. A nil profile clears the slot.
func (s *Store) SetUser(profile *models.UserProfile) {
	if profile == nil {
		s.manager.Invalidate(s.token)
	} else {
		s.manager.cache.SetDefault(s.token, profile)
	}
	s.setState(func(snap *Snapshot) {
		snap.User = profile
	})
}

// ClearUser resets the container, called on logout. Idempotent: clearing an
// already-empty store is a no-op.
func (s *Store) ClearUser() {
	s.manager.Invalidate(s.token)
	s.setState(func(snap *Snapshot) {
		snap.User = nil
		snap.IsLoading = false
		snap.Error = ""
	})
}
