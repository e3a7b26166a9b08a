// Package session keeps the per-browser API key in memory, keyed by an opaque
// cookie. Nothing is written to disk; a restart forgets every key.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/stockdash/internal/config"
	"github.com/seenimoa/stockdash/internal/infra"
)

// Session is one browser's state.
type Session struct {
	ID        string
	APIKey    string
	CreatedAt time.Time
}

type ctxKey struct{}

// FromContext returns the session loaded by Middleware, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// APIKey returns the session API key stored in ctx, or "".
func APIKey(ctx context.Context) string {
	s, _ := FromContext(ctx)
	return s.APIKey
}

// Manager issues session cookies and stores sessions in a TTL cache.
// Expiry slides on every request that presents a live cookie.
type Manager struct {
	store      *infra.Cache[Session]
	cookieName string
	secure     bool
	interval   time.Duration
	log        zerolog.Logger
}

// NewManager creates a session manager. secure marks cookies HTTPS-only.
func NewManager(cfg config.SessionConfig, secure bool, log zerolog.Logger) *Manager {
	return &Manager{
		store:      infra.NewCache[Session](cfg.TTL),
		cookieName: cfg.CookieName,
		secure:     secure,
		interval:   cfg.CleanupInterval,
		log:        log.With().Str("component", "session").Logger(),
	}
}

// Middleware loads the session named by the request cookie into the context.
// Requests without a live session pass through untouched.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(m.cookieName)
		if err == nil && c.Value != "" {
			if s, ok := m.store.Get(c.Value); ok {
				m.store.Touch(s.ID)
				r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, s))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SetAPIKey starts a fresh session holding key and sets its cookie.
// Any session the request already had is discarded.
func (m *Manager) SetAPIKey(w http.ResponseWriter, r *http.Request, key string) (Session, error) {
	if old, ok := FromContext(r.Context()); ok {
		m.store.Invalidate(old.ID)
	}

	id, err := newID()
	if err != nil {
		return Session{}, fmt.Errorf("new session id: %w", err)
	}
	s := Session{ID: id, APIKey: key, CreatedAt: time.Now()}
	m.store.Set(id, s)

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.store.TTL().Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	m.log.Debug().Msg("session key stored")
	return s, nil
}

// Clear forgets the request's session and expires its cookie.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) {
	if s, ok := FromContext(r.Context()); ok {
		m.store.Invalidate(s.ID)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Len returns the number of stored sessions.
func (m *Manager) Len() int { return m.store.Len() }

// Janitor drops expired sessions periodically until ctx is done.
func (m *Manager) Janitor(ctx context.Context) error {
	if m.interval <= 0 {
		<-ctx.Done()
		return nil
	}
	return m.store.RunCleanup(ctx, m.interval, func(n int) {
		if n > 0 {
			m.log.Debug().Int("removed", n).Int("remaining", m.store.Len()).Msg("expired sessions swept")
		}
	})
}

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
