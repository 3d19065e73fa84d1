package session

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"visioai/internal/domain"
)

// Manager owns every live session. Sessions have no durable form: they are
// held in a TTL cache and evicted after sitting idle for the configured
// lifetime, which is what "destroyed when the browser session ends" means on
// the server side.
type Manager struct {
	sessions        *gocache.Cache
	defaultProvider domain.Provider
	ttl             time.Duration
}

func NewManager(defaultProvider domain.Provider, ttl time.Duration) *Manager {
	return &Manager{
		sessions:        gocache.New(ttl, ttl/2),
		defaultProvider: defaultProvider,
		ttl:             ttl,
	}
}

// Create makes a fresh session with a random ID and registers it.
func (m *Manager) Create() *Session {
	sess := New(uuid.NewString(), m.defaultProvider)
	m.sessions.Set(sess.ID, sess, gocache.DefaultExpiration)
	return sess
}

// Get returns the session for id and slides its expiry, or ok=false if the
// id is unknown or the session already expired.
func (m *Manager) Get(id string) (*Session, bool) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*Session)
	m.sessions.Set(id, sess, gocache.DefaultExpiration)
	return sess, true
}

// Drop removes a session immediately (used by the reset handler).
func (m *Manager) Drop(id string) {
	m.sessions.Delete(id)
}
