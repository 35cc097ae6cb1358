package session

import (
	"sync"

	"reelfinder/models"
)

// Manager keeps one started controller per page session, keyed by user id.
// Anonymous requests share the "" session until an identity appears.
type Manager struct {
	newController func() *Controller

	mu       sync.Mutex
	closed   bool
	sessions map[string]*Controller
}

// NewManager creates a session registry. newController must return an
// unstarted controller; the manager starts it on first use.
func NewManager(newController func() *Controller) *Manager {
	return &Manager{
		newController: newController,
		sessions:      make(map[string]*Controller),
	}
}

// Session returns the controller for the given identity, creating and
// starting it on first access. The identity is re-applied on every call so
// the absent -> present transition reaches the controller.
func (m *Manager) Session(identity models.Identity) *Controller {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	key := identity.UserID
	c, ok := m.sessions[key]
	if !ok {
		c = m.newController()
		m.sessions[key] = c
		c.Start()
	}
	m.mu.Unlock()

	c.SetIdentity(identity)
	return c
}

// Close tears down every session.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[string]*Controller)
	m.mu.Unlock()

	for _, c := range sessions {
		c.Close()
	}
}
