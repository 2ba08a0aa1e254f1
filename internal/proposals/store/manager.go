package store

import (
	"sync"
	"time"

	"github.com/proposalcraft/proposalcraft-backend/internal/cache"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

// Session is one editing session: a Store plus the id of the saved proposal
// it was loaded from or last saved to.
type Session struct {
	ID    string
	Store *Store

	mu         sync.Mutex
	proposalID string
}

// ProposalID returns the bound saved-proposal id, "" before the first save.
func (s *Session) ProposalID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proposalID
}

// BindProposal records the saved-proposal id used by later saves.
func (s *Session) BindProposal(id string) {
	s.mu.Lock()
	s.proposalID = id
	s.mu.Unlock()
}

// Manager keeps the open editing sessions. Idle sessions expire after ttl.
type Manager struct {
	sessions *cache.TTLCache[string, *Session]
	ttl      time.Duration
	opts     []Option
}

func NewManager(ttl time.Duration, opts ...Option) *Manager {
	return &Manager{
		sessions: cache.NewTTLCache[string, *Session](),
		ttl:      ttl,
		opts:     opts,
	}
}

// Open starts a session on a copy of doc (nil means the default proposal).
func (m *Manager) Open(doc *domain.Document, proposalID string) *Session {
	sess := &Session{
		ID:         domain.NewID(),
		Store:      New(doc, m.opts...),
		proposalID: proposalID,
	}
	m.sessions.Set(sess.ID, sess, m.ttl)
	return sess
}

// Get returns a live session and extends its lifetime.
func (m *Manager) Get(id string) (*Session, error) {
	sess, ok := m.sessions.Touch(id, m.ttl)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Close ends a session. It reports whether the session existed.
func (m *Manager) Close(id string) bool {
	return m.sessions.Delete(id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.sessions.Len()
}

// Sweep drops expired sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	return m.sessions.Purge()
}
