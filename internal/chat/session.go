package chat

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/domain"
)

// Session holds per-conversation state accumulated across turns. Sessions are
// best-effort: eviction loses accumulated details but never breaks a
// conversation, since every turn carries the full transcript.
type Session struct {
	ID        string
	State     domain.SessionState
	Details   domain.ProjectDetails
	UpdatedAt time.Time
}

// SessionStore keeps recent conversation sessions in a bounded LRU cache.
// All methods are safe for concurrent use.
type SessionStore struct {
	mu     sync.Mutex
	cache  *lru.Cache[string, *Session]
	logger *zap.Logger
}

// DefaultSessionCapacity bounds concurrent tracked conversations.
const DefaultSessionCapacity = 4096

func NewSessionStore(capacity int, logger *zap.Logger) (*SessionStore, error) {
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	cache, err := lru.New[string, *Session](capacity)
	if err != nil {
		return nil, err
	}
	return &SessionStore{cache: cache, logger: logger}, nil
}

// get returns the session for id, creating it in the idle state if absent.
// Caller must hold s.mu.
func (s *SessionStore) get(id string) *Session {
	if sess, ok := s.cache.Get(id); ok {
		return sess
	}
	sess := &Session{ID: id, State: domain.SessionIdle, UpdatedAt: time.Now()}
	if evicted := s.cache.Add(id, sess); evicted {
		s.logger.Debug("session evicted to admit new conversation", zap.String("session_id", id))
	}
	return sess
}

// Touch records a new user turn and returns the session's state after the
// transition. A turn arriving while contact collection is pending means the
// visitor kept talking instead of filling the form, so the session reverts
// to active.
func (s *SessionStore) Touch(id string) domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(id)
	switch sess.State {
	case domain.SessionIdle, domain.SessionAwaitingContact, domain.SessionClosed:
		sess.State = domain.SessionActive
	}
	sess.UpdatedAt = time.Now()
	return sess.State
}

// MergeDetails folds newly extracted details into the session and returns the
// accumulated result. Later non-empty values win per field.
func (s *SessionStore) MergeDetails(id string, d domain.ProjectDetails) domain.ProjectDetails {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(id)
	sess.Details = sess.Details.Merge(d)
	sess.UpdatedAt = time.Now()
	return sess.Details
}

// Details returns the accumulated details without mutating the session.
func (s *SessionStore) Details(id string) domain.ProjectDetails {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.cache.Get(id); ok {
		return sess.Details
	}
	return domain.ProjectDetails{}
}

// AwaitContact marks the session as waiting for the visitor's contact form.
func (s *SessionStore) AwaitContact(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(id)
	sess.State = domain.SessionAwaitingContact
	sess.UpdatedAt = time.Now()
}

// CloseSession marks the conversation closed after a lead was submitted.
func (s *SessionStore) CloseSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.cache.Get(id); ok {
		sess.State = domain.SessionClosed
		sess.UpdatedAt = time.Now()
	}
}

// State reports the session's current state; untracked sessions are idle.
func (s *SessionStore) State(id string) domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.cache.Get(id); ok {
		return sess.State
	}
	return domain.SessionIdle
}

// Len reports the number of tracked sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
