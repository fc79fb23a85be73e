package detect

import (
	"sync"

	"github.com/ppiankov/veracity/internal/model"
)

// SessionStore owns the per-session claim history. It is an explicit object
// with create/get/delete lifecycle so multiple independent instances can
// coexist and tests do not share state.
//
// History is append-only within a session and grows monotonically until
// Delete wipes it.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu     sync.Mutex
	claims []model.VerifiedClaim
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*session)}
}

// session returns the session for id. With create=false an unknown id
// yields nil.
func (s *SessionStore) session(id string, create bool) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok && create {
		sess = &session{}
		s.sessions[id] = sess
	}
	return sess
}

// Snapshot returns a copy of the session's history and whether the session
// exists
func (s *SessionStore) Snapshot(id string) ([]model.VerifiedClaim, bool) {
	sess := s.session(id, false)
	if sess == nil {
		return nil, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]model.VerifiedClaim, len(sess.claims))
	copy(out, sess.claims)
	return out, true
}

// Count returns the number of tracked claims for id, zero when unknown
func (s *SessionStore) Count(id string) int {
	sess := s.session(id, false)
	if sess == nil {
		return 0
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.claims)
}

// Delete removes the session entirely. Subsequent reads behave as if the
// session never existed.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
