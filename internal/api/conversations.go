package api

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ppiankov/veracity/internal/llm"
)

// ConversationStore keeps per-session chat history. Sessions idle past the
// TTL are evicted; an explicit Delete removes one immediately.
type ConversationStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
}

// NewConversationStore creates a store whose sessions expire after ttl of
// inactivity
func NewConversationStore(ttl time.Duration) *ConversationStore {
	return &ConversationStore{
		cache: gocache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

// History returns a copy of the session's messages and whether the session
// exists
func (s *ConversationStore) History(id string) ([]llm.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	msgs := val.([]llm.Message)
	out := make([]llm.Message, len(msgs))
	copy(out, msgs)
	return out, true
}

// Append adds messages to the session, creating it if absent and
// refreshing its TTL
func (s *ConversationStore) Append(id string, msgs ...llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []llm.Message
	if val, found := s.cache.Get(id); found {
		history = val.([]llm.Message)
	}
	history = append(history, msgs...)
	s.cache.Set(id, history, s.ttl)
}

// Delete removes the session's history
func (s *ConversationStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(id)
}
