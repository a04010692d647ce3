package session

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultLimit bounds the number of live sessions in a MemoryStore.
const DefaultLimit = 64

// MemoryStore keeps sessions in a bounded LRU. When full, the least
// recently used session is evicted; expired sessions are dropped on access
// and by Cleanup. Sessions are never persisted.
type MemoryStore struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, *Session]
}

// NewMemoryStore creates a store holding at most limit sessions.
func NewMemoryStore(limit int) (*MemoryStore, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	c, err := lru.New[string, *Session](limit)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{sessions: c}, nil
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNotFound
	}
	if sess.IsExpired() {
		s.sessions.Remove(sessionID)
		return nil, ErrExpired
	}
	return sess, nil
}

func (s *MemoryStore) Set(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Add(sess.ID, sess)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Remove(sessionID)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.sessions.Keys() {
		if sess, ok := s.sessions.Peek(id); ok && sess.IsExpired() {
			s.sessions.Remove(id)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	return s.sessions.Len()
}

var _ Store = (*MemoryStore)(nil)
