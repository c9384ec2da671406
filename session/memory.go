package session

import (
	"context"
	"sync"
	"time"
)

type memorySession struct {
	turns    []Turn
	lastSeen time.Time
}

// MemoryStore keeps transcripts in process memory. Sessions idle for longer
// than the TTL are dropped lazily on the next Append.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	maxTurns int
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(maxTurns int, ttl time.Duration) *MemoryStore {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		maxTurns: maxTurns,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Append(_ context.Context, id string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evict(now)

	sess, ok := s.sessions[id]
	if !ok {
		sess = &memorySession{}
		s.sessions[id] = sess
	}
	sess.turns = append(sess.turns, turn)
	if over := len(sess.turns) - s.maxTurns; over > 0 {
		sess.turns = append([]Turn(nil), sess.turns[over:]...)
	}
	sess.lastSeen = now

	return nil
}

func (s *MemoryStore) History(_ context.Context, id string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || s.expired(sess, s.now()) {
		return []Turn{}, nil
	}
	return append([]Turn(nil), sess.turns...), nil
}

func (s *MemoryStore) evict(now time.Time) {
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) expired(sess *memorySession, now time.Time) bool {
	return now.Sub(sess.lastSeen) > s.ttl
}
