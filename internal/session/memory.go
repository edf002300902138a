package session

import (
	"context"
	"sync"
	"time"
)

// compile-time check that *MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps sessions in a mutex-guarded map.
//
// Suitable for a single-process deployment and for tests. Sessions are lost
// on restart (users just log in again) and are never shared between
// instances — use the Redis store when running more than one replica.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entry

	now func() time.Time // injectable clock for expiry tests
}

type entry struct {
	userID    string
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, userID string) (string, error) {
	sid := newID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = entry{
		userID:    userID,
		expiresAt: s.now().Add(TTL),
	}
	return sid, nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return "", nil
	}
	if s.now().After(e.expiresAt) {
		// Expired — remove it lazily so the map doesn't grow forever.
		// The Sweep goroutine also collects these, but there is no harm
		// in doing it on first touch.
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return "", nil
	}
	return e.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Sweep removes all expired sessions. Called periodically by StartSweeper;
// exported separately so tests can trigger a sweep deterministically.
func (s *MemoryStore) Sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, sid)
		}
	}
}

// StartSweeper launches a background goroutine that sweeps expired sessions
// every interval until ctx is cancelled.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}
