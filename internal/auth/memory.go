// memory.go — In-memory Store for unit tests (same role the in-memory
// ratelimit store plays: exercise the logic without infrastructure).
package auth

import (
	"context"
	"sync"
)

// MemoryStore implements Store with maps. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	codes    map[string]AccessCode // keyed by code string
	sessions map[string]Session    // keyed by token
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		codes:    make(map[string]AccessCode),
		sessions: make(map[string]Session),
	}
}

// AddAccessCode seeds a code. Test helper; production codes come from cmd/seed.
func (m *MemoryStore) AddAccessCode(ac AccessCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[ac.Code] = ac
}

// PutSession overwrites a stored session. Tests use it to push expires_at
// into the past without a clock dependency.
func (m *MemoryStore) PutSession(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
}

func (m *MemoryStore) FindAccessCodeByCode(ctx context.Context, code string) (*AccessCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ac, ok := m.codes[code]
	if !ok {
		return nil, ErrNotFound
	}
	out := ac
	return &out, nil
}

func (m *MemoryStore) InsertSession(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = *s
	return nil
}

func (m *MemoryStore) FindSessionByToken(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	out := s
	return &out, nil
}

// SessionCount reports the number of stored sessions. Test helper.
func (m *MemoryStore) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
