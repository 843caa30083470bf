package storage

import (
	"sort"
	"sync"

	"github.com/pixel-adventure/spritekit/internal/editor"
)

// SessionStore keeps live editor sessions in memory.
type SessionStore struct {
	sessions map[string]*editor.Session
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*editor.Session),
	}
}

func (s *SessionStore) Get(sessionID string) (*editor.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *editor.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

// GetAll returns the sessions oldest first.
func (s *SessionStore) GetAll() []*editor.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*editor.Session, 0, len(s.sessions))
	for _, v := range s.sessions {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return exists
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
