package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Portafolio-api/internal/application/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore revocaciones de sesión en memoria; las entradas vencidas se purgan al revocar.
type SessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewSessionStore construye el store.
func NewSessionStore() *SessionStore {
	return &SessionStore{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke marca tokenID como revocado hasta until.
func (s *SessionStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
	s.revoked[tokenID] = until
	return nil
}

// IsRevoked indica si tokenID fue revocado y la revocación sigue vigente.
func (s *SessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	return !s.now().After(exp), nil
}
