package quotecache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Store almacenamiento clave/valor con expiración. Los valores viajan como JSON
// para que memoria y Redis sean intercambiables.
type Store interface {
	// Get decodifica el valor en dst; false si no existe o expiró.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type memoryEntry struct {
	data       []byte
	expiration time.Time
}

// MemoryStore caché TTL en proceso.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore construye la caché vacía.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get devuelve el valor si existe y no ha expirado.
func (s *MemoryStore) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || s.now().After(e.expiration) {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set guarda el valor con expiración ttl. Purga entradas vencidas de paso.
func (s *MemoryStore) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expiration) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = memoryEntry{data: data, expiration: now.Add(ttl)}
	return nil
}
