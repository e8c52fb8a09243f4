package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Portafolio-api/internal/infrastructure/quotecache"
)

var _ quotecache.Store = (*QuoteStore)(nil)

// QuoteStore caché de cotizaciones compartida entre instancias.
type QuoteStore struct {
	client *goredis.Client
}

func NewQuoteStore(client *goredis.Client) *QuoteStore {
	return &QuoteStore{client: client}
}

// Get decodifica el valor JSON de key en dst.
func (s *QuoteStore) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("leer %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decodificar %s: %w", key, err)
	}
	return true, nil
}

// Set guarda value serializado como JSON con expiración ttl.
func (s *QuoteStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializar %s: %w", key, err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}
