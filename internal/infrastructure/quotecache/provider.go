package quotecache

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Portafolio-api/internal/application/ports"
	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
	"github.com/jhoicas/Portafolio-api/pkg/logger"
)

var _ ports.QuoteProvider = (*CachedProvider)(nil)

// CachedProvider decora un QuoteProvider con caché de vida corta y coalescencia de llamadas
// concurrentes por clave. Solo se cachean respuestas exitosas: el contrato de éxito/fallo
// visto por el llamador no cambia.
type CachedProvider struct {
	next  ports.QuoteProvider
	store Store
	ttl   time.Duration
	group singleflight.Group
	log   *logger.Logger
}

// NewCachedProvider construye el decorador. ttl <= 0 desactiva la caché (solo coalescencia).
func NewCachedProvider(next ports.QuoteProvider, store Store, ttl time.Duration, log *logger.Logger) *CachedProvider {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedProvider{next: next, store: store, ttl: ttl, log: log.Component("quotecache")}
}

// CurrentPrice devuelve el precio cacheado o lo consulta al proveedor.
func (p *CachedProvider) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	key := "quote:price:" + symbol
	var cached decimal.Decimal
	if p.lookup(ctx, key, &cached) {
		return cached, nil
	}
	v, err := p.load(ctx, key, func(ctx context.Context) (interface{}, error) {
		return p.next.CurrentPrice(ctx, symbol)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

// RecentDaily devuelve las barras cacheadas o las consulta al proveedor.
func (p *CachedProvider) RecentDaily(ctx context.Context, symbol string, days int) ([]entity.DailyBar, error) {
	key := fmt.Sprintf("quote:daily:%s:%d", symbol, days)
	var cached []entity.DailyBar
	if p.lookup(ctx, key, &cached) {
		return cached, nil
	}
	v, err := p.load(ctx, key, func(ctx context.Context) (interface{}, error) {
		return p.next.RecentDaily(ctx, symbol, days)
	})
	if err != nil {
		return nil, err
	}
	return v.([]entity.DailyBar), nil
}

func (p *CachedProvider) lookup(ctx context.Context, key string, dst interface{}) bool {
	if p.ttl <= 0 || p.store == nil {
		return false
	}
	ok, err := p.store.Get(ctx, key, dst)
	if err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
		return false
	}
	return ok
}

// load comparte una sola llamada al proveedor entre los llamadores concurrentes de la misma clave.
// La llamada compartida corre con un contexto propio (el del request puede reciclarse al
// terminar); cada llamador espera hasta su propio ctx.Done(). El plazo lo pone el cliente HTTP.
func (p *CachedProvider) load(ctx context.Context, key string, fetch func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	ch := p.group.DoChan(key, func() (interface{}, error) {
		detached := context.Background()
		v, err := fetch(detached)
		if err != nil {
			return nil, err
		}
		if p.ttl > 0 && p.store != nil {
			if err := p.store.Set(detached, key, v, p.ttl); err != nil {
				p.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
			}
		}
		return v, nil
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, ctx.Err())
	}
}
