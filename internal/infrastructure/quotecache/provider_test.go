package quotecache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
	"github.com/jhoicas/Portafolio-api/internal/infrastructure/quotecache"
)

type countingProvider struct {
	calls int32
	price decimal.Decimal
	fail  atomic.Bool
	delay time.Duration
	bars  []entity.DailyBar
}

func (p *countingProvider) CurrentPrice(context.Context, string) (decimal.Decimal, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.fail.Load() {
		return decimal.Zero, domain.ErrQuoteUnavailable
	}
	return p.price, nil
}

func (p *countingProvider) RecentDaily(context.Context, string, int) ([]entity.DailyBar, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.fail.Load() {
		return nil, domain.ErrQuoteUnavailable
	}
	return p.bars, nil
}

func TestCachedProvider_SegundaLlamadaDesdeCache(t *testing.T) {
	next := &countingProvider{price: decimal.RequireFromString("150.25")}
	p := quotecache.NewCachedProvider(next, quotecache.NewMemoryStore(), time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		price, err := p.CurrentPrice(ctx, "AAPL")
		require.NoError(t, err)
		assert.True(t, price.Equal(next.price))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&next.calls))
}

func TestCachedProvider_NoCacheaFallos(t *testing.T) {
	next := &countingProvider{price: decimal.NewFromInt(10)}
	next.fail.Store(true)
	p := quotecache.NewCachedProvider(next, quotecache.NewMemoryStore(), time.Minute, nil)
	ctx := context.Background()

	_, err := p.CurrentPrice(ctx, "ZZZZ")
	assert.ErrorIs(t, err, domain.ErrQuoteUnavailable)

	next.fail.Store(false)
	price, err := p.CurrentPrice(ctx, "ZZZZ")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int32(2), atomic.LoadInt32(&next.calls))
}

func TestCachedProvider_CoalesceLlamadasConcurrentes(t *testing.T) {
	next := &countingProvider{price: decimal.NewFromInt(5), delay: 50 * time.Millisecond}
	p := quotecache.NewCachedProvider(next, quotecache.NewMemoryStore(), 0, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.CurrentPrice(context.Background(), "MSFT")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&next.calls))
}

func TestCachedProvider_RespetaCancelacionDelLlamador(t *testing.T) {
	next := &countingProvider{price: decimal.NewFromInt(5), delay: 200 * time.Millisecond}
	p := quotecache.NewCachedProvider(next, quotecache.NewMemoryStore(), time.Minute, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.CurrentPrice(ctx, "SLOW")
	assert.ErrorIs(t, err, domain.ErrQuoteUnavailable)
}

func TestCachedProvider_RecentDaily(t *testing.T) {
	next := &countingProvider{bars: []entity.DailyBar{
		{Date: "2024-03-05", Close: decimal.RequireFromString("191.90"), Volume: 10},
	}}
	p := quotecache.NewCachedProvider(next, quotecache.NewMemoryStore(), time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		bars, err := p.RecentDaily(ctx, "IBM", 5)
		require.NoError(t, err)
		require.Len(t, bars, 1)
		assert.Equal(t, "2024-03-05", bars[0].Date)
		assert.True(t, bars[0].Close.Equal(decimal.RequireFromString("191.9")))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&next.calls))
}
