package market_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Portafolio-api/internal/application/market"
	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
)

type stubQuotes struct {
	bars   []entity.DailyBar
	err    error
	symbol string
	days   int
}

func (s *stubQuotes) CurrentPrice(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, domain.ErrQuoteUnavailable
}

func (s *stubQuotes) RecentDaily(_ context.Context, symbol string, days int) ([]entity.DailyBar, error) {
	s.symbol, s.days = symbol, days
	return s.bars, s.err
}

func TestRecentDaily_NormalizaSimboloYPideCincoDias(t *testing.T) {
	q := &stubQuotes{bars: []entity.DailyBar{{Date: "2024-03-05"}}}
	uc := market.NewStockInfoUseCase(q, 0, nil)

	bars, err := uc.RecentDaily(context.Background(), " ibm ")
	require.NoError(t, err)
	assert.Len(t, bars, 1)
	assert.Equal(t, "IBM", q.symbol)
	assert.Equal(t, market.DefaultDays, q.days)
}

func TestRecentDaily_SerieVaciaNoEsError(t *testing.T) {
	uc := market.NewStockInfoUseCase(&stubQuotes{}, 0, nil)
	bars, err := uc.RecentDaily(context.Background(), "NEWCO")
	require.NoError(t, err)
	assert.NotNil(t, bars)
	assert.Empty(t, bars)
}

func TestRecentDaily_ProveedorCaido(t *testing.T) {
	uc := market.NewStockInfoUseCase(&stubQuotes{err: domain.ErrQuoteUnavailable}, 0, nil)
	_, err := uc.RecentDaily(context.Background(), "IBM")
	assert.ErrorIs(t, err, domain.ErrQuoteUnavailable)
}

func TestRecentDaily_SimboloVacio(t *testing.T) {
	uc := market.NewStockInfoUseCase(&stubQuotes{}, 0, nil)
	_, err := uc.RecentDaily(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidSymbol)
}
