package market

import (
	"context"
	"time"

	"github.com/jhoicas/Portafolio-api/internal/application/ports"
	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
	"github.com/jhoicas/Portafolio-api/pkg/logger"
)

// DefaultDays barras diarias devueltas por /stockinfo.
const DefaultDays = 5

// StockInfoUseCase consulta la serie diaria reciente de un símbolo. No requiere sesión.
type StockInfoUseCase struct {
	quotes  ports.QuoteProvider
	timeout time.Duration
	log     *logger.Logger
}

// NewStockInfoUseCase construye el caso de uso. timeout <= 0 deja solo el plazo del request.
func NewStockInfoUseCase(quotes ports.QuoteProvider, timeout time.Duration, log *logger.Logger) *StockInfoUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StockInfoUseCase{quotes: quotes, timeout: timeout, log: log.Component("market")}
}

// RecentDaily devuelve las últimas DefaultDays barras, más reciente primero.
// Serie vacía no es error; proveedor caído devuelve domain.ErrQuoteUnavailable.
func (uc *StockInfoUseCase) RecentDaily(ctx context.Context, symbol string) ([]entity.DailyBar, error) {
	symbol = entity.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, domain.ErrInvalidSymbol
	}
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}
	bars, err := uc.quotes.RecentDaily(ctx, symbol, DefaultDays)
	if err != nil {
		uc.log.Warn().Err(err).Str("symbol", symbol).Msg("serie diaria no disponible")
		return nil, err
	}
	if bars == nil {
		bars = []entity.DailyBar{}
	}
	return bars, nil
}
