package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
)

// QuoteProvider define el puerto de salida hacia el proveedor de datos de mercado.
// Cualquier adaptador (Alpha Vantage, caché, mock) debe implementar esta interfaz.
// Todo fallo (red, HTTP no-200, payload vacío o malformado) se reporta como
// domain.ErrQuoteUnavailable; el llamador no distingue entre ellos.
type QuoteProvider interface {
	// CurrentPrice devuelve el precio spot del símbolo.
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	// RecentDaily devuelve hasta days barras diarias, la más reciente primero.
	// Lista vacía si el proveedor no tiene serie para el símbolo.
	RecentDaily(ctx context.Context, symbol string, days int) ([]entity.DailyBar, error)
}
