package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
)

// Apply calcula la nueva cantidad de una tenencia (servicio de dominio).
// held es la cantidad actual (0 si no existe la fila); quantity debe ser > 0.
//
//	ADD:    held + quantity
//	REMOVE: held - quantity, error si held < quantity o no hay tenencia
func Apply(held, quantity int64, op entity.Operation) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	if held < 0 {
		return 0, domain.ErrInvalidInput
	}
	switch op {
	case entity.OperationAdd:
		return held + quantity, nil
	case entity.OperationRemove:
		if held == 0 || held < quantity {
			return 0, domain.ErrInsufficientHoldings
		}
		return held - quantity, nil
	}
	return 0, domain.ErrInvalidOperation
}

// Valuate combina tenencias con precios. prices sin entrada para un símbolo = precio no disponible:
// la posición se lista con Value nil y no suma al total.
// value = round(quantity * price, 2); total = round(sum(values), 2). Conserva el orden de holdings.
func Valuate(holdings []*entity.Holding, prices map[string]decimal.Decimal) entity.Valuation {
	total := decimal.Zero
	positions := make([]entity.PositionValue, 0, len(holdings))
	for _, h := range holdings {
		pos := entity.PositionValue{Symbol: h.Symbol, Quantity: h.Quantity}
		if price, ok := prices[h.Symbol]; ok {
			v := decimal.NewFromInt(h.Quantity).Mul(price).Round(2)
			pos.Value = &v
			total = total.Add(v)
		}
		positions = append(positions, pos)
	}
	return entity.Valuation{TotalValue: total.Round(2), Positions: positions}
}
