package entity

import "github.com/shopspring/decimal"

// PositionValue valor de una tenencia. Value es nil si el precio no pudo resolverse.
type PositionValue struct {
	Symbol   string
	Quantity int64
	Value    *decimal.Decimal
}

// Valuation valoración derivada del portafolio; solo existe como respuesta.
// TotalValue suma únicamente las posiciones con precio resuelto.
type Valuation struct {
	TotalValue decimal.Decimal
	Positions  []PositionValue
}
