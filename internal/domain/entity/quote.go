package entity

import "github.com/shopspring/decimal"

// DailyBar barra diaria OHLCV del proveedor de mercado.
type DailyBar struct {
	Date   string // YYYY-MM-DD
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}
