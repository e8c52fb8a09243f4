package dto

import (
	"encoding/json"

	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
)

// DailyBarValues OHLCV con las claves del proveedor de mercado.
type DailyBarValues struct {
	Open   json.Number `json:"1. open"`
	High   json.Number `json:"2. high"`
	Low    json.Number `json:"3. low"`
	Close  json.Number `json:"4. close"`
	Volume int64       `json:"5. volume"`
}

// DailyBarEntry se serializa como par [fecha, {valores}].
type DailyBarEntry struct {
	Date   string
	Values DailyBarValues
}

// MarshalJSON emite ["2024-03-05", {"1. open": 191.9, ...}].
func (e DailyBarEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{e.Date, e.Values})
}

// ToDailyBarEntries mapea las barras de dominio, precios a 2 decimales.
func ToDailyBarEntries(bars []entity.DailyBar) []DailyBarEntry {
	out := make([]DailyBarEntry, 0, len(bars))
	for _, b := range bars {
		out = append(out, DailyBarEntry{
			Date: b.Date,
			Values: DailyBarValues{
				Open:   json.Number(b.Open.StringFixed(2)),
				High:   json.Number(b.High.StringFixed(2)),
				Low:    json.Number(b.Low.StringFixed(2)),
				Close:  json.Number(b.Close.StringFixed(2)),
				Volume: b.Volume,
			},
		})
	}
	return out
}
