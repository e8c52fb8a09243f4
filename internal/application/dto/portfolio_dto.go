package dto

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
)

// ModifyPortfolioRequest entrada de /modifyPortfolio/. Quantity llega como número JSON y debe ser entero.
type ModifyPortfolioRequest struct {
	StockSymbol string      `json:"stock_symbol" validate:"required"`
	Quantity    json.Number `json:"quantity" validate:"required"`
	Operation   string      `json:"operation" validate:"required,oneof=ADD REMOVE add remove"`
}

// ParseQuantity devuelve la cantidad como entero positivo; 2.5, "abc" o 0 son ErrInvalidQuantity.
func (r ModifyPortfolioRequest) ParseQuantity() (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(r.Quantity.String()), 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	return n, nil
}

// PositionResponse una tenencia valorada. Value es null si no hubo precio.
type PositionResponse struct {
	Symbol   string       `json:"-"`
	Quantity int64        `json:"quantity"`
	Value    *json.Number `json:"value"`
}

// ValuationResponse salida de /overview y /modifyPortfolio/. Montos numéricos con 2 decimales.
type ValuationResponse struct {
	TotalValue json.Number
	Holdings   []PositionResponse
}

// MarshalJSON emite [{"total_value": 1500.00}, {"AAPL": {"quantity": 10, "value": 1500.00}}, ...]
// en el orden de lectura del almacén.
func (v ValuationResponse) MarshalJSON() ([]byte, error) {
	out := make([]interface{}, 0, len(v.Holdings)+1)
	out = append(out, map[string]json.Number{"total_value": v.TotalValue})
	for _, h := range v.Holdings {
		out = append(out, map[string]PositionResponse{h.Symbol: h})
	}
	return json.Marshal(out)
}

// ToValuationResponse mapea la valoración de dominio al DTO.
func ToValuationResponse(v *entity.Valuation) ValuationResponse {
	out := ValuationResponse{TotalValue: json.Number("0.00"), Holdings: make([]PositionResponse, 0)}
	if v == nil {
		return out
	}
	out.TotalValue = json.Number(v.TotalValue.StringFixed(2))
	for _, p := range v.Positions {
		pr := PositionResponse{Symbol: p.Symbol, Quantity: p.Quantity}
		if p.Value != nil {
			n := json.Number(p.Value.StringFixed(2))
			pr.Value = &n
		}
		out.Holdings = append(out.Holdings, pr)
	}
	return out
}
