package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Portafolio-api/internal/application/dto"
	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		err  bool
	}{
		{`{"quantity": 10}`, 10, false},
		{`{"quantity": "7"}`, 7, false},
		{`{"quantity": 2.5}`, 0, true},
		{`{"quantity": 0}`, 0, true},
		{`{"quantity": -3}`, 0, true},
		{`{}`, 0, true},
	}
	for _, tc := range cases {
		var req dto.ModifyPortfolioRequest
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &req), tc.raw)
		got, err := req.ParseQuantity()
		if tc.err {
			assert.ErrorIs(t, err, domain.ErrInvalidQuantity, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestToValuationResponse_ValorNuloYDosDecimales(t *testing.T) {
	v := decimal.NewFromInt(1500)
	out := dto.ToValuationResponse(&entity.Valuation{
		TotalValue: decimal.NewFromInt(1500),
		Positions: []entity.PositionValue{
			{Symbol: "AAPL", Quantity: 10, Value: &v},
			{Symbol: "ZZZZ", Quantity: 1},
		},
	})
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, `[{"total_value":1500.00},{"AAPL":{"quantity":10,"value":1500.00}},{"ZZZZ":{"quantity":1,"value":null}}]`, string(raw))
}

func TestToValuationResponse_PortafolioVacio(t *testing.T) {
	raw, err := json.Marshal(dto.ToValuationResponse(&entity.Valuation{}))
	require.NoError(t, err)
	assert.Equal(t, `[{"total_value":0.00}]`, string(raw))
}

func TestToValuationResponse_Nil(t *testing.T) {
	raw, err := json.Marshal(dto.ToValuationResponse(nil))
	require.NoError(t, err)
	assert.Equal(t, `[{"total_value":0.00}]`, string(raw))
}

func TestDailyBarEntry_FormatoDelProveedor(t *testing.T) {
	entries := dto.ToDailyBarEntries([]entity.DailyBar{{
		Date:   "2024-03-05",
		Open:   decimal.RequireFromString("191.9"),
		High:   decimal.RequireFromString("193.456"),
		Low:    decimal.RequireFromString("190"),
		Close:  decimal.RequireFromString("192.1"),
		Volume: 4567890,
	}})
	raw, err := json.Marshal(entries)
	require.NoError(t, err)
	assert.JSONEq(t, `[["2024-03-05",{"1. open":191.90,"2. high":193.46,"3. low":190.00,"4. close":192.10,"5. volume":4567890}]]`, string(raw))
}
