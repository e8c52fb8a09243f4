package entity

import (
	"strings"
	"time"
)

// Holding representa la cantidad de acciones de un símbolo que posee un usuario.
// Invariante: Quantity > 0; una tenencia en cero se elimina, nunca se persiste.
type Holding struct {
	UserID    string
	Symbol    string
	Quantity  int64
	UpdatedAt time.Time
}

// NormalizeSymbol limpia espacios y pasa a mayúsculas (AAPL, no " aapl").
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
