package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrUsernameTaken        = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidSymbol        = errors.New("símbolo inválido")
	ErrInvalidQuantity      = errors.New("cantidad inválida")
	ErrInvalidOperation     = errors.New("operación inválida")
	ErrInsufficientHoldings = errors.New("tenencia insuficiente")
	// ErrQuoteUnavailable agrupa fallo de red, respuesta no-200 y payload vacío o malformado del proveedor.
	ErrQuoteUnavailable = errors.New("cotización no disponible")
)

// IsValidation indica si err es un error corregible por el usuario (HTTP 400).
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidSymbol) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrInsufficientHoldings)
}
