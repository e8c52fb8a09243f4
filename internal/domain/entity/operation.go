package entity

import "strings"

// Operation tipo de modificación sobre una tenencia.
type Operation string

// Operaciones válidas sobre el portafolio.
const (
	OperationAdd    Operation = "ADD"
	OperationRemove Operation = "REMOVE"
)

// ParseOperation acepta "add"/"ADD"/"Remove"... y devuelve false si no es ADD ni REMOVE.
func ParseOperation(s string) (Operation, bool) {
	op := Operation(strings.ToUpper(strings.TrimSpace(s)))
	switch op {
	case OperationAdd, OperationRemove:
		return op, true
	}
	return op, false
}
