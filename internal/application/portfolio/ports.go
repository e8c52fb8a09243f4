package portfolio

import (
	"context"

	"github.com/jhoicas/Portafolio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando el repositorio de tenencias atado a esa tx.
// Si fn devuelve error se hace Rollback y el store queda sin cambios.
type TxRunner interface {
	Run(ctx context.Context, fn func(holdings repository.HoldingRepository) error) error
}
