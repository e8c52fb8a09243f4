package repository

import (
	"context"

	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
)

// HoldingRepository define el puerto de persistencia de tenencias (user, symbol) -> quantity.
// Las escrituras se hacen dentro de una transacción (ver portfolio.TxRunner).
type HoldingRepository interface {
	// Get devuelve nil, nil si no existe la tenencia.
	Get(ctx context.Context, userID, symbol string) (*entity.Holding, error)
	// GetForUpdate bloquea (user, symbol) hasta el fin de la transacción, exista o no la fila.
	GetForUpdate(ctx context.Context, userID, symbol string) (*entity.Holding, error)
	Upsert(ctx context.Context, holding *entity.Holding) error
	Delete(ctx context.Context, userID, symbol string) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Holding, error)
}
