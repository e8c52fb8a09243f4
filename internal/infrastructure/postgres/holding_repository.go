package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
	"github.com/jhoicas/Portafolio-api/internal/domain/repository"
)

var _ repository.HoldingRepository = (*HoldingRepo)(nil)

// HoldingRepo implementación de HoldingRepository sobre la tabla user_stocks (usable con pool o tx).
type HoldingRepo struct {
	q Querier
}

// NewHoldingRepository construye el adaptador de tenencias. Pasar pool o tx (Querier).
func NewHoldingRepository(q Querier) *HoldingRepo {
	return &HoldingRepo{q: q}
}

const holdingColumns = `user_id, symbol, quantity, updated_at`

// Get obtiene la tenencia; nil si el usuario no posee el símbolo.
func (r *HoldingRepo) Get(ctx context.Context, userID, symbol string) (*entity.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM user_stocks WHERE user_id = $1 AND symbol = $2`
	h, err := scanHolding(r.q.QueryRow(ctx, query, userID, symbol))
	if err != nil {
		return nil, fmt.Errorf("get holding: %w", err)
	}
	return h, nil
}

// GetForUpdate toma un advisory lock transaccional sobre (user, symbol) y luego bloquea la fila
// (SELECT FOR UPDATE). El advisory lock cubre el caso en que la fila aún no existe: dos ADD
// concurrentes sobre un símbolo nuevo se serializan en vez de chocar en el INSERT.
// Solo tiene sentido dentro de TxRunner.Run.
func (r *HoldingRepo) GetForUpdate(ctx context.Context, userID, symbol string) (*entity.Holding, error) {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`, userID, symbol); err != nil {
		return nil, fmt.Errorf("lock holding: %w", err)
	}
	query := `SELECT ` + holdingColumns + ` FROM user_stocks WHERE user_id = $1 AND symbol = $2 FOR UPDATE`
	h, err := scanHolding(r.q.QueryRow(ctx, query, userID, symbol))
	if err != nil {
		return nil, fmt.Errorf("get holding for update: %w", err)
	}
	return h, nil
}

// Upsert inserta o actualiza la cantidad. created_at se conserva en updates y define el orden de listado.
func (r *HoldingRepo) Upsert(ctx context.Context, h *entity.Holding) error {
	query := `
		INSERT INTO user_stocks (user_id, symbol, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (user_id, symbol)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, h.UserID, h.Symbol, h.Quantity); err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidQuantity
		}
		return fmt.Errorf("upsert holding: %w", err)
	}
	return nil
}

// Delete elimina la tenencia; no falla si no existe.
func (r *HoldingRepo) Delete(ctx context.Context, userID, symbol string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_stocks WHERE user_id = $1 AND symbol = $2`, userID, symbol); err != nil {
		return fmt.Errorf("delete holding: %w", err)
	}
	return nil
}

// ListByUser lista las tenencias del usuario en orden de alta.
func (r *HoldingRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM user_stocks WHERE user_id = $1 ORDER BY created_at, symbol`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Holding
	for rows.Next() {
		var h entity.Holding
		if err := rows.Scan(&h.UserID, &h.Symbol, &h.Quantity, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}

func scanHolding(row pgx.Row) (*entity.Holding, error) {
	var h entity.Holding
	if err := row.Scan(&h.UserID, &h.Symbol, &h.Quantity, &h.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}
