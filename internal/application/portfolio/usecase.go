package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Portafolio-api/internal/application/ports"
	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
	rules "github.com/jhoicas/Portafolio-api/internal/domain/portfolio"
	"github.com/jhoicas/Portafolio-api/internal/domain/repository"
	"github.com/jhoicas/Portafolio-api/pkg/logger"
)

// Config límites de concurrencia y plazo para la valoración.
type Config struct {
	MaxConcurrency   int           // llamadas simultáneas al proveedor por valoración
	ValuationTimeout time.Duration // plazo total; 0 = solo el del contexto del request
}

// PortfolioUseCase aplica operaciones ADD/REMOVE sobre las tenencias y valora el portafolio.
// Es el único escritor de tenencias.
type PortfolioUseCase struct {
	txRunner TxRunner
	holdings repository.HoldingRepository
	quotes   ports.QuoteProvider
	log      *logger.Logger
	cfg      Config
}

// NewPortfolioUseCase construye el caso de uso.
func NewPortfolioUseCase(
	txRunner TxRunner,
	holdings repository.HoldingRepository,
	quotes ports.QuoteProvider,
	log *logger.Logger,
	cfg Config,
) *PortfolioUseCase {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PortfolioUseCase{
		txRunner: txRunner,
		holdings: holdings,
		quotes:   quotes,
		log:      log.Component("portfolio"),
		cfg:      cfg,
	}
}

// ApplyOperationInput entrada de ApplyOperation. Operation admite mayúsculas o minúsculas.
type ApplyOperationInput struct {
	UserID    string
	Symbol    string
	Quantity  int64
	Operation string
}

// ApplyOperation valida la operación, verifica el símbolo contra el proveedor, aplica el cambio
// dentro de una transacción con bloqueo por (usuario, símbolo) y devuelve la valoración actualizada.
// Ningún camino de error deja escrituras en el store.
func (uc *PortfolioUseCase) ApplyOperation(ctx context.Context, in ApplyOperationInput) (*entity.Valuation, error) {
	if in.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	op, ok := entity.ParseOperation(in.Operation)
	if !ok {
		return nil, domain.ErrInvalidOperation
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	symbol := entity.NormalizeSymbol(in.Symbol)
	if symbol == "" {
		return nil, domain.ErrInvalidSymbol
	}

	// El proveedor es la única verificación de existencia del símbolo.
	if _, err := uc.quotes.CurrentPrice(ctx, symbol); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		uc.log.Debug().Err(err).Str("symbol", symbol).Msg("símbolo sin cotización")
		return nil, domain.ErrInvalidSymbol
	}

	var newQty int64
	err := uc.txRunner.Run(ctx, func(holdings repository.HoldingRepository) error {
		current, err := holdings.GetForUpdate(ctx, in.UserID, symbol)
		if err != nil {
			return err
		}
		var held int64
		if current != nil {
			held = current.Quantity
		}
		newQty, err = rules.Apply(held, in.Quantity, op)
		if err != nil {
			return err
		}
		if newQty == 0 {
			return holdings.Delete(ctx, in.UserID, symbol)
		}
		return holdings.Upsert(ctx, &entity.Holding{
			UserID:    in.UserID,
			Symbol:    symbol,
			Quantity:  newQty,
			UpdatedAt: time.Now(),
		})
	})
	if err != nil {
		if domain.IsValidation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("aplicar operación %s %s: %w", op, symbol, err)
	}

	uc.log.Info().
		Str("user_id", in.UserID).
		Str("symbol", symbol).
		Str("operation", string(op)).
		Int64("quantity", in.Quantity).
		Int64("new_quantity", newQty).
		Msg("tenencia actualizada")

	return uc.ComputeValuation(ctx, in.UserID)
}

// ComputeValuation lee las tenencias del usuario y las valora con precios actuales.
// Un precio no disponible no falla la respuesta: la posición queda con valor nil y fuera del total.
// Los errores de almacenamiento sí se propagan.
func (uc *PortfolioUseCase) ComputeValuation(ctx context.Context, userID string) (*entity.Valuation, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	holdings, err := uc.holdings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listar tenencias: %w", err)
	}
	prices := uc.fetchPrices(ctx, userID, holdings)
	v := rules.Valuate(holdings, prices)
	return &v, nil
}

// fetchPrices consulta el proveedor por símbolo en paralelo (acotado por MaxConcurrency).
// El orden de las llamadas no está garantizado.
func (uc *PortfolioUseCase) fetchPrices(ctx context.Context, userID string, holdings []*entity.Holding) map[string]decimal.Decimal {
	if len(holdings) == 0 {
		return nil
	}
	if uc.cfg.ValuationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.ValuationTimeout)
		defer cancel()
	}

	results := make([]*decimal.Decimal, len(holdings))
	var g errgroup.Group
	g.SetLimit(uc.cfg.MaxConcurrency)
	for i, h := range holdings {
		g.Go(func() error {
			price, err := uc.quotes.CurrentPrice(ctx, h.Symbol)
			if err != nil {
				ev := uc.log.Warn()
				if !errors.Is(err, domain.ErrQuoteUnavailable) {
					ev = uc.log.Error()
				}
				ev.Err(err).Str("user_id", userID).Str("symbol", h.Symbol).
					Msg("precio no disponible; posición excluida del total")
				return nil
			}
			results[i] = &price
			return nil
		})
	}
	_ = g.Wait()

	prices := make(map[string]decimal.Decimal, len(holdings))
	for i, h := range holdings {
		if results[i] != nil {
			prices[h.Symbol] = *results[i]
		}
	}
	return prices
}
