// seed_holdings carga tenencias iniciales desde un CSV con columnas username,symbol,quantity
// (exportes de hojas de cálculo, típicamente Latin-1).
//
// Cada fila agregada se aplica como un ADD del portafolio: el símbolo se valida contra el proveedor
// de cotizaciones y la cantidad se suma a la tenencia existente bajo el bloqueo por (usuario, símbolo).
// Usa la misma configuración que la API (DB_*, ALPHAVANTAGE_*).
//
// Uso: go run ./cmd/seed_holdings [-latin1] holdings.csv
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Portafolio-api/internal/application/portfolio"
	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
	"github.com/jhoicas/Portafolio-api/internal/domain/repository"
	"github.com/jhoicas/Portafolio-api/internal/infrastructure/alphavantage"
	"github.com/jhoicas/Portafolio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Portafolio-api/internal/infrastructure/quotecache"
	"github.com/jhoicas/Portafolio-api/pkg/config"
	"github.com/jhoicas/Portafolio-api/pkg/logger"
)

type seedRow struct {
	username string
	symbol   string
	quantity int64
}

// holdingApplier es el único camino de escritura de tenencias.
type holdingApplier interface {
	ApplyOperation(ctx context.Context, in portfolio.ApplyOperationInput) (*entity.Valuation, error)
}

type seedResult struct {
	applied      int
	unknownUsers int
	rejected     int // símbolo sin cotización o cantidad inválida
}

func main() {
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_holdings [-latin1] holdings.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	var in io.Reader = f
	if *latin1 {
		in = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	rows, skipped, err := parseHoldings(in)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	avClient := alphavantage.NewClient(alphavantage.Config{
		BaseURL:    cfg.Quotes.BaseURL,
		APIKey:     cfg.Quotes.APIKey,
		Timeout:    cfg.Quotes.Timeout,
		MaxRetries: cfg.Quotes.MaxRetries,
	})
	quotes := quotecache.NewCachedProvider(avClient, quotecache.NewMemoryStore(), cfg.Quotes.CacheTTL, log)
	engine := portfolio.NewPortfolioUseCase(
		postgres.NewTxRunner(pool), postgres.NewHoldingRepository(pool), quotes, log,
		portfolio.Config{MaxConcurrency: cfg.Quotes.MaxConcurrency, ValuationTimeout: cfg.Quotes.ValuationTimeout},
	)

	res, err := seedHoldings(ctx, postgres.NewUserRepository(pool), engine, rows, log)
	if err != nil {
		pool.Close()
		log.Fatal().Err(err).Int("applied", res.applied).Msg("carga interrumpida")
	}
	log.Info().
		Int("applied", res.applied).
		Int("unknown_users", res.unknownUsers).
		Int("rejected", res.rejected).
		Int("skipped_rows", skipped).
		Msg("tenencias cargadas")
}

// seedHoldings aplica cada fila como ADD. Usuarios inexistentes y filas rechazadas por validación
// se registran y se omiten; cualquier otro error detiene la carga.
func seedHoldings(ctx context.Context, users repository.UserRepository, engine holdingApplier, rows []seedRow, log *logger.Logger) (seedResult, error) {
	var res seedResult
	for _, r := range rows {
		u, err := users.GetByUsername(ctx, r.username)
		if err != nil {
			return res, fmt.Errorf("buscar usuario %s: %w", r.username, err)
		}
		if u == nil {
			res.unknownUsers++
			log.Warn().Str("username", r.username).Msg("usuario inexistente, fila omitida")
			continue
		}
		_, err = engine.ApplyOperation(ctx, portfolio.ApplyOperationInput{
			UserID:    u.ID,
			Symbol:    r.symbol,
			Quantity:  r.quantity,
			Operation: string(entity.OperationAdd),
		})
		if domain.IsValidation(err) {
			res.rejected++
			log.Warn().Err(err).Str("username", r.username).Str("symbol", r.symbol).Msg("fila rechazada")
			continue
		}
		if err != nil {
			return res, fmt.Errorf("aplicar %s/%s: %w", r.username, r.symbol, err)
		}
		res.applied++
	}
	return res, nil
}

// parseHoldings agrega cantidades por (username, symbol). Ignora encabezado, filas vacías y
// cantidades no enteras o <= 0.
func parseHoldings(r io.Reader) ([]seedRow, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	totals := make(map[[2]string]int64)
	skipped := 0
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		if first {
			first = false
			if len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "username") {
				continue
			}
		}
		if len(rec) < 3 {
			skipped++
			continue
		}
		username := strings.TrimSpace(rec[0])
		symbol := entity.NormalizeSymbol(rec[1])
		qty, err := strconv.ParseInt(strings.TrimSpace(rec[2]), 10, 64)
		if username == "" || symbol == "" || err != nil || qty <= 0 {
			skipped++
			continue
		}
		totals[[2]string{username, symbol}] += qty
	}

	rows := make([]seedRow, 0, len(totals))
	for k, q := range totals {
		rows = append(rows, seedRow{username: k[0], symbol: k[1], quantity: q})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].username != rows[j].username {
			return rows[i].username < rows[j].username
		}
		return rows[i].symbol < rows[j].symbol
	})
	return rows, skipped, nil
}
