// migrate aplica, revierte o lista las migraciones de la base de datos.
//
// Uso: go run ./cmd/migrate [up|down|status]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Portafolio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Portafolio-api/pkg/config"
	"github.com/jhoicas/Portafolio-api/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	switch cmd {
	case "up":
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("up")
		}
		log.Info().Int("applied", applied).Msg("migraciones aplicadas")
	case "down":
		if err := postgres.MigrateDown(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("down")
		}
		log.Info().Msg("última migración revertida")
	case "status":
		status, err := postgres.MigrationStatus(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("status")
		}
		for _, s := range status {
			log.Info().Int64("version", s.Source.Version).Str("state", string(s.State)).Msg(s.Source.Path)
		}
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q: use up, down o status\n", cmd)
		os.Exit(2)
	}
}
