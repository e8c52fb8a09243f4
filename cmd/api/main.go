package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Portafolio-api/internal/application/auth"
	"github.com/jhoicas/Portafolio-api/internal/application/market"
	"github.com/jhoicas/Portafolio-api/internal/application/portfolio"
	"github.com/jhoicas/Portafolio-api/internal/application/ports"
	"github.com/jhoicas/Portafolio-api/internal/domain/repository"
	"github.com/jhoicas/Portafolio-api/internal/infrastructure/alphavantage"
	"github.com/jhoicas/Portafolio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Portafolio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Portafolio-api/internal/infrastructure/quotecache"
	infraredis "github.com/jhoicas/Portafolio-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Portafolio-api/internal/interfaces/http"
	"github.com/jhoicas/Portafolio-api/pkg/config"
	"github.com/jhoicas/Portafolio-api/pkg/logger"
)

// storage repos y runner del backend elegido por STORAGE_DRIVER.
type storage struct {
	users    repository.UserRepository
	holdings repository.HoldingRepository
	txRunner portfolio.TxRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store := openStorage(ctx, cfg, log)
	defer store.close()

	// Redis opcional: caché de cotizaciones compartida y revocación de sesiones entre instancias.
	var (
		quoteStore quotecache.Store   = quotecache.NewMemoryStore()
		sessions   ports.SessionStore = memory.NewSessionStore()
	)
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		quoteStore = infraredis.NewQuoteStore(rdb)
		sessions = infraredis.NewSessionStore(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis habilitado")
	}

	if cfg.Quotes.APIKey == "" {
		log.Warn().Msg("ALPHAVANTAGE_API_KEY vacío; el proveedor rechazará las consultas")
	}
	avClient := alphavantage.NewClient(alphavantage.Config{
		BaseURL:    cfg.Quotes.BaseURL,
		APIKey:     cfg.Quotes.APIKey,
		Timeout:    cfg.Quotes.Timeout,
		MaxRetries: cfg.Quotes.MaxRetries,
	})
	quotes := quotecache.NewCachedProvider(avClient, quoteStore, cfg.Quotes.CacheTTL, log)

	authUC := auth.NewAuthUseCase(store.users, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	portfolioUC := portfolio.NewPortfolioUseCase(store.txRunner, store.holdings, quotes, log, portfolio.Config{
		MaxConcurrency:   cfg.Quotes.MaxConcurrency,
		ValuationTimeout: cfg.Quotes.ValuationTimeout,
	})
	stockInfoUC := market.NewStockInfoUseCase(quotes, cfg.Quotes.ValuationTimeout, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Quotes.ValuationTimeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("access")))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.DocsPath != "" {
		if _, err := os.Stat(cfg.HTTP.DocsPath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.DocsPath,
				Path:     "docs",
				Title:    "Portafolio API",
			}))
		} else {
			log.Warn().Str("path", cfg.HTTP.DocsPath).Msg("swagger.json no encontrado; /docs deshabilitado")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		PortfolioUC: portfolioUC,
		StockInfoUC: stockInfoUC,
		Cookie:      httpRouter.CookieConfig{Secure: cfg.HTTP.CookieSecure},
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage {
	if cfg.Storage.Driver == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		holdings := memory.NewHoldingStore()
		return storage{
			users:    memory.NewUserRepository(),
			holdings: holdings,
			txRunner: holdings,
			close:    func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Int("applied", applied).Msg("migraciones al día")
	}
	return storage{
		users:    postgres.NewUserRepository(pool),
		holdings: postgres.NewHoldingRepository(pool),
		txRunner: postgres.NewTxRunner(pool),
		close:    pool.Close,
	}
}
