package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Portafolio-api/internal/application/auth"
	"github.com/jhoicas/Portafolio-api/internal/application/dto"
	"github.com/jhoicas/Portafolio-api/internal/application/market"
	"github.com/jhoicas/Portafolio-api/internal/application/portfolio"
	"github.com/jhoicas/Portafolio-api/pkg/logger"
)

// WelcomeMessage respuesta de la ruta raíz.
const WelcomeMessage = "Welcome to DebuggingDollars - Your Stock Tracking Application"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	PortfolioUC *portfolio.PortfolioUseCase
	StockInfoUC *market.StockInfoUseCase
	Cookie      CookieConfig
	Log         *logger.Logger
}

// Router registra las rutas de la API. Las rutas conservan los paths públicos del frontend existente.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(WelcomeMessage)
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok"})
	})

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie, log)
	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)
	app.Get("/logout", authHandler.Logout)

	// Mercado (público)
	stockHandler := NewStockHandler(deps.StockInfoUC, log)
	app.Get("/stockinfo/:symbol", stockHandler.StockInfo)

	// Portafolio (requiere sesión)
	requireSession := AuthMiddleware(deps.AuthUC, log)
	portfolioHandler := NewPortfolioHandler(deps.PortfolioUC, log)
	app.Get("/overview", requireSession, portfolioHandler.Overview)
	app.Post("/modifyPortfolio", requireSession, portfolioHandler.Modify)
}
