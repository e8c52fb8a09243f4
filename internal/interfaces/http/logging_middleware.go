package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Portafolio-api/pkg/logger"
)

// RequestLogger registra método, ruta, estado, duración y usuario (si hubo sesión) de cada request.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// el ErrorHandler de Fiber aún no corrió; fiber.Error trae el código real.
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Str("username", GetUsername(c)).
			Msg("request")
		return err
	}
}
