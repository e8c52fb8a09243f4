package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/Portafolio-api/internal/application/dto"
	"github.com/jhoicas/Portafolio-api/internal/application/market"
	"github.com/jhoicas/Portafolio-api/pkg/logger"
)

// StockHandler información de mercado (público).
type StockHandler struct {
	uc  *market.StockInfoUseCase
	log *logger.Logger
}

func NewStockHandler(uc *market.StockInfoUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// StockInfo godoc
// @Summary      Últimos 5 días de un símbolo
// @Description  Arreglo de pares [fecha, {"1. open", "2. high", "3. low", "4. close", "5. volume"}], más reciente primero.
// @Tags         market
// @Produce      json
// @Param        symbol  path  string  true  "ticker, ej. IBM"
// @Success      200  {array}   dto.DailyBarEntry
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /stockinfo/{symbol} [get]
func (h *StockHandler) StockInfo(c *fiber.Ctx) error {
	// Params apunta al buffer de fasthttp; la consulta compartida del caché puede sobrevivir al request.
	symbol := utils.CopyString(c.Params("symbol"))
	bars, err := h.uc.RecentDaily(c.Context(), symbol)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToDailyBarEntries(bars))
}
