package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Portafolio-api/internal/application/dto"
	"github.com/jhoicas/Portafolio-api/internal/application/portfolio"
	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/pkg/logger"
)

// PortfolioHandler maneja la consulta y modificación del portafolio (protegido).
type PortfolioHandler struct {
	uc  *portfolio.PortfolioUseCase
	log *logger.Logger
}

// NewPortfolioHandler construye el handler.
func NewPortfolioHandler(uc *portfolio.PortfolioUseCase, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{uc: uc, log: log}
}

// Overview godoc
// @Summary      Valoración del portafolio
// @Description  Lista las tenencias con su valor actual. value es null si no hubo precio para el símbolo.
// @Tags         portfolio
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ValuationResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /overview [get]
func (h *PortfolioHandler) Overview(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return writeError(c, h.log, domain.ErrUnauthorized)
	}
	v, err := h.uc.ComputeValuation(c.Context(), userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToValuationResponse(v))
}

// Modify godoc
// @Summary      Agregar o remover acciones
// @Tags         portfolio
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ModifyPortfolioRequest  true  "stock_symbol, quantity (entero > 0), operation ADD|REMOVE"
// @Success      200   {array}   dto.ValuationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /modifyPortfolio/ [post]
func (h *PortfolioHandler) Modify(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return writeError(c, h.log, domain.ErrUnauthorized)
	}
	var in dto.ModifyPortfolioRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	qty, err := in.ParseQuantity()
	if err != nil {
		return writeError(c, h.log, err)
	}
	v, err := h.uc.ApplyOperation(c.Context(), portfolio.ApplyOperationInput{
		UserID:    userID,
		Symbol:    in.StockSymbol,
		Quantity:  qty,
		Operation: in.Operation,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToValuationResponse(v))
}
