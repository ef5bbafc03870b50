package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
	"github.com/jhoicas/bakery-stock-api/pkg/logger"
)

// ThresholdHandler umbrales de stock bajo por insumo (protegido).
type ThresholdHandler struct {
	uc  *stock.ThresholdUseCase
	log *logger.Logger
}

// NewThresholdHandler construye el handler.
func NewThresholdHandler(uc *stock.ThresholdUseCase, log *logger.Logger) *ThresholdHandler {
	return &ThresholdHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar umbrales
// @Tags         thresholds
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ThresholdResponse
// @Router       /api/stock/thresholds [get]
func (h *ThresholdHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Crear o actualizar umbral
// @Tags         thresholds
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        supply_item_id  path  string                      true  "ID del insumo"
// @Param        body            body  dto.UpsertThresholdRequest  true  "min_quantity y alert_enabled"
// @Success      200  {object}  dto.ThresholdResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock/thresholds/{supply_item_id} [put]
func (h *ThresholdHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertThresholdRequest
	if ok, err := parseBody(c, h.log, &in); !ok {
		return err
	}
	out, err := h.uc.Upsert(c.UserContext(), c.Params("supply_item_id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
