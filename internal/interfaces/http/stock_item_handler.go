package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
	"github.com/jhoicas/bakery-stock-api/pkg/logger"
)

// StockItemHandler consultas y mantenimiento de StockItems (protegido).
type StockItemHandler struct {
	query  *stock.QueryUseCase
	ledger *stock.LedgerUseCase
	pdf    stock.KardexPDFGenerator
	log    *logger.Logger
}

// NewStockItemHandler construye el handler.
func NewStockItemHandler(query *stock.QueryUseCase, ledger *stock.LedgerUseCase, pdf stock.KardexPDFGenerator, log *logger.Logger) *StockItemHandler {
	return &StockItemHandler{query: query, ledger: ledger, pdf: pdf, log: log}
}

// List godoc
// @Summary      Listar existencias
// @Description  Vista consolidada con estado, vencimiento e indicadores de consumo.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location_id     query  string  false  "Ubicación (UUID)"
// @Param        supply_item_id  query  string  false  "Insumo (UUID)"
// @Param        expiration      query  string  false  "expired | expiring_7 | expiring_30 | valid | nodate"
// @Param        low_stock       query  bool    false  "Solo stock bajo"
// @Param        status          query  string  false  "EXPIRED | EXPIRING | OUT_OF_STOCK | LOW | OK"
// @Param        idle_days       query  int     false  "Sin movimiento hace 15, 30 o 60 días"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockItemListResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock/items [get]
func (h *StockItemHandler) List(c *fiber.Ctx) error {
	var q dto.StockItemListQuery
	if ok, err := parseQuery(c, h.log, &q); !ok {
		return err
	}
	out, err := h.query.ListItems(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Alta manual de StockItem
// @Description  Con cantidad positiva registra la entrada (INBOUND) correspondiente.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockItemRequest  true  "Ubicación, insumo o lote y cantidad inicial"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/items [post]
func (h *StockItemHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateStockItemRequest
	if ok, err := parseBody(c, h.log, &in); !ok {
		return err
	}
	item, err := h.ledger.CreateManualItem(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.query.ItemOverview(c.UserContext(), item.ID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Ficha de un StockItem
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del StockItem"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [get]
func (h *StockItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.ItemOverview(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// KardexPDF godoc
// @Summary      Kardex en PDF
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del StockItem"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id}/kardex.pdf [get]
func (h *StockItemHandler) KardexPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	k, err := h.query.Kardex(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	doc, err := h.pdf.GenerateKardexPDF(c.UserContext(), k)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="kardex-%s.pdf"`, id))
	return c.Send(doc)
}

// Recalculate godoc
// @Summary      Recalcular saldo desde el libro
// @Description  Saldo = Σ entradas − Σ salidas. Los ajustes no se suman. Idempotente.
// @Description  Los items creados por entrada forzada sin movimiento previo nacen con un ajuste,
// @Description  que no se suma: siempre aparecen con diferencia y recalcularlos puede dejar saldo negativo.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del StockItem"
// @Success      200  {object}  dto.RecalculateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id}/recalculate [post]
func (h *StockItemHandler) Recalculate(c *fiber.Ctx) error {
	out, err := h.ledger.Recalculate(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RecalculateMany godoc
// @Summary      Recalcular varios StockItems
// @Description  Cada item en su propia transacción; los que fallan se omiten.
// @Description  Los items creados por entrada forzada sin movimiento previo nacen con un ajuste,
// @Description  que no se suma: siempre aparecen con diferencia y recalcularlos puede dejar saldo negativo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkIDsRequest  true  "IDs de StockItems"
// @Success      200   {object}  dto.BulkResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/items/recalculate [post]
func (h *StockItemHandler) RecalculateMany(c *fiber.Ctx) error {
	var in dto.BulkIDsRequest
	if ok, err := parseBody(c, h.log, &in); !ok {
		return err
	}
	n := h.ledger.RecalculateMany(c.UserContext(), in.IDs)
	return c.JSON(dto.BulkResponse{Requested: len(in.IDs), Processed: n})
}

// Reconciliation godoc
// @Summary      Informe de conciliación
// @Description  StockItems cuyo saldo guardado difiere del agregado del libro. Solo lectura.
// @Description  Los items creados por entrada forzada sin movimiento previo nacen con un ajuste,
// @Description  que no se suma: siempre aparecen con diferencia y recalcularlos puede dejar saldo negativo.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DriftReportResponse
// @Router       /api/stock/reconciliation [get]
func (h *StockItemHandler) Reconciliation(c *fiber.Ctx) error {
	out, err := h.query.DriftReport(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
