package http

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
	"github.com/jhoicas/bakery-stock-api/internal/infrastructure/export"
	"github.com/jhoicas/bakery-stock-api/pkg/logger"
)

// MovementHandler libro de movimientos: registro, edición, traslados e historial (protegido).
type MovementHandler struct {
	ledger *stock.LedgerUseCase
	log    *logger.Logger
	clock  stock.Clock
}

// NewMovementHandler construye el handler.
func NewMovementHandler(ledger *stock.LedgerUseCase, log *logger.Logger, clock stock.Clock) *MovementHandler {
	return &MovementHandler{ledger: ledger, log: log, clock: clock}
}

// Record godoc
// @Summary      Registrar movimiento
// @Description  Valida, toma la foto del saldo (antes/después) y actualiza el saldo en una sola transacción.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "stock_item_id, movement_type, quantity (> 0) y ubicaciones"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.RecordMovementRequest
	if ok, err := parseBody(c, h.log, &in); !ok {
		return err
	}
	out, err := h.ledger.RecordMovement(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer godoc
// @Summary      Trasladar existencias
// @Description  Escribe una salida TRANSFER en el origen y una entrada en el destino; crea el StockItem destino si no existe.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "stock_item_id, destination_location_id, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *MovementHandler) Transfer(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.TransferRequest
	if ok, err := parseBody(c, h.log, &in); !ok {
		return err
	}
	out, err := h.ledger.Transfer(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Historial de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        stock_item_id            query  string  false  "StockItem (UUID)"
// @Param        movement_type            query  string  false  "INBOUND | OUTBOUND | ADJUSTMENT | TRANSFER | PRODUCTION_INPUT | PRODUCTION_OUTPUT"
// @Param        adjustment_reason        query  string  false  "Motivo de ajuste"
// @Param        source_location_id       query  string  false  "Ubicación origen"
// @Param        destination_location_id  query  string  false  "Ubicación destino"
// @Param        recent_days              query  int     false  "7, 30 o 90"
// @Param        limit                    query  int     false  "Límite"  default(20)
// @Param        offset                   query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if ok, err := parseQuery(c, h.log, &q); !ok {
		return err
	}
	out, err := h.ledger.ListMovements(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar movimientos a CSV
// @Tags         movements
// @Security     Bearer
// @Produce      text/csv
// @Param        encoding       query  string  false  "utf-8 (por defecto) | windows-1252"
// @Param        stock_item_id  query  string  false  "StockItem (UUID)"
// @Param        movement_type  query  string  false  "Tipo de movimiento"
// @Param        recent_days    query  int     false  "7, 30 o 90"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/export.csv [get]
func (h *MovementHandler) Export(c *fiber.Ctx) error {
	enc, err := export.ParseEncoding(c.Query("encoding"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ENCODING", Message: err.Error()})
	}
	var q dto.MovementListQuery
	if ok, err := parseQuery(c, h.log, &q); !ok {
		return err
	}
	movs, err := h.ledger.ExportMovements(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	var buf bytes.Buffer
	if err := export.NewMovementsWriter(enc).Write(&buf, movs); err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, enc.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="movimientos-%s.csv"`, h.clock().Format("20060102")))
	return c.Send(buf.Bytes())
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.ledger.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Edit godoc
// @Summary      Editar movimiento
// @Description  Compensa el saldo con la diferencia entre versión original y nueva. Cambios de cantidad,
// @Description  tipo, ubicación o item exigen notes. La foto antes/después no cambia; se guarda una revisión.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del movimiento"
// @Param        body  body  dto.EditMovementRequest  true  "Versión completa del movimiento"
// @Success      200   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id} [put]
func (h *MovementHandler) Edit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.EditMovementRequest
	if ok, err := parseBody(c, h.log, &in); !ok {
		return err
	}
	out, err := h.ledger.EditMovement(c.UserContext(), userID, c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Revisiones de un movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {array}   dto.MovementRevisionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id}/history [get]
func (h *MovementHandler) History(c *fiber.Ctx) error {
	out, err := h.ledger.MovementRevisions(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
