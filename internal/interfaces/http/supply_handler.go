package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
	"github.com/jhoicas/bakery-stock-api/internal/application/supplies"
	"github.com/jhoicas/bakery-stock-api/pkg/logger"
)

// SupplyHandler catálogo de insumos y lotes (protegido).
type SupplyHandler struct {
	uc   *supplies.UseCase
	orch *stock.Orchestrator
	log  *logger.Logger
}

// NewSupplyHandler construye el handler.
func NewSupplyHandler(uc *supplies.UseCase, orch *stock.Orchestrator, log *logger.Logger) *SupplyHandler {
	return &SupplyHandler{uc: uc, orch: orch, log: log}
}

// CreateItem godoc
// @Summary      Crear insumo
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplyItemRequest  true  "sku, name, unit_of_measure"
// @Success      201   {object}  dto.SupplyItemResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/supplies/items [post]
func (h *SupplyHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateSupplyItemRequest
	if ok, err := parseBody(c, h.log, &in); !ok {
		return err
	}
	out, err := h.uc.CreateItem(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListItems godoc
// @Summary      Listar insumos
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.SupplyItemListResponse
// @Router       /api/supplies/items [get]
func (h *SupplyHandler) ListItems(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := parseQuery(c, h.log, &page); !ok {
		return err
	}
	out, err := h.uc.ListItems(c.UserContext(), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateBatch godoc
// @Summary      Crear lote
// @Description  Si el lote está activo, tiene cantidad y existe una ubicación activa, se materializa
// @Description  en existencias con una entrada automática (stock_created=true).
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "supply_item_id, batch_code, quantity, expiration_date"
// @Success      201   {object}  dto.BatchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/supplies/batches [post]
func (h *SupplyHandler) CreateBatch(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if ok, err := parseBody(c, h.log, &in); !ok {
		return err
	}
	out, err := h.uc.CreateBatch(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetBatch godoc
// @Summary      Obtener lote
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplies/batches/{id} [get]
func (h *SupplyHandler) GetBatch(c *fiber.Ctx) error {
	out, err := h.uc.GetBatch(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateBatch godoc
// @Summary      Actualizar lote
// @Description  No modifica existencias; para reflejar una nueva cantidad use force-entry.
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del lote"
// @Param        body  body  dto.UpdateBatchRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.BatchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/supplies/batches/{id} [put]
func (h *SupplyHandler) UpdateBatch(c *fiber.Ctx) error {
	var in dto.UpdateBatchRequest
	if ok, err := parseBody(c, h.log, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateBatch(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ForceEntry godoc
// @Summary      Forzar entrada de un lote
// @Description  Concilia el StockItem del lote con la cantidad del lote mediante un ajuste.
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID del lote"
// @Param        body  body  dto.ForceEntryRequest  false  "location_id opcional"
// @Success      200   {object}  dto.ForceEntryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/supplies/batches/{id}/force-entry [post]
func (h *SupplyHandler) ForceEntry(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ForceEntryRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, h.log, &in); !ok {
			return err
		}
	}
	id := c.Params("id")
	applied, err := h.orch.ForceEntry(c.UserContext(), userID, id, in.LocationID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ForceEntryResponse{BatchID: id, Applied: applied})
}

// ForceEntryMany godoc
// @Summary      Forzar entrada de varios lotes
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkIDsRequest  true  "IDs de lotes"
// @Success      200   {object}  dto.BulkResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/supplies/batches/force-entry [post]
func (h *SupplyHandler) ForceEntryMany(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.BulkIDsRequest
	if ok, err := parseBody(c, h.log, &in); !ok {
		return err
	}
	n := h.orch.ForceEntryMany(c.UserContext(), userID, in.IDs)
	return c.JSON(dto.BulkResponse{Requested: len(in.IDs), Processed: n})
}
