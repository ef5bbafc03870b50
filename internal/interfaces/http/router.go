package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
	"github.com/jhoicas/bakery-stock-api/internal/application/supplies"
	"github.com/jhoicas/bakery-stock-api/pkg/jwt"
	"github.com/jhoicas/bakery-stock-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName    string
	Ledger     *stock.LedgerUseCase
	Query      *stock.QueryUseCase
	Orch       *stock.Orchestrator
	Locations  *stock.LocationUseCase
	Thresholds *stock.ThresholdUseCase
	Supplies   *supplies.UseCase
	KardexPDF  stock.KardexPDFGenerator
	Log        *logger.Logger
	Clock      stock.Clock
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = stock.Clock(nowUTC)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	// Todo /api requiere Bearer Token; las escrituras además exigen rol.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(jwt.RoleAdmin)
	operator := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	locationHandler := NewLocationHandler(deps.Locations, log)
	itemHandler := NewStockItemHandler(deps.Query, deps.Ledger, deps.KardexPDF, log)
	movementHandler := NewMovementHandler(deps.Ledger, log, clock)
	thresholdHandler := NewThresholdHandler(deps.Thresholds, log)
	supplyHandler := NewSupplyHandler(deps.Supplies, deps.Orch, log)

	st := api.Group("/stock")

	// Ubicaciones
	st.Post("/locations", admin, locationHandler.Create)
	st.Get("/locations", locationHandler.List)
	st.Get("/locations/:id", locationHandler.GetByID)
	st.Put("/locations/:id", admin, locationHandler.Update)

	// StockItems
	st.Get("/items", itemHandler.List)
	st.Post("/items", admin, itemHandler.Create)
	st.Post("/items/recalculate", admin, itemHandler.RecalculateMany)
	st.Get("/items/:id", itemHandler.GetByID)
	st.Get("/items/:id/kardex.pdf", itemHandler.KardexPDF)
	st.Post("/items/:id/recalculate", admin, itemHandler.Recalculate)
	st.Get("/reconciliation", admin, itemHandler.Reconciliation)

	// Movimientos (export.csv antes de /:id)
	st.Get("/movements", movementHandler.List)
	st.Get("/movements/export.csv", movementHandler.Export)
	st.Post("/movements", operator, movementHandler.Record)
	st.Get("/movements/:id", movementHandler.GetByID)
	st.Put("/movements/:id", admin, movementHandler.Edit)
	st.Get("/movements/:id/history", movementHandler.History)
	st.Post("/transfers", operator, movementHandler.Transfer)

	// Umbrales
	st.Get("/thresholds", thresholdHandler.List)
	st.Put("/thresholds/:supply_item_id", admin, thresholdHandler.Upsert)

	// Insumos y lotes
	sp := api.Group("/supplies")
	sp.Post("/items", admin, supplyHandler.CreateItem)
	sp.Get("/items", supplyHandler.ListItems)
	sp.Post("/batches", admin, supplyHandler.CreateBatch)
	sp.Post("/batches/force-entry", admin, supplyHandler.ForceEntryMany)
	sp.Get("/batches/:id", supplyHandler.GetBatch)
	sp.Put("/batches/:id", admin, supplyHandler.UpdateBatch)
	sp.Post("/batches/:id/force-entry", admin, supplyHandler.ForceEntry)
}

func nowUTC() time.Time { return time.Now().UTC() }
