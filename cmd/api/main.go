package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/bakery-stock-api/docs"
	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
	"github.com/jhoicas/bakery-stock-api/internal/application/supplies"
	domstock "github.com/jhoicas/bakery-stock-api/internal/domain/stock"
	"github.com/jhoicas/bakery-stock-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/bakery-stock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/bakery-stock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/bakery-stock-api/internal/interfaces/http"
	"github.com/jhoicas/bakery-stock-api/pkg/config"
	"github.com/jhoicas/bakery-stock-api/pkg/logger"
)

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

	// Almacenamiento: PostgreSQL (por defecto) o en memoria para demos y pruebas.
	var (
		tx    stock.TxRunner
		repos stock.Repos
	)
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		tx, repos = store, store.Repos()
	default:
		if cfg.DB.AutoMigrate {
			migrateUp(cfg, log)
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		tx, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	policy, err := stock.PolicyByName(cfg.Stock.LocationPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de ubicación")
	}
	status := domstock.StatusPolicy{
		ExpiringDays:     cfg.Stock.ExpiringDays,
		LowStockFallback: cfg.Stock.LowStockFallback,
	}
	clock := stock.Clock(func() time.Time { return time.Now().UTC() })

	orch := stock.NewOrchestrator(tx, policy, log.Named("orchestrator"), clock)
	ledgerUC := stock.NewLedgerUseCase(tx, repos, log.Named("ledger"), clock)
	queryUC := stock.NewQueryUseCase(repos, status, cfg.Stock.UsageWindowDays, clock)
	locationUC := stock.NewLocationUseCase(repos.Locations, clock)
	thresholdUC := stock.NewThresholdUseCase(repos.Thresholds, repos.Supplies)
	suppliesUC := supplies.NewUseCase(tx, repos, orch, log.Named("supplies"), clock)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bakery Stock API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:    cfg.App.Name,
		Ledger:     ledgerUC,
		Query:      queryUC,
		Orch:       orch,
		Locations:  locationUC,
		Thresholds: thresholdUC,
		Supplies:   suppliesUC,
		KardexPDF:  infrapdf.NewMarotoKardexGenerator(cfg.App.Name),
		Log:        log.Named("http"),
		Clock:      clock,
		JWTSecret:  cfg.JWT.Secret,
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

// migrateUp aplica las migraciones embebidas antes de abrir el pool.
func migrateUp(cfg *config.Config, log *logger.Logger) {
	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
}
