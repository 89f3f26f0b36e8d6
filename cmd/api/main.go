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
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/receipt"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/application/workorder"
	infraai "github.com/jhoicas/almacen-api/internal/infrastructure/ai"
	"github.com/jhoicas/almacen-api/internal/infrastructure/ingest"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/internal/infrastructure/qr"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")
	zl := log.Zerolog()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.App.MigrateOnStart {
		if err := postgres.NewMigrator(pool).Up(); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	workOrderRepo := postgres.NewWorkOrderRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Extracción asistida: sin claves, los PDF quedan con heurísticas y las imágenes se rechazan.
	var structurer ingest.TextStructurer
	if cfg.AI.OpenAIAPIKey != "" {
		s, err := infraai.NewOpenAIStructurer(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente OpenAI")
		}
		structurer = s
	}
	extractors := receipt.Extractors{
		PDF:  ingest.NewPDFExtractor(structurer, log.Component("ingest")),
		Text: ingest.NewTextExtractor(),
	}
	if cfg.AI.AnthropicAPIKey != "" {
		extractors.Image = infraai.NewAnthropicVision(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	}
	log.Info().
		Bool("pdf_llm", structurer != nil).
		Bool("image_vision", extractors.Image != nil).
		Msg("extractores de remitos")

	authUC := auth.NewAuthUseCase(userRepo, roleRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	stockUC := inventory.NewStockUseCase(txRunner, zl)
	receiptUC := receipt.NewUseCase(txRunner, receiptRepo, warehouseRepo, extractors, receipt.Limits{
		TempDir:          cfg.Upload.Dir,
		MaxDocumentBytes: cfg.Upload.MaxDocumentBytes(),
		MaxTextBytes:     cfg.Upload.MaxTextBytes(),
	}, zl)
	reportUC := report.NewUseCase(productRepo, receiptRepo, warehouseRepo, workOrderRepo, projectRepo,
		infrapdf.NewMarotoReportGenerator(cfg.App.Name), qr.NewEncoder())

	metrics := httpRouter.NewMetrics()

	bodyLimit := max(cfg.Upload.MaxDocumentBytes(), cfg.Upload.MaxTextBytes()) + 1<<20
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    int(bodyLimit),
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(metrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", metrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(userRepo, roleRepo),
		RoleUC:      usecase.NewRoleUseCase(roleRepo, userRepo),
		WarehouseUC: usecase.NewWarehouseUseCase(warehouseRepo),
		ProductUC:   usecase.NewProductUseCase(productRepo),
		OrderUC:     usecase.NewOrderUseCase(orderRepo, productRepo),
		ProjectUC:   usecase.NewProjectUseCase(projectRepo),
		MovementUC:  usecase.NewMovementUseCase(movementRepo),
		StockUC:     stockUC,
		WorkOrderUC: workorder.NewUseCase(txRunner, workOrderRepo, projectRepo, productRepo, zl),
		ReceiptUC:   receiptUC,
		ReportUC:    reportUC,
		Metrics:     metrics,
		JWTSecret:   cfg.JWT.Secret,
		Log:         zl,
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
