package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/myshop-api/internal/application/auth"
	"github.com/jhoicas/myshop-api/internal/application/counting"
	"github.com/jhoicas/myshop-api/internal/application/inventory"
	"github.com/jhoicas/myshop-api/internal/application/purchasing"
	"github.com/jhoicas/myshop-api/internal/application/usecase"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
	"github.com/jhoicas/myshop-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/myshop-api/internal/infrastructure/pdf"
	"github.com/jhoicas/myshop-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/myshop-api/internal/interfaces/http"
	"github.com/jhoicas/myshop-api/pkg/config"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios y runner de transacciones del backend elegido por APP_STORAGE.
type storage struct {
	txRunner  inventory.TxRunner
	items     repository.ItemRepository
	movements repository.StockMovementRepository
	orders    repository.PurchaseOrderRepository
	counts    repository.InventoryCountRepository
	users     repository.UserRepository
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("APP_STORAGE=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			txRunner:  s,
			items:     s.Items(),
			movements: s.Movements(),
			orders:    s.PurchaseOrders(),
			counts:    s.InventoryCounts(),
			users:     s.Users(),
			close:     func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		m, err := postgres.NewMigrator(cfg.DB.MigrationURL())
		if err != nil {
			return nil, err
		}
		err = m.Up()
		_ = m.Close()
		if err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		txRunner:  postgres.NewTxRunner(pool),
		items:     postgres.NewItemRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		orders:    postgres.NewPurchaseOrderRepository(pool),
		counts:    postgres.NewInventoryCountRepository(pool),
		users:     postgres.NewUserRepository(pool),
		close:     pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	engine := inventory.NewPostingEngine(store.txRunner, log.Component("stock_ledger"))
	movementUC := inventory.NewMovementUseCase(engine, store.items, store.movements)
	itemUC := usecase.NewItemUseCase(store.items, store.movements)
	replenishmentUC := inventory.NewReplenishmentUseCase(store.items, store.movements)
	orderUC := purchasing.NewOrderUseCase(store.txRunner, store.orders)
	receivingUC := purchasing.NewReceivingUseCase(store.txRunner, engine, store.orders, store.items, log.Component("po_receiving"))

	// PDF: hoja de conteo físico
	sheet := infrapdf.NewCountSheetGenerator(cfg.App.Name, "es-MX")
	countUC := counting.NewInventoryCountUseCase(store.txRunner, engine, store.counts, sheet, log.Component("inventory_count"))

	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "MyShop API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.Storage})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(store.users),
		ItemUC:      itemUC,
		MovementUC:  movementUC,
		Replenish:   replenishmentUC,
		OrderUC:     orderUC,
		ReceivingUC: receivingUC,
		CountUC:     countUC,
		JWTSecret:   cfg.JWT.Secret,
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
