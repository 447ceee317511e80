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

	"github.com/jhoicas/ServiceCenter-api/internal/application/inventory"
	"github.com/jhoicas/ServiceCenter-api/internal/application/orders"
	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/application/pricing"
	"github.com/jhoicas/ServiceCenter-api/internal/infrastructure/events"
	"github.com/jhoicas/ServiceCenter-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/ServiceCenter-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ServiceCenter-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/ServiceCenter-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/ServiceCenter-api/internal/interfaces/http"
	"github.com/jhoicas/ServiceCenter-api/pkg/config"
	"github.com/jhoicas/ServiceCenter-api/pkg/logger"
)

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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL con advisory locks o el store en memoria (desarrollo y demos).
	var (
		txRunner ports.TxRunner
		repos    ports.Repos
		ping     func(context.Context) error
	)
	switch cfg.DB.Driver {
	case "memory":
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("usando store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pg := postgres.NewTxRunner(pool)
		txRunner, repos, ping = pg, pg.Repos(), pool.Ping
	}

	// Redis: locks de stock compartidos entre instancias de la API.
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker := infraredis.NewLocker(rdb, cfg.Redis.LockTTL)
		txRunner = infraredis.NewLockingTxRunner(txRunner, locker, cfg.Redis.LockTTL, log)
		log.Info().Str("address", cfg.Redis.Address).Msg("locks distribuidos habilitados")
	}

	// Eventos: Kafka si hay brokers; si no, solo log.
	var publisher ports.EventPublisher = events.NewLogPublisher(log)
	if cfg.Kafka.Enabled() {
		kp := events.NewKafkaPublisher(cfg.Kafka)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar writer de Kafka")
			}
		}()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicación de eventos en Kafka")
	}

	purchaseOrderUC := orders.NewPurchaseOrderUseCase(txRunner, publisher, log, time.Now)
	salesOrderUC := orders.NewSalesOrderUseCase(txRunner, publisher, log, time.Now)
	stockUC := inventory.NewStockUseCase(txRunner, publisher, log, time.Now)
	resolver := pricing.NewResolver(repos.PriceBooks, repos.CostStats, log)

	// PDF: nota de devolución
	returnPDFUC := orders.NewSalesReturnPDFUseCase(txRunner, infrapdf.NewMarotoPDFGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ServiceCenter API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if ping != nil {
			if err := ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db_driver": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PurchaseOrderUC: purchaseOrderUC,
		SalesOrderUC:    salesOrderUC,
		ReturnPDFUC:     returnPDFUC,
		StockUC:         stockUC,
		Resolver:        resolver,
		Now:             time.Now,
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
