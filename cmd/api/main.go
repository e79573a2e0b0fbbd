// @title                       Taller API
// @version                     1.0
// @description                 Conciliación del taller con el sistema contable: contactos, historial de servicio y PDFs de facturas.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
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

	_ "github.com/jhoicas/Taller-api/docs"
	"github.com/jhoicas/Taller-api/internal/application/accounting"
	"github.com/jhoicas/Taller-api/internal/infrastructure/lexoffice"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Taller-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/Taller-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Taller-api/internal/interfaces/http"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	files, err := storage.NewOSStore(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("almacenamiento de documentos")
	}

	settingsRepo := postgres.NewAccountingSettingsRepository(pool)
	engine := accounting.NewEngine(accounting.ConfigFrom(cfg.Accounting), accounting.Deps{
		Settings:  settingsRepo,
		Customers: postgres.NewCustomerRepository(pool),
		Services:  postgres.NewServiceRecordRepository(pool),
		Documents: postgres.NewDocumentRepository(pool),
		Client:    lexoffice.NewFactory(lexoffice.OptionsFrom(cfg.Accounting)),
		Files:     files,
		Logger:    log.Zerolog(),
	})

	// Las sincronizaciones en segundo plano se cancelan al apagar, antes de cerrar el pool.
	syncCtx, cancelSyncs := context.WithCancel(context.Background())
	defer cancelSyncs()
	runner := accounting.NewRunner(syncCtx, engine, cfg.Accounting.SyncTimeout, log.Component("accounting-runner"))

	// Sincronización desatendida: solo si ACCOUNTING_SYNC_CRON está definido.
	var sched *scheduler.SyncScheduler
	if cfg.Accounting.SyncCron != "" {
		sched, err = scheduler.NewSyncScheduler(cfg.Accounting.SyncCron, runner, log.Component("accounting-cron"))
		if err != nil {
			log.Fatal().Err(err).Msg("planificador de sincronización")
		}
		sched.Start()
		log.Info().Str("cron", cfg.Accounting.SyncCron).Msg("sincronización contable programada")
	}

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
		Title:    "Taller API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SyncRunner:         runner,
		AccountingSettings: settingsRepo,
		JWTSecret:          cfg.JWT.Secret,
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

	if sched != nil {
		sched.Stop()
	}
	cancelSyncs()
	runner.Wait()

	log.Info().Msg("aplicación detenida")
}
