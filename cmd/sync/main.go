// Command sync ejecuta una sincronización contable completa y termina.
// Útil para cron del sistema o para lanzarla a mano desde el servidor.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/Taller-api/internal/application/accounting"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/infrastructure/lexoffice"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Taller-api/internal/infrastructure/storage"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Accounting.SyncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Accounting.SyncTimeout)
		defer cancel()
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	files, err := storage.NewOSStore(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("almacenamiento de documentos")
	}

	engine := accounting.NewEngine(accounting.ConfigFrom(cfg.Accounting), accounting.Deps{
		Settings:  postgres.NewAccountingSettingsRepository(pool),
		Customers: postgres.NewCustomerRepository(pool),
		Services:  postgres.NewServiceRecordRepository(pool),
		Documents: postgres.NewDocumentRepository(pool),
		Client:    lexoffice.NewFactory(lexoffice.OptionsFrom(cfg.Accounting)),
		Files:     files,
		Logger:    log.Zerolog(),
	})

	report, err := engine.Run(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAccountingNotConfigured) {
			fmt.Fprintln(os.Stderr, "no hay API key configurada: PUT /api/accounting/settings")
			os.Exit(2)
		}
		log.Error().Err(err).Msg("sincronización fallida")
		os.Exit(1)
	}

	fmt.Println(report.Summary.String())
	for _, f := range failures(report) {
		fmt.Fprintln(os.Stderr, f)
	}
	if report.FailedCount() > 0 {
		os.Exit(3)
	}
}

func failures(r *accounting.Report) []string {
	var out []string
	phases := []struct {
		name string
		res  accounting.PhaseResult
	}{
		{"contacto", r.Contacts},
		{"exportación", r.Export},
		{"factura", r.Invoices},
		{"documento", r.Documents},
	}
	for _, p := range phases {
		for _, f := range p.res.Failed {
			line := fmt.Sprintf("%s %s: %v", p.name, f.Item, f.Err)
			if f.RateLimited {
				line += " (límite de peticiones)"
			}
			out = append(out, line)
		}
	}
	if r.VoucherListErr != nil {
		out = append(out, fmt.Sprintf("listado de facturas incompleto: %v", r.VoucherListErr))
	}
	return out
}
