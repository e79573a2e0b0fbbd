// Package accounting concilia clientes, historial de servicio y PDFs de facturas
// del taller con el sistema contable externo.
//
// Orden de una sincronización:
//
//	Credencial → Importar contactos → Exportar clientes → Marca last_sync_at → Importar facturas (+PDF)
//
// Todo se ejecuta en secuencia: el servicio remoto limita las peticiones (HTTP 429) y
// las esperas fijas entre llamadas son el único mecanismo de regulación.
package accounting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// Deps dependencias del motor de sincronización.
type Deps struct {
	Settings  repository.AccountingSettingsRepository
	Customers repository.CustomerRepository
	Services  repository.ServiceRecordRepository
	Documents repository.DocumentRepository
	Client    ports.AccountingClientFactory
	Files     ports.FileStore

	Sleeper Sleeper          // nil → TimerSleeper
	Clock   func() time.Time // nil → time.Now
	Logger  zerolog.Logger
}

// Engine motor de conciliación con el sistema contable.
type Engine struct {
	cfg       Config
	settings  repository.AccountingSettingsRepository
	customers repository.CustomerRepository
	services  repository.ServiceRecordRepository
	documents repository.DocumentRepository
	newClient ports.AccountingClientFactory
	files     ports.FileStore
	sleeper   Sleeper
	clock     func() time.Time
	log       zerolog.Logger
}

// NewEngine construye el motor.
func NewEngine(cfg Config, deps Deps) *Engine {
	e := &Engine{
		cfg:       cfg.normalized(),
		settings:  deps.Settings,
		customers: deps.Customers,
		services:  deps.Services,
		documents: deps.Documents,
		newClient: deps.Client,
		files:     deps.Files,
		sleeper:   deps.Sleeper,
		clock:     deps.Clock,
		log:       deps.Logger.With().Str("component", "accounting-sync").Logger(),
	}
	if e.sleeper == nil {
		e.sleeper = TimerSleeper
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	return e
}

// syncRun estado de una ejecución concreta.
type syncRun struct {
	*Engine
	client ports.AccountingClient
	report *Report
}

// Run ejecuta una sincronización completa.
//
// Errores fatales (sin reporte): domain.ErrAccountingNotConfigured si no hay API key,
// domain.ErrAccountingUnavailable si falla el listado de contactos, o el error del
// contexto si el llamador lo cancela. El resto de fallos quedan en el Report.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	apiKey, err := e.resolveAPIKey(ctx)
	if err != nil {
		return nil, err
	}

	r := &syncRun{
		Engine: e,
		client: e.newClient(apiKey),
		report: &Report{StartedAt: e.now()},
	}
	e.log.Info().Msg("sincronización contable iniciada")

	if err := r.importContacts(ctx); err != nil {
		e.log.Error().Err(err).Msg("sincronización abortada en la importación de contactos")
		return nil, err
	}
	if err := r.exportCustomers(ctx); err != nil {
		return nil, err
	}

	// La marca se actualiza al terminar importación y exportación, pase lo que pase con las facturas.
	if err := e.settings.SetLastSyncAt(ctx, e.now()); err != nil {
		e.log.Warn().Err(err).Msg("no se pudo guardar last_sync_at")
	}

	if err := r.importInvoices(ctx); err != nil {
		return nil, err
	}

	r.report.FinishedAt = e.now()
	s := r.report.Summary
	e.log.Info().
		Int("synced", s.SyncedCount).
		Int("updated", s.UpdatedCount).
		Int("exported", s.ExportedCount).
		Int("invoices", s.InvoiceDocumentsSynced).
		Int("documents", s.DocumentsDownloaded).
		Int("failed", r.report.FailedCount()).
		Int("rate_limited", r.report.RateLimitedCount()).
		Dur("duration", r.report.FinishedAt.Sub(r.report.StartedAt)).
		Msg("sincronización contable terminada")
	return r.report, nil
}

// wait aplica la espera fija previa a una llamada remota.
func (e *Engine) wait(ctx context.Context, d time.Duration) error {
	if err := e.sleeper.Sleep(ctx, d); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("espera entre llamadas: %w", err)
	}
	return nil
}

func (e *Engine) now() time.Time {
	return e.clock().UTC()
}
