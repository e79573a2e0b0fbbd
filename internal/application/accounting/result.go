package accounting

import (
	"errors"
	"fmt"
	"time"
)

// Failure error de un registro concreto; la fase continúa con el siguiente.
type Failure struct {
	Item        string // ID local o remoto del registro
	Err         error
	RateLimited bool // el servicio remoto respondió HTTP 429
}

// rateLimiter lo implementan los errores del cliente remoto que distinguen un HTTP 429.
type rateLimiter interface {
	RateLimited() bool
}

func isRateLimited(err error) bool {
	var rl rateLimiter
	return errors.As(err, &rl) && rl.RateLimited()
}

// PhaseResult resultado estructurado de una fase.
type PhaseResult struct {
	Succeeded []string
	Skipped   []string
	Failed    []Failure
}

func (p *PhaseResult) succeed(item string) { p.Succeeded = append(p.Succeeded, item) }
func (p *PhaseResult) skip(item string)    { p.Skipped = append(p.Skipped, item) }
func (p *PhaseResult) fail(item string, err error) {
	p.Failed = append(p.Failed, Failure{Item: item, Err: err, RateLimited: isRateLimited(err)})
}

// Summary contadores finales de una sincronización.
type Summary struct {
	SyncedCount            int // clientes creados desde contactos remotos
	UpdatedCount           int // clientes actualizados desde contactos remotos
	ExportedCount          int // clientes locales creados en remoto
	InvoiceDocumentsSynced int // facturas asignadas a un cliente (historial creado o actualizado)
	DocumentsDownloaded    int // PDFs nuevos descargados
}

// String resumen legible para el usuario.
func (s Summary) String() string {
	return fmt.Sprintf("Synchronisierung abgeschlossen: %d neu, %d aktualisiert, %d exportiert, %d Rechnungen",
		s.SyncedCount, s.UpdatedCount, s.ExportedCount, s.InvoiceDocumentsSynced)
}

// Report detalle completo de una sincronización terminada.
type Report struct {
	Summary Summary

	Contacts  PhaseResult // por ID de contacto remoto
	Export    PhaseResult // por ID de cliente local
	Invoices  PhaseResult // por ID de factura remota
	Documents PhaseResult // por ID de factura remota

	ContactPagesCapped bool
	VoucherPagesCapped bool
	// VoucherListErr error de paginación de facturas; la fase siguió con lo ya leído.
	VoucherListErr error

	StartedAt  time.Time
	FinishedAt time.Time
}

// FailedCount total de registros fallidos en todas las fases.
func (r *Report) FailedCount() int {
	return len(r.Contacts.Failed) + len(r.Export.Failed) + len(r.Invoices.Failed) + len(r.Documents.Failed)
}

// RateLimitedCount registros fallidos por límite de peticiones; suelen resolverse en la
// próxima sincronización.
func (r *Report) RateLimitedCount() int {
	n := 0
	for _, p := range []PhaseResult{r.Contacts, r.Export, r.Invoices, r.Documents} {
		for _, f := range p.Failed {
			if f.RateLimited {
				n++
			}
		}
	}
	return n
}
