package accounting

import (
	"time"

	"github.com/jhoicas/Taller-api/pkg/config"
)

// Estados de factura que se importan desde el sistema contable.
var DefaultVoucherStatuses = []string{"open", "paid", "voided"}

// Config parámetros de la sincronización contable.
type Config struct {
	PageSize        int      // tamaño de página remoto
	MaxPages        int      // tope de páginas por listado; alcanzarlo no es error
	VoucherStatuses []string // estados de factura a importar
	CountryCode     string   // país de las direcciones exportadas

	// Esperas fijas antes de cada llamada sensible al límite de peticiones remoto.
	ExportDelay   time.Duration // antes de crear cada contacto
	InvoiceDelay  time.Duration // antes de leer cada factura
	DocumentDelay time.Duration // antes de cada una de las dos llamadas del PDF
}

// DefaultConfig valores usados en producción.
func DefaultConfig() Config {
	return Config{
		PageSize:        100,
		MaxPages:        100,
		VoucherStatuses: DefaultVoucherStatuses,
		CountryCode:     "DE",
		ExportDelay:     300 * time.Millisecond,
		InvoiceDelay:    500 * time.Millisecond,
		DocumentDelay:   200 * time.Millisecond,
	}
}

// ConfigFrom parte de DefaultConfig y aplica lo que viene del entorno.
// Lo usan todos los binarios que construyen el motor.
func ConfigFrom(c config.AccountingConfig) Config {
	out := DefaultConfig()
	out.PageSize = c.PageSize
	out.MaxPages = c.MaxPages
	out.ExportDelay = c.ExportDelay
	out.InvoiceDelay = c.InvoiceDelay
	out.DocumentDelay = c.DocumentDelay
	return out.normalized()
}

// normalized completa los campos estructurales vacíos. Las esperas se respetan tal cual
// (cero desactiva la espera).
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.PageSize <= 0 {
		c.PageSize = def.PageSize
	}
	if c.MaxPages <= 0 {
		c.MaxPages = def.MaxPages
	}
	if len(c.VoucherStatuses) == 0 {
		c.VoucherStatuses = def.VoucherStatuses
	}
	if c.CountryCode == "" {
		c.CountryCode = def.CountryCode
	}
	return c
}
