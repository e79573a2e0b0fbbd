package ports

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/application/dto"
)

// AccountingClient define el puerto de salida hacia el sistema contable externo.
// Cualquier adaptador (lexoffice, mock) debe implementar esta interfaz.
// Todas las llamadas son bloqueantes y consumen cuota del límite de peticiones remoto.
type AccountingClient interface {
	// ListContacts devuelve la página page (base 0) de contactos.
	ListContacts(ctx context.Context, page, size int) (*dto.Page[dto.RemoteContact], error)
	// CreateContact crea un contacto y devuelve su identificador remoto.
	CreateContact(ctx context.Context, contact *dto.RemoteContact) (*dto.CreatedResource, error)
	// ListInvoiceVouchers devuelve una página de resúmenes de factura filtrados por estado.
	ListInvoiceVouchers(ctx context.Context, statuses []string, page, size int) (*dto.Page[dto.VoucherSummary], error)
	GetInvoice(ctx context.Context, id string) (*dto.RemoteInvoice, error)
	// GetInvoiceDocument devuelve la referencia al PDF de la factura (puede venir vacía).
	GetInvoiceDocument(ctx context.Context, invoiceID string) (*dto.DocumentFileRef, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// AccountingClientFactory construye un cliente autenticado con la API key vigente.
// La credencial se resuelve en cada sincronización, no al arrancar el proceso.
type AccountingClientFactory func(apiKey string) AccountingClient

// FileStore almacenamiento durable de archivos (PDFs de facturas).
type FileStore interface {
	Write(path string, data []byte) error
}
