package entity

import "time"

// Tipos de documento.
const (
	DocumentTypeInvoice = "invoice" // PDF de factura descargado del sistema contable
	DocumentTypeManual  = "manual"  // subido por el usuario
)

// Document archivo asociado a un cliente.
type Document struct {
	ID         string
	RemoteID   string // ID de la factura remota para PDFs de factura
	CustomerID string
	Name       string
	Path       string // ruta relativa dentro del almacenamiento de archivos
	Type       string
	CreatedAt  time.Time
}
