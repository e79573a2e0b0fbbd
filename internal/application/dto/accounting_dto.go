package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Estructuras del sistema contable remoto (API pública lexoffice) ──────────

// Page página de un listado remoto. Last indica que no hay más páginas.
type Page[T any] struct {
	Content       []T  `json:"content"`
	Last          bool `json:"last"`
	TotalPages    int  `json:"totalPages"`
	TotalElements int  `json:"totalElements"`
	Number        int  `json:"number"`
}

// RemoteContact contacto (cliente o empresa) del sistema contable.
// Se usa tanto para leer como para crear contactos; en la creación ID va vacío.
type RemoteContact struct {
	ID             string            `json:"id,omitempty"`
	Version        int               `json:"version"`
	Roles          *ContactRoles     `json:"roles,omitempty"`
	Person         *ContactPerson    `json:"person,omitempty"`
	Company        *ContactCompany   `json:"company,omitempty"`
	Addresses      *ContactAddresses `json:"addresses,omitempty"`
	EmailAddresses *ContactEmails    `json:"emailAddresses,omitempty"`
	PhoneNumbers   *ContactPhones    `json:"phoneNumbers,omitempty"`
	Archived       bool              `json:"archived,omitempty"`
}

// ContactRoles roles del contacto. Un struct vacío serializa como {} (rol activo).
type ContactRoles struct {
	Customer *ContactRole `json:"customer,omitempty"`
	Vendor   *ContactRole `json:"vendor,omitempty"`
}

// ContactRole rol con número opcional asignado por el sistema contable.
type ContactRole struct {
	Number int `json:"number,omitempty"`
}

// ContactPerson sub-registro de persona natural.
type ContactPerson struct {
	Salutation string `json:"salutation,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName"`
}

// ContactCompany sub-registro de empresa.
type ContactCompany struct {
	Name        string `json:"name"`
	TaxNumber   string `json:"taxNumber,omitempty"`
	VatRegistID string `json:"vatRegistrationId,omitempty"`
}

// ContactAddresses direcciones de facturación y envío.
type ContactAddresses struct {
	Billing  []PostalAddress `json:"billing,omitempty"`
	Shipping []PostalAddress `json:"shipping,omitempty"`
}

// PostalAddress dirección postal.
type PostalAddress struct {
	Supplement  string `json:"supplement,omitempty"`
	Street      string `json:"street,omitempty"`
	Zip         string `json:"zip,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// ContactEmails emails agrupados por tipo.
type ContactEmails struct {
	Business []string `json:"business,omitempty"`
	Office   []string `json:"office,omitempty"`
	Private  []string `json:"private,omitempty"`
	Other    []string `json:"other,omitempty"`
}

// ContactPhones teléfonos agrupados por tipo.
type ContactPhones struct {
	Business []string `json:"business,omitempty"`
	Office   []string `json:"office,omitempty"`
	Mobile   []string `json:"mobile,omitempty"`
	Private  []string `json:"private,omitempty"`
	Fax      []string `json:"fax,omitempty"`
	Other    []string `json:"other,omitempty"`
}

// CreatedResource respuesta de una creación en el sistema contable.
type CreatedResource struct {
	ID          string    `json:"id"`
	ResourceURI string    `json:"resourceUri"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
	Version     int       `json:"version"`
}

// VoucherSummary resumen de comprobante devuelto por el listado (voucherlist).
// No trae el total bruto fiable ni siempre el contacto; para eso está RemoteInvoice.
type VoucherSummary struct {
	ID            string          `json:"id"`
	VoucherType   string          `json:"voucherType"`
	VoucherStatus string          `json:"voucherStatus"`
	VoucherNumber string          `json:"voucherNumber"`
	VoucherDate   time.Time       `json:"voucherDate"`
	ContactName   string          `json:"contactName,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Currency      string          `json:"currency,omitempty"`
}

// RemoteInvoice factura completa.
type RemoteInvoice struct {
	ID            string         `json:"id"`
	VoucherNumber string         `json:"voucherNumber"`
	VoucherDate   time.Time      `json:"voucherDate"`
	VoucherStatus string         `json:"voucherStatus"`
	Address       InvoiceAddress `json:"address"`
	TotalPrice    InvoiceTotals  `json:"totalPrice"`
}

// InvoiceAddress destinatario de la factura; ContactID vacío si es un destinatario ad hoc.
type InvoiceAddress struct {
	ContactID string `json:"contactId,omitempty"`
	Name      string `json:"name,omitempty"`
}

// InvoiceTotals totales de la factura.
type InvoiceTotals struct {
	Currency         string              `json:"currency"`
	TotalNetAmount   decimal.NullDecimal `json:"totalNetAmount"`
	TotalGrossAmount decimal.NullDecimal `json:"totalGrossAmount"`
}

// DocumentFileRef referencia opaca al PDF renderizado de una factura.
type DocumentFileRef struct {
	DocumentFileID string `json:"documentFileId"`
}

// ── API HTTP propia ───────────────────────────────────────────────────────────

// SaveAccountingSettingsRequest body para PUT /api/accounting/settings.
type SaveAccountingSettingsRequest struct {
	APIKey string `json:"api_key"`
}

// SyncCounts contadores de una sincronización.
type SyncCounts struct {
	SyncedCount            int `json:"synced_count"`
	UpdatedCount           int `json:"updated_count"`
	ExportedCount          int `json:"exported_count"`
	InvoiceDocumentsSynced int `json:"invoice_documents_synced"`
	DocumentsDownloaded    int `json:"documents_downloaded"`
	FailedCount            int `json:"failed_count"`
}

// SyncStatusResponse respuesta de GET /api/accounting/sync.
type SyncStatusResponse struct {
	Running    bool        `json:"running"`
	LastSyncAt *time.Time  `json:"last_sync_at,omitempty"`
	StartedAt  *time.Time  `json:"started_at,omitempty"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	Summary    string      `json:"summary,omitempty"`
	Counts     *SyncCounts `json:"counts,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// AccountingSettingsResponse respuesta de GET /api/accounting/settings.
type AccountingSettingsResponse struct {
	Configured bool       `json:"configured"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
}
