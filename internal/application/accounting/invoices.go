package accounting

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// invoiceDir carpeta de los PDFs de facturas dentro del almacenamiento.
const invoiceDir = "invoices"

// importInvoices recorre las facturas remotas y las asigna a clientes locales.
// Un fallo de paginación aquí no es fatal: se procesan las facturas ya leídas y el resto
// entrará en la próxima sincronización.
func (r *syncRun) importInvoices(ctx context.Context) error {
	paged, err := collectPages(ctx, r.cfg.PageSize, r.cfg.MaxPages,
		func(ctx context.Context, page, size int) (*dto.Page[dto.VoucherSummary], error) {
			return r.client.ListInvoiceVouchers(ctx, r.cfg.VoucherStatuses, page, size)
		})
	if err != nil {
		r.report.VoucherListErr = err
		r.log.Warn().Err(err).Int("vouchers", len(paged.Items)).Msg("listado de facturas interrumpido, se continúa con lo leído")
	}
	r.report.VoucherPagesCapped = paged.Capped
	if paged.Capped {
		r.log.Warn().Int("pages", paged.Pages).Msg("tope de páginas de facturas alcanzado")
	}

	for _, v := range paged.Items {
		if err := r.syncInvoice(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// syncInvoice procesa una factura. Solo devuelve error si el contexto se cancela;
// los fallos del registro quedan en el reporte.
func (r *syncRun) syncInvoice(ctx context.Context, v dto.VoucherSummary) error {
	if err := r.wait(ctx, r.cfg.InvoiceDelay); err != nil {
		return err
	}
	inv, err := r.client.GetInvoice(ctx, v.ID)
	if err != nil {
		r.report.Invoices.fail(v.ID, fmt.Errorf("leer factura: %w", err))
		r.log.Warn().Err(err).Str("invoice_id", v.ID).Bool("rate_limited", isRateLimited(err)).Msg("no se pudo leer la factura")
		return nil
	}
	if inv.ID == "" {
		inv.ID = v.ID
	}

	customer, err := r.invoiceOwner(ctx, inv)
	if err != nil {
		r.report.Invoices.fail(inv.ID, err)
		r.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo resolver el cliente de la factura")
		return nil
	}
	if customer == nil {
		// Sin cliente vinculado no se puede atribuir; nunca se asigna a otro cliente.
		r.report.Invoices.skip(inv.ID)
		r.log.Debug().Str("invoice_id", inv.ID).Str("contact_id", inv.Address.ContactID).Msg("factura sin cliente local, se omite")
		return nil
	}

	if err := r.upsertServiceRecord(ctx, inv, v, customer); err != nil {
		r.report.Invoices.fail(inv.ID, err)
		r.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo guardar el historial de la factura")
		return nil
	}
	r.report.Invoices.succeed(inv.ID)
	r.report.Summary.InvoiceDocumentsSynced++

	return r.syncInvoiceDocument(ctx, inv, customer)
}

func (r *syncRun) invoiceOwner(ctx context.Context, inv *dto.RemoteInvoice) (*entity.Customer, error) {
	contactID := inv.Address.ContactID
	if contactID == "" {
		return nil, nil
	}
	c, err := r.customers.GetByRemoteID(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("buscar cliente %s: %w", contactID, err)
	}
	return c, nil
}

// upsertServiceRecord crea o actualiza la entrada de historial con clave = ID de la factura.
func (r *syncRun) upsertServiceRecord(ctx context.Context, inv *dto.RemoteInvoice, v dto.VoucherSummary, customer *entity.Customer) error {
	date := inv.VoucherDate
	if date.IsZero() {
		date = v.VoucherDate
	}
	number := inv.VoucherNumber
	if number == "" {
		number = v.VoucherNumber
	}
	description := "Rechnung " + number
	now := r.now()

	existing, err := r.services.GetByRemoteID(ctx, inv.ID)
	if err != nil {
		return fmt.Errorf("buscar historial: %w", err)
	}
	if existing != nil {
		existing.Date = date
		existing.Description = description
		existing.Cost = inv.TotalPrice.TotalGrossAmount
		existing.UpdatedAt = now
		if err := r.services.Update(ctx, existing); err != nil {
			return fmt.Errorf("actualizar historial %s: %w", existing.ID, err)
		}
		return nil
	}

	record := &entity.ServiceRecord{
		ID:          uuid.New().String(),
		RemoteID:    inv.ID,
		CustomerID:  customer.ID,
		Date:        date,
		Description: description,
		Cost:        inv.TotalPrice.TotalGrossAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.services.Create(ctx, record); err != nil {
		return fmt.Errorf("crear historial: %w", err)
	}
	return nil
}

// syncInvoiceDocument descarga el PDF de la factura si aún no existe un documento para ella.
// Cualquier fallo deja la factura sin documento y se reintenta en la próxima sincronización.
func (r *syncRun) syncInvoiceDocument(ctx context.Context, inv *dto.RemoteInvoice, customer *entity.Customer) error {
	existing, err := r.documents.GetByRemoteID(ctx, inv.ID)
	if err != nil {
		r.report.Documents.fail(inv.ID, fmt.Errorf("buscar documento: %w", err))
		r.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo comprobar el documento")
		return nil
	}
	if existing != nil {
		return nil
	}

	data, found, err := r.fetchInvoicePDF(ctx, inv.ID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		r.report.Documents.fail(inv.ID, err)
		r.log.Warn().Err(err).Str("invoice_id", inv.ID).Bool("rate_limited", isRateLimited(err)).Msg("no se pudo descargar el PDF")
		return nil
	}
	if !found {
		r.report.Documents.skip(inv.ID)
		return nil
	}

	number := inv.VoucherNumber
	if number == "" {
		number = inv.ID
	}
	filePath := path.Join(invoiceDir, uuid.New().String()+"_"+safeFileName(number)+".pdf")
	if err := r.files.Write(filePath, data); err != nil {
		r.report.Documents.fail(inv.ID, fmt.Errorf("guardar PDF: %w", err))
		r.log.Warn().Err(err).Str("invoice_id", inv.ID).Str("path", filePath).Msg("no se pudo guardar el PDF")
		return nil
	}

	doc := &entity.Document{
		ID:         uuid.New().String(),
		RemoteID:   inv.ID,
		CustomerID: customer.ID,
		Name:       "Rechnung " + number + ".pdf",
		Path:       filePath,
		Type:       entity.DocumentTypeInvoice,
		CreatedAt:  r.now(),
	}
	if err := r.documents.Create(ctx, doc); err != nil {
		r.report.Documents.fail(inv.ID, fmt.Errorf("crear documento: %w", err))
		r.log.Warn().Err(err).Str("invoice_id", inv.ID).Str("path", filePath).Msg("PDF guardado pero sin registro de documento")
		return nil
	}
	r.report.Documents.succeed(inv.ID)
	r.report.Summary.DocumentsDownloaded++
	return nil
}

// fetchInvoicePDF pide la referencia del PDF y luego el binario.
// found es false si la factura no tiene PDF renderizado.
func (r *syncRun) fetchInvoicePDF(ctx context.Context, invoiceID string) (data []byte, found bool, err error) {
	if err := r.wait(ctx, r.cfg.DocumentDelay); err != nil {
		return nil, false, err
	}
	ref, err := r.client.GetInvoiceDocument(ctx, invoiceID)
	if err != nil {
		return nil, false, fmt.Errorf("leer referencia del PDF: %w", err)
	}
	if ref == nil || ref.DocumentFileID == "" {
		return nil, false, nil
	}
	if err := r.wait(ctx, r.cfg.DocumentDelay); err != nil {
		return nil, false, err
	}
	data, err = r.client.DownloadFile(ctx, ref.DocumentFileID)
	if err != nil {
		return nil, false, fmt.Errorf("descargar PDF %s: %w", ref.DocumentFileID, err)
	}
	if len(data) == 0 {
		return nil, false, errors.New("PDF vacío")
	}
	return data, true, nil
}

// safeFileName deja solo letras, dígitos, '-' y '_'.
func safeFileName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
	if s == "" {
		return "invoice"
	}
	return s
}
