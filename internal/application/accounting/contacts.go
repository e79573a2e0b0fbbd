package accounting

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// importContacts lee todos los contactos remotos y los concilia con los clientes locales.
// Un fallo de paginación es fatal: un conjunto parcial de contactos dejaría clientes sin
// vincular que luego se exportarían como duplicados.
func (r *syncRun) importContacts(ctx context.Context) error {
	paged, err := collectPages(ctx, r.cfg.PageSize, r.cfg.MaxPages, r.client.ListContacts)
	if err != nil {
		return fmt.Errorf("%w: contactos: %w", domain.ErrAccountingUnavailable, err)
	}
	r.report.ContactPagesCapped = paged.Capped
	if paged.Capped {
		r.log.Warn().Int("pages", paged.Pages).Msg("tope de páginas de contactos alcanzado")
	}
	r.log.Info().Int("contacts", len(paged.Items)).Int("pages", paged.Pages).Msg("contactos remotos leídos")

	for _, c := range paged.Items {
		if err := ctx.Err(); err != nil {
			return err
		}
		created, err := r.reconcileContact(ctx, c)
		if err != nil {
			r.report.Contacts.fail(c.ID, err)
			r.log.Warn().Err(err).Str("contact_id", c.ID).Msg("no se pudo conciliar el contacto")
			continue
		}
		r.report.Contacts.succeed(c.ID)
		if created {
			r.report.Summary.SyncedCount++
		} else {
			r.report.Summary.UpdatedCount++
		}
	}
	return nil
}

// reconcileContact busca el cliente por remoteID y, si no existe, por email.
// Con coincidencia sobrescribe los campos y fija el remoteID; sin ella crea el cliente.
func (r *syncRun) reconcileContact(ctx context.Context, c dto.RemoteContact) (created bool, err error) {
	if c.ID == "" {
		return false, errors.New("contacto remoto sin id")
	}
	fields := mapContact(c)

	existing, err := r.customers.GetByRemoteID(ctx, c.ID)
	if err != nil {
		return false, fmt.Errorf("buscar cliente por remote_id: %w", err)
	}
	if existing == nil && fields.Email != "" {
		existing, err = r.customers.GetByEmail(ctx, fields.Email)
		if err != nil {
			return false, fmt.Errorf("buscar cliente por email: %w", err)
		}
	}

	now := r.now()
	if existing != nil {
		fields.applyTo(existing)
		existing.RemoteID = c.ID
		existing.UpdatedAt = now
		if err := r.customers.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("actualizar cliente %s: %w", existing.ID, err)
		}
		return false, nil
	}

	customer := &entity.Customer{
		ID:        uuid.New().String(),
		RemoteID:  c.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields.applyTo(customer)
	if err := r.customers.Create(ctx, customer); err != nil {
		return false, fmt.Errorf("crear cliente: %w", err)
	}
	return true, nil
}
