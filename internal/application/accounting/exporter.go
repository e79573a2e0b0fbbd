package accounting

import (
	"context"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// exportCustomers crea en remoto los clientes locales sin vincular.
// Un fallo individual no detiene el lote. Tras un alta correcta el remoteID queda
// guardado, así que cada cliente se exporta como mucho una vez.
func (r *syncRun) exportCustomers(ctx context.Context) error {
	pending, err := r.customers.ListWithoutRemoteID(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("no se pudieron listar clientes sin vincular")
		r.report.Export.fail("*", fmt.Errorf("listar clientes sin remote_id: %w", err))
		return nil
	}
	candidates := exportCandidates(pending)
	r.log.Info().Int("candidates", len(candidates)).Int("unlinked", len(pending)).Msg("exportando clientes")

	for _, c := range candidates {
		if err := r.wait(ctx, r.cfg.ExportDelay); err != nil {
			return err
		}
		remoteID, err := r.exportCustomer(ctx, c)
		if err != nil {
			r.report.Export.fail(c.ID, err)
			r.log.Warn().Err(err).Str("customer_id", c.ID).Bool("rate_limited", isRateLimited(err)).Msg("no se pudo exportar el cliente")
			continue
		}
		r.report.Export.succeed(c.ID)
		r.report.Summary.ExportedCount++
		r.log.Debug().Str("customer_id", c.ID).Str("remote_id", remoteID).Msg("cliente exportado")
	}
	return nil
}

func (r *syncRun) exportCustomer(ctx context.Context, c *entity.Customer) (string, error) {
	created, err := r.client.CreateContact(ctx, buildContactPayload(c, r.cfg.CountryCode))
	if err != nil {
		return "", fmt.Errorf("crear contacto remoto: %w", err)
	}
	if created == nil || created.ID == "" {
		return "", fmt.Errorf("crear contacto remoto: respuesta sin id")
	}
	if err := r.customers.SetRemoteID(ctx, c.ID, created.ID); err != nil {
		// El contacto ya existe en remoto; la próxima importación lo enlazará por email si lo tiene.
		return "", fmt.Errorf("guardar remote_id %s: %w", created.ID, err)
	}
	return created.ID, nil
}

// exportCandidates filtra los clientes sin datos de persona fiables
// (apellido vacío o marcador de empresa) y los ya vinculados.
func exportCandidates(customers []*entity.Customer) []*entity.Customer {
	out := make([]*entity.Customer, 0, len(customers))
	for _, c := range customers {
		if c != nil && c.IsExportable() {
			out = append(out, c)
		}
	}
	return out
}

// buildContactPayload construye el contacto remoto (rol cliente) a partir del cliente local.
func buildContactPayload(c *entity.Customer, countryCode string) *dto.RemoteContact {
	payload := &dto.RemoteContact{
		Version: 0,
		Roles:   &dto.ContactRoles{Customer: &dto.ContactRole{}},
		Person: &dto.ContactPerson{
			FirstName: c.FirstName,
			LastName:  c.LastName,
		},
	}
	if addr := ParseAddress(c.Address); addr.Street != "" {
		payload.Addresses = &dto.ContactAddresses{
			Billing: []dto.PostalAddress{{
				Street:      addr.Street,
				Zip:         addr.Zip,
				City:        addr.City,
				CountryCode: countryCode,
			}},
		}
	}
	if c.Email != "" {
		payload.EmailAddresses = &dto.ContactEmails{Business: []string{c.Email}}
	}
	if c.Phone != "" {
		payload.PhoneNumbers = &dto.ContactPhones{Mobile: []string{c.Phone}}
	}
	return payload
}
