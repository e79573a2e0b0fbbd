package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.AccountingSettingsRepository = (*AccountingSettingsRepo)(nil)

// AccountingSettingsRepo registro único (id = 1) de configuración contable.
type AccountingSettingsRepo struct {
	q Querier
}

// NewAccountingSettingsRepository construye el adaptador.
func NewAccountingSettingsRepository(q Querier) *AccountingSettingsRepo {
	return &AccountingSettingsRepo{q: q}
}

// Get devuelve (nil, nil) si aún no se ha guardado nada.
func (r *AccountingSettingsRepo) Get(ctx context.Context) (*entity.AccountingSettings, error) {
	var s entity.AccountingSettings
	var apiKey *string
	err := r.q.QueryRow(ctx,
		`SELECT api_key, last_sync_at, updated_at FROM accounting_settings WHERE id = 1`,
	).Scan(&apiKey, &s.LastSyncAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get accounting_settings: %w", err)
	}
	s.APIKey = derefStr(apiKey)
	return &s, nil
}

// SaveAPIKey guarda (o reemplaza) la API key.
func (r *AccountingSettingsRepo) SaveAPIKey(ctx context.Context, apiKey string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO accounting_settings (id, api_key, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET api_key = EXCLUDED.api_key, updated_at = now()`,
		nullIfEmpty(apiKey))
	if err != nil {
		return fmt.Errorf("save accounting api_key: %w", err)
	}
	return nil
}

// SetLastSyncAt actualiza la marca de última sincronización.
func (r *AccountingSettingsRepo) SetLastSyncAt(ctx context.Context, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO accounting_settings (id, last_sync_at, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET last_sync_at = EXCLUDED.last_sync_at, updated_at = now()`,
		at)
	if err != nil {
		return fmt.Errorf("set accounting last_sync_at: %w", err)
	}
	return nil
}
