package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// AccountingSettingsRepository acceso al registro único de configuración contable.
type AccountingSettingsRepository interface {
	// Get devuelve (nil, nil) si el registro aún no existe.
	Get(ctx context.Context) (*entity.AccountingSettings, error)
	SaveAPIKey(ctx context.Context, apiKey string) error
	SetLastSyncAt(ctx context.Context, at time.Time) error
}
