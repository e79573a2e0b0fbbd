package accounting

import (
	"context"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain"
)

// resolveAPIKey lee la credencial única. Sin credencial la sincronización no arranca.
func (e *Engine) resolveAPIKey(ctx context.Context) (string, error) {
	settings, err := e.settings.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("leer configuración contable: %w", err)
	}
	if !settings.HasCredential() {
		return "", domain.ErrAccountingNotConfigured
	}
	return settings.APIKey, nil
}
