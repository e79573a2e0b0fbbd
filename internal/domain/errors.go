package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound  = errors.New("recurso no encontrado")
	ErrDuplicate = errors.New("recurso duplicado")

	// Sincronización con el sistema contable externo.
	ErrAccountingNotConfigured = errors.New("contabilidad: no hay API key configurada")
	ErrAccountingUnavailable   = errors.New("contabilidad: servicio remoto no disponible")
	ErrSyncInProgress          = errors.New("contabilidad: ya hay una sincronización en curso")
)
