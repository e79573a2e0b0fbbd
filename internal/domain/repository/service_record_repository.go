package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ServiceRecordRepository define el puerto de persistencia para el historial de servicio.
type ServiceRecordRepository interface {
	Create(ctx context.Context, record *entity.ServiceRecord) error
	// Update actualiza fecha, descripción y costo.
	Update(ctx context.Context, record *entity.ServiceRecord) error
	GetByRemoteID(ctx context.Context, remoteID string) (*entity.ServiceRecord, error)
}
