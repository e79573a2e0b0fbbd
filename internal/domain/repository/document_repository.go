package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// DocumentRepository define el puerto de persistencia para documentos de clientes.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByRemoteID(ctx context.Context, remoteID string) (*entity.Document, error)
}
