package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Las consultas Get* devuelven (nil, nil) si no hay coincidencia.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	Update(ctx context.Context, customer *entity.Customer) error
	GetByRemoteID(ctx context.Context, remoteID string) (*entity.Customer, error)

	// GetByEmail devuelve el primer cliente (por fecha de creación) con ese email.
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)

	// ListWithoutRemoteID lista los clientes aún no vinculados al sistema contable.
	ListWithoutRemoteID(ctx context.Context) ([]*entity.Customer, error)

	// SetRemoteID vincula el cliente con su contacto remoto.
	// Devuelve domain.ErrDuplicate si otro cliente ya tiene ese remoteID.
	SetRemoteID(ctx context.Context, id, remoteID string) error
}
