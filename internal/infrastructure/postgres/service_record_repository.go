package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.ServiceRecordRepository = (*ServiceRecordRepo)(nil)

// ServiceRecordRepo implementación de ServiceRecordRepository.
type ServiceRecordRepo struct {
	q Querier
}

// NewServiceRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRecordRepository(q Querier) *ServiceRecordRepo {
	return &ServiceRecordRepo{q: q}
}

// Create persiste una entrada de historial. cost es NUMERIC (codec shopspring registrado en el pool).
func (r *ServiceRecordRepo) Create(ctx context.Context, s *entity.ServiceRecord) error {
	query := `
		INSERT INTO service_records (id, remote_id, customer_id, vehicle_id, date, description, cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, nullIfEmpty(s.RemoteID), s.CustomerID, nullIfEmpty(s.VehicleID),
		s.Date, s.Description, s.Cost, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert service_record: %w", err)
	}
	return nil
}

// Update actualiza fecha, descripción y costo.
func (r *ServiceRecordRepo) Update(ctx context.Context, s *entity.ServiceRecord) error {
	query := `
		UPDATE service_records SET date = $2, description = $3, cost = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Date, s.Description, s.Cost, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update service_record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByRemoteID obtiene la entrada vinculada a una factura remota.
func (r *ServiceRecordRepo) GetByRemoteID(ctx context.Context, remoteID string) (*entity.ServiceRecord, error) {
	query := `
		SELECT id, remote_id, customer_id, vehicle_id, date, description, cost, created_at, updated_at
		FROM service_records WHERE remote_id = $1`
	var s entity.ServiceRecord
	var rid, vehicleID *string
	err := r.q.QueryRow(ctx, query, remoteID).Scan(
		&s.ID, &rid, &s.CustomerID, &vehicleID, &s.Date, &s.Description, &s.Cost, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service_record by remote_id: %w", err)
	}
	s.RemoteID = derefStr(rid)
	s.VehicleID = derefStr(vehicleID)
	return &s, nil
}
