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

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create persiste un documento.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	query := `
		INSERT INTO documents (id, remote_id, customer_id, name, path, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		d.ID, nullIfEmpty(d.RemoteID), d.CustomerID, d.Name, d.Path, d.Type, d.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByRemoteID obtiene el documento vinculado a una factura remota.
func (r *DocumentRepo) GetByRemoteID(ctx context.Context, remoteID string) (*entity.Document, error) {
	query := `
		SELECT id, remote_id, customer_id, name, path, type, created_at
		FROM documents WHERE remote_id = $1`
	var d entity.Document
	var rid *string
	err := r.q.QueryRow(ctx, query, remoteID).Scan(
		&d.ID, &rid, &d.CustomerID, &d.Name, &d.Path, &d.Type, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document by remote_id: %w", err)
	}
	d.RemoteID = derefStr(rid)
	return &d, nil
}
