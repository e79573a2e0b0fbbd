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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, remote_id, first_name, last_name, email, phone, address, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, nullIfEmpty(c.RemoteID), c.FirstName, c.LastName,
		nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Address),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Update actualiza todos los campos del cliente, incluido remote_id.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers
		SET remote_id = $2, first_name = $3, last_name = $4, email = $5, phone = $6, address = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, nullIfEmpty(c.RemoteID), c.FirstName, c.LastName,
		nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Address), c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByRemoteID obtiene el cliente vinculado a un contacto remoto.
func (r *CustomerRepo) GetByRemoteID(ctx context.Context, remoteID string) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE remote_id = $1`, remoteID)
}

// GetByEmail obtiene el cliente más antiguo con ese email.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return r.getOne(ctx, `
		SELECT `+customerColumns+` FROM customers
		WHERE email = $1 ORDER BY created_at, id LIMIT 1`, email)
}

// ListWithoutRemoteID lista los clientes sin vincular, más antiguos primero.
func (r *CustomerRepo) ListWithoutRemoteID(ctx context.Context) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+customerColumns+` FROM customers
		WHERE remote_id IS NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list customers without remote_id: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// SetRemoteID vincula el cliente con su contacto remoto.
func (r *CustomerRepo) SetRemoteID(ctx context.Context, id, remoteID string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE customers SET remote_id = $2, updated_at = now() WHERE id = $1`, id, remoteID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("set customer remote_id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) getOne(ctx context.Context, query string, arg any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var remoteID, email, phone, address *string
	if err := row.Scan(
		&c.ID, &remoteID, &c.FirstName, &c.LastName, &email, &phone, &address, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.RemoteID = derefStr(remoteID)
	c.Email = derefStr(email)
	c.Phone = derefStr(phone)
	c.Address = derefStr(address)
	return &c, nil
}
