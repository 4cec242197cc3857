package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rainline/rainline/internal/platform/httpx"
)

// ErrNotFound indicates the customer does not exist.
var ErrNotFound = fmt.Errorf("%w: customer", httpx.ErrNotFound)

// Repository reads customer rows for invoice joins and FK verification.
type Repository interface {
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, limit, offset int) ([]Customer, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const customerColumns = `id, company_name, contact_person, email, phone, address, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Customer, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM customers WHERE id = $1`, customerColumns), id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("customers: get %d: %w", id, err)
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Customer, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM customers ORDER BY company_name, id LIMIT $1 OFFSET $2`, customerColumns),
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("customers: list: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("customers: list scan: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	var email, phone, address pgtype.Text
	if err := row.Scan(&c.ID, &c.CompanyName, &c.ContactPerson, &email, &phone, &address,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	if address.Valid {
		c.Address = &address.String
	}
	return &c, nil
}
