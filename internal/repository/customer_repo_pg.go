package repository

import (
	"context"

	"github.com/agsexpress/backoffice/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

type PGCustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) CustomerRepository {
	return &PGCustomerRepository{db: db}
}

func (r *PGCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, gst_number, phone, address, created_at, updated_at FROM customers WHERE id=$1`, id)
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.GSTNumber, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

var _ CustomerRepository = (*PGCustomerRepository)(nil)
