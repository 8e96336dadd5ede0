package repository

import (
	"context"

	"github.com/agsexpress/backoffice/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Company, error)
}

type PGCompanyRepository struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) CompanyRepository {
	return &PGCompanyRepository{db: db}
}

func (r *PGCompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, gst_number, address, created_at, updated_at FROM companies WHERE id=$1`, id)
	var c domain.Company
	if err := row.Scan(&c.ID, &c.Name, &c.GSTNumber, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

var _ CompanyRepository = (*PGCompanyRepository)(nil)
