package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hr-crm/pkg/company"
	"github.com/artem13815/hr-crm/pkg/filter"
)

type CompanyRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

const companyColumns = `c.id, c.company_title, c.about_company, c.company_address, c.website,
	c.email, c.phone_number, c.link_hr, c.logo, c.created_at`

func scanCompany(r row) (company.Company, error) {
	var c company.Company
	err := r.Scan(&c.ID, &c.Title, &c.About, &c.Address, &c.Website,
		&c.Email, &c.Phone, &c.LinkHR, &c.Logo, &c.CreatedAt)
	c.CreatedAt = c.CreatedAt.UTC()
	return c, err
}

func (r *CompanyRepository) Create(ctx context.Context, c company.Company) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO companies (id, company_title, about_company, company_address, website,
			email, phone_number, link_hr, logo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.ID, c.Title, c.About, c.Address, c.Website, c.Email, c.Phone, c.LinkHR, c.Logo, c.CreatedAt)
	return err
}

func (r *CompanyRepository) Get(ctx context.Context, id uuid.UUID) (company.Company, error) {
	c, err := scanCompany(r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies c WHERE c.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return company.Company{}, company.ErrNotFound
	}
	return c, err
}

func (r *CompanyRepository) List(ctx context.Context, q *filter.Query) ([]company.Company, error) {
	query, args := q.SQL(`SELECT ` + companyColumns + ` FROM companies c`)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []company.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CompanyRepository) Update(ctx context.Context, c company.Company) error {
	return r.exec(ctx, `
		UPDATE companies SET company_title = $2, about_company = $3, company_address = $4,
			website = $5, email = $6, phone_number = $7, link_hr = $8
		WHERE id = $1
	`, c.ID, c.Title, c.About, c.Address, c.Website, c.Email, c.Phone, c.LinkHR)
}

func (r *CompanyRepository) SetLogo(ctx context.Context, id uuid.UUID, logo string) error {
	return r.exec(ctx, `UPDATE companies SET logo = $2 WHERE id = $1`, id, logo)
}

// Delete cascades to the company's vacancies and their candidates.
func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
}

func (r *CompanyRepository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return company.ErrNotFound
	}
	return nil
}
