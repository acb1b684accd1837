package mysql

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/bryanwahyu/millwatt/internal/domain/identity"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, u *domain.User) error {
	const q = `
INSERT INTO users
  (uid, email, password_hash, full_name, company_name, industry_type, created_at)
VALUES (?,?,?,?,?,?,?)
`
	_, err := r.db.ExecContext(ctx, q,
		u.UID, u.Email, u.PasswordHash, u.FullName, u.CompanyName, u.IndustryType, u.CreatedAt,
	)
	return err
}

const selectUser = `
SELECT uid, email, password_hash, full_name, company_name, industry_type, created_at
FROM users
`

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.FullName, &u.CompanyName, &u.IndustryType, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetUser(ctx context.Context, uid string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+`WHERE uid=? LIMIT 1;`, uid))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+`WHERE email=? LIMIT 1;`, email))
}

func (r *UserRepository) UpdateCompanyFields(ctx context.Context, uid, companyName, industryType string) error {
	const q = `UPDATE users SET company_name=?, industry_type=? WHERE uid=?;`
	_, err := r.db.ExecContext(ctx, q, companyName, industryType, uid)
	return err
}

func (r *UserRepository) DeleteUser(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE uid=?;`, uid)
	return err
}

func (r *UserRepository) GetCompany(ctx context.Context, uid string) (*domain.Company, error) {
	const q = `
SELECT uid, company_name, gstin, industry_type, machine_count, shift_timings, updated_at
FROM companies
WHERE uid=? LIMIT 1;
`
	var c domain.Company
	err := r.db.QueryRowContext(ctx, q, uid).Scan(
		&c.UID, &c.CompanyName, &c.GSTIN, &c.IndustryType, &c.MachineCount, &c.ShiftTimings, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *UserRepository) SaveCompany(ctx context.Context, c *domain.Company) error {
	const q = `
INSERT INTO companies
  (uid, company_name, gstin, industry_type, machine_count, shift_timings, updated_at)
VALUES (?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  company_name=VALUES(company_name), gstin=VALUES(gstin), industry_type=VALUES(industry_type),
  machine_count=VALUES(machine_count), shift_timings=VALUES(shift_timings), updated_at=VALUES(updated_at);
`
	_, err := r.db.ExecContext(ctx, q,
		c.UID, c.CompanyName, c.GSTIN, c.IndustryType, c.MachineCount, c.ShiftTimings, c.UpdatedAt,
	)
	return err
}

func (r *UserRepository) DeleteCompany(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE uid=?;`, uid)
	return err
}
