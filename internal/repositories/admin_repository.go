package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"puja-backend/internal/models"
)

type AdminRepository struct {
	DB *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) Create(ctx context.Context, a *models.AdminUser) error {
	if a.Role == "" {
		a.Role = "admin"
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO admin_users(name, email, password_hash, role)
         VALUES($1, $2, $3, $4)
         RETURNING id, created_at, updated_at`,
		a.Name, a.Email, a.PasswordHash, a.Role,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AdminRepository) Get(ctx context.Context, id int) (*models.AdminUser, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, totp_secret, totp_enabled, created_at, updated_at
         FROM admin_users WHERE id=$1`, id)

	var a models.AdminUser
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role,
		&a.TOTPSecret, &a.TOTPEnabled, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, totp_secret, totp_enabled, created_at, updated_at
         FROM admin_users WHERE email=$1`, email)

	var a models.AdminUser
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role,
		&a.TOTPSecret, &a.TOTPEnabled, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SetTOTPSecret stores a provisioned secret before it is confirmed.
func (r *AdminRepository) SetTOTPSecret(ctx context.Context, id int, secret string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE admin_users SET totp_secret=$1, totp_enabled=FALSE, updated_at=NOW() WHERE id=$2`,
		secret, id)
	return err
}

// EnableTOTP flips 2FA on after the first code verified.
func (r *AdminRepository) EnableTOTP(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE admin_users SET totp_enabled=TRUE, updated_at=NOW() WHERE id=$1`, id)
	return err
}
