package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"puja-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a user with a generated sequential user code (KSB1001,
// KSB1002, ...).
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Status == "" {
		u.Status = models.StatusActive
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO users(user_code, phone, name, email, password_hash, otp_verified, status)
         VALUES('KSB' || nextval('user_code_seq'), $1, $2, $3, $4, $5, $6)
         RETURNING id, user_code, created_at, updated_at`,
		u.Phone, u.Name, u.Email, u.PasswordHash, u.OTPVerified, u.Status,
	).Scan(&u.ID, &u.UserCode, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, user_code, phone, name, email, password_hash, otp_verified, status, created_at, updated_at
         FROM users WHERE id=$1`, id)

	var u models.User
	err := row.Scan(&u.ID, &u.UserCode, &u.Phone, &u.Name, &u.Email,
		&u.PasswordHash, &u.OTPVerified, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, user_code, phone, name, email, password_hash, otp_verified, status, created_at, updated_at
         FROM users WHERE phone=$1`, phone)

	var u models.User
	err := row.Scan(&u.ID, &u.UserCode, &u.Phone, &u.Name, &u.Email,
		&u.PasswordHash, &u.OTPVerified, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) MarkOTPVerified(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET otp_verified=TRUE, updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`, passwordHash, id)
	return err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int, name, email string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET name=$1, email=$2, updated_at=NOW() WHERE id=$3`, name, email, id)
	return err
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
