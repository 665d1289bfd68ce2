package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"puja-backend/internal/models"
)

type CouponRepository struct {
	DB *pgxpool.Pool
}

func NewCouponRepository(db *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{DB: db}
}

func (r *CouponRepository) Create(ctx context.Context, c *models.Coupon) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO coupons(code, discount_percent, max_discount, valid_from, valid_until, active)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at`,
		c.Code, c.DiscountPercent, c.MaxDiscount, c.ValidFrom, c.ValidUntil, c.Active,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := r.DB.QueryRow(ctx,
		`SELECT id, code, discount_percent, max_discount, valid_from, valid_until, active, created_at
         FROM coupons WHERE UPPER(code)=UPPER($1)`, code,
	).Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.MaxDiscount,
		&c.ValidFrom, &c.ValidUntil, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, code, discount_percent, max_discount, valid_from, valid_until, active, created_at
         FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []models.Coupon
	for rows.Next() {
		var c models.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.MaxDiscount,
			&c.ValidFrom, &c.ValidUntil, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *CouponRepository) SetActive(ctx context.Context, id int, active bool) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE coupons SET active=$1 WHERE id=$2`, active, id)
	return err
}

func (r *CouponRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM coupons WHERE id=$1`, id)
	return err
}

// IsValidAt reports whether the coupon is usable at the given instant.
func IsValidAt(c *models.Coupon, at time.Time) bool {
	return c.Active && !at.Before(c.ValidFrom) && !at.After(c.ValidUntil)
}
