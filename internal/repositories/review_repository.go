package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"puja-backend/internal/models"
)

type ReviewRepository struct {
	DB *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

// Upsert writes the user's review for a puja. One review per
// (puja, user); a second submission replaces the first.
func (r *ReviewRepository) Upsert(ctx context.Context, pujaCode string, userID, rating int, comment string) (*models.Review, error) {
	var pujaID int
	err := r.DB.QueryRow(ctx,
		`SELECT id FROM pujas WHERE puja_code=$1`, pujaCode).Scan(&pujaID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{PujaID: pujaID, UserID: userID, Rating: rating, Comment: comment}
	err = r.DB.QueryRow(ctx,
		`INSERT INTO reviews(puja_id, user_id, rating, comment) VALUES($1, $2, $3, $4)
         ON CONFLICT (puja_id, user_id)
         DO UPDATE SET rating=EXCLUDED.rating, comment=EXCLUDED.comment
         RETURNING id, created_at`,
		pujaID, userID, rating, comment).Scan(&review.ID, &review.CreatedAt)
	return review, err
}

func (r *ReviewRepository) ListByPuja(ctx context.Context, pujaCode string) ([]models.Review, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT r.id, r.puja_id, r.user_id, u.name, r.rating, r.comment, r.created_at
         FROM reviews r
         JOIN pujas p ON p.id = r.puja_id
         JOIN users u ON u.id = r.user_id
         WHERE p.puja_code=$1
         ORDER BY r.created_at DESC`, pujaCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.PujaID, &rv.UserID, &rv.UserName,
			&rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
