package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"puja-backend/internal/models"
)

// TempleRepository manages the standalone temple directory. Listing
// temple fields stay denormalized on pujas; this table feeds the
// directory pages only.
type TempleRepository struct {
	DB *pgxpool.Pool
}

func NewTempleRepository(db *pgxpool.Pool) *TempleRepository {
	return &TempleRepository{DB: db}
}

func (r *TempleRepository) Create(ctx context.Context, t *models.Temple) error {
	if t.Status == "" {
		t.Status = models.StatusActive
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO temples(name, location, description, image_url, status)
         VALUES($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`,
		t.Name, t.Location, t.Description, t.ImageURL, t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TempleRepository) List(ctx context.Context) ([]models.Temple, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, location, description, image_url, status, created_at, updated_at
         FROM temples WHERE status=$1 ORDER BY name`, models.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var temples []models.Temple
	for rows.Next() {
		var t models.Temple
		if err := rows.Scan(&t.ID, &t.Name, &t.Location, &t.Description,
			&t.ImageURL, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		temples = append(temples, t)
	}
	return temples, rows.Err()
}

func (r *TempleRepository) Update(ctx context.Context, t *models.Temple) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE temples SET
            name=COALESCE(NULLIF($1,''), name),
            location=COALESCE(NULLIF($2,''), location),
            description=COALESCE(NULLIF($3,''), description),
            image_url=COALESCE(NULLIF($4,''), image_url),
            status=COALESCE(NULLIF($5,''), status),
            updated_at=NOW()
         WHERE id=$6`,
		t.Name, t.Location, t.Description, t.ImageURL, t.Status, t.ID)
	return err
}

func (r *TempleRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM temples WHERE id=$1`, id)
	return err
}

type CarouselRepository struct {
	DB *pgxpool.Pool
}

func NewCarouselRepository(db *pgxpool.Pool) *CarouselRepository {
	return &CarouselRepository{DB: db}
}

func (r *CarouselRepository) Create(ctx context.Context, s *models.CarouselSlide) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO carousel_slides(title, image_url, link_url, position, active)
         VALUES($1, $2, $3, $4, $5) RETURNING id, created_at`,
		s.Title, s.ImageURL, s.LinkURL, s.Position, s.Active,
	).Scan(&s.ID, &s.CreatedAt)
}

// ListActive returns slides in display order for the public homepage.
func (r *CarouselRepository) ListActive(ctx context.Context) ([]models.CarouselSlide, error) {
	return r.list(ctx, `WHERE active ORDER BY position, id`)
}

func (r *CarouselRepository) ListAll(ctx context.Context) ([]models.CarouselSlide, error) {
	return r.list(ctx, `ORDER BY position, id`)
}

func (r *CarouselRepository) list(ctx context.Context, tail string) ([]models.CarouselSlide, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, title, image_url, link_url, position, active, created_at
         FROM carousel_slides `+tail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slides []models.CarouselSlide
	for rows.Next() {
		var s models.CarouselSlide
		if err := rows.Scan(&s.ID, &s.Title, &s.ImageURL, &s.LinkURL,
			&s.Position, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		slides = append(slides, s)
	}
	return slides, rows.Err()
}

// Update patches a slide. Nil fields and an empty image URL leave the
// stored values alone.
func (r *CarouselRepository) Update(ctx context.Context, id int, u *models.CarouselSlideUpdate) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE carousel_slides SET
            title=COALESCE($1, title),
            image_url=COALESCE(NULLIF($2,''), image_url),
            link_url=COALESCE($3, link_url),
            position=COALESCE($4, position),
            active=COALESCE($5, active)
         WHERE id=$6`,
		u.Title, u.ImageURL, u.LinkURL, u.Position, u.Active, id)
	return err
}

func (r *CarouselRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM carousel_slides WHERE id=$1`, id)
	return err
}

type FeedbackRepository struct {
	DB *pgxpool.Pool
}

func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO feedback(name, email, phone, message, rating)
         VALUES($1, $2, $3, $4, $5) RETURNING id, created_at`,
		f.Name, f.Email, f.Phone, f.Message, f.Rating,
	).Scan(&f.ID, &f.CreatedAt)
}

func (r *FeedbackRepository) List(ctx context.Context) ([]models.Feedback, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, email, phone, message, rating, created_at
         FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.Phone,
			&f.Message, &f.Rating, &f.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
