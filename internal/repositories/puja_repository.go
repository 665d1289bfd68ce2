package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"puja-backend/internal/models"
)

type PujaRepository struct {
	DB *pgxpool.Pool
}

func NewPujaRepository(db *pgxpool.Pool) *PujaRepository {
	return &PujaRepository{DB: db}
}

// CreatePuja persists a listing and all its nested rows in a single
// transaction. Any failure rolls the whole listing back; partial
// writes are never visible. Puja and package codes come from database
// sequences inside the transaction.
func (r *PujaRepository) CreatePuja(
	ctx context.Context,
	puja *models.Puja,
	dates []time.Time,
	packages []models.PujaPackage,
	benefits []models.PujaBenefit,
	media []models.PujaMedia,
) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if puja.Status == "" {
		puja.Status = models.StatusActive
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO pujas(puja_code, name, description, temple_name, temple_location, temple_image_url, thumbnail_url, status)
         VALUES('KSP' || nextval('puja_code_seq'), $1, $2, $3, $4, $5, $6, $7)
         RETURNING id, puja_code, created_at, updated_at`,
		puja.Name, puja.Description, puja.TempleName, puja.TempleLocation,
		puja.TempleImageURL, puja.ThumbnailURL, puja.Status,
	).Scan(&puja.ID, &puja.PujaCode, &puja.CreatedAt, &puja.UpdatedAt)
	if err != nil {
		return err
	}

	for _, d := range dates {
		if _, err := tx.Exec(ctx,
			`INSERT INTO puja_dates(puja_id, puja_date) VALUES($1, $2)`, puja.ID, d); err != nil {
			return err
		}
	}

	if err := insertPackages(ctx, tx, puja.ID, packages); err != nil {
		return err
	}

	for _, b := range benefits {
		if _, err := tx.Exec(ctx,
			`INSERT INTO puja_benefits(puja_id, title, description) VALUES($1, $2, $3)`,
			puja.ID, b.Title, b.Description); err != nil {
			return err
		}
	}

	for _, m := range media {
		if _, err := tx.Exec(ctx,
			`INSERT INTO puja_media(puja_id, media_type, url) VALUES($1, $2, $3)`,
			puja.ID, m.MediaType, m.URL); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func insertPackages(ctx context.Context, tx pgx.Tx, pujaID int, packages []models.PujaPackage) error {
	for i := range packages {
		p := &packages[i]
		err := tx.QueryRow(ctx,
			`INSERT INTO puja_packages(package_code, puja_id, package_name, puja_date, price, max_devotees, description)
             VALUES('KSPKG' || nextval('package_code_seq'), $1, $2, $3, $4, $5, $6)
             RETURNING id, package_code`,
			pujaID, p.PackageName, p.PujaDate, p.Price, p.MaxDevotees, p.Description,
		).Scan(&p.ID, &p.PackageCode)
		if err != nil {
			return err
		}
		for _, f := range p.Features {
			if _, err := tx.Exec(ctx,
				`INSERT INTO package_features(package_id, feature) VALUES($1, $2)`, p.ID, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdatePuja updates listing scalars, replaces the benefits set
// wholesale, deletes the named media rows and appends new ones.
// Untouched media is preserved.
func (r *PujaRepository) UpdatePuja(
	ctx context.Context,
	code string,
	req *models.UpdatePujaRequest,
	templeImageURL, thumbnailURL string,
	newMedia []models.PujaMedia,
) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var pujaID int
	err = tx.QueryRow(ctx,
		`UPDATE pujas SET
            name=COALESCE(NULLIF($1,''), name),
            description=COALESCE(NULLIF($2,''), description),
            temple_name=COALESCE(NULLIF($3,''), temple_name),
            temple_location=COALESCE(NULLIF($4,''), temple_location),
            temple_image_url=COALESCE(NULLIF($5,''), temple_image_url),
            thumbnail_url=COALESCE(NULLIF($6,''), thumbnail_url),
            status=COALESCE(NULLIF($7,''), status),
            updated_at=NOW()
         WHERE puja_code=$8
         RETURNING id`,
		req.Name, req.Description, req.TempleName, req.TempleLocation,
		templeImageURL, thumbnailURL, req.Status, code,
	).Scan(&pujaID)
	if err != nil {
		return err
	}

	// Benefits replace wholesale: destroy then recreate
	if _, err := tx.Exec(ctx, `DELETE FROM puja_benefits WHERE puja_id=$1`, pujaID); err != nil {
		return err
	}
	for _, b := range req.Benefits {
		if _, err := tx.Exec(ctx,
			`INSERT INTO puja_benefits(puja_id, title, description) VALUES($1, $2, $3)`,
			pujaID, b.Title, b.Description); err != nil {
			return err
		}
	}

	for _, mediaID := range req.DeleteMediaIDs {
		if _, err := tx.Exec(ctx,
			`DELETE FROM puja_media WHERE id=$1 AND puja_id=$2`, mediaID, pujaID); err != nil {
			return err
		}
	}

	for _, m := range newMedia {
		if _, err := tx.Exec(ctx,
			`INSERT INTO puja_media(puja_id, media_type, url) VALUES($1, $2, $3)`,
			pujaID, m.MediaType, m.URL); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ReconcilePackagesAndDates inserts new dates, removes dates no longer
// present (and their packages), and upserts packages per
// (puja, date, package_name), replacing each package's feature list.
func (r *PujaRepository) ReconcilePackagesAndDates(
	ctx context.Context,
	code string,
	dates []time.Time,
	packages []models.PujaPackage,
) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var pujaID int
	if err := tx.QueryRow(ctx,
		`SELECT id FROM pujas WHERE puja_code=$1`, code).Scan(&pujaID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM puja_dates WHERE puja_id=$1 AND NOT (puja_date = ANY($2))`,
		pujaID, dates); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM puja_packages WHERE puja_id=$1 AND NOT (puja_date = ANY($2))`,
		pujaID, dates); err != nil {
		return err
	}
	for _, d := range dates {
		if _, err := tx.Exec(ctx,
			`INSERT INTO puja_dates(puja_id, puja_date) VALUES($1, $2)
             ON CONFLICT (puja_id, puja_date) DO NOTHING`, pujaID, d); err != nil {
			return err
		}
	}

	for i := range packages {
		p := &packages[i]
		err := tx.QueryRow(ctx,
			`INSERT INTO puja_packages(package_code, puja_id, package_name, puja_date, price, max_devotees, description)
             VALUES('KSPKG' || nextval('package_code_seq'), $1, $2, $3, $4, $5, $6)
             ON CONFLICT (puja_id, puja_date, package_name)
             DO UPDATE SET price=EXCLUDED.price, max_devotees=EXCLUDED.max_devotees, description=EXCLUDED.description
             RETURNING id, package_code`,
			pujaID, p.PackageName, p.PujaDate, p.Price, p.MaxDevotees, p.Description,
		).Scan(&p.ID, &p.PackageCode)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM package_features WHERE package_id=$1`, p.ID); err != nil {
			return err
		}
		for _, f := range p.Features {
			if _, err := tx.Exec(ctx,
				`INSERT INTO package_features(package_id, feature) VALUES($1, $2)`, p.ID, f); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// ListCards serves every list projection through one parameterized
// query: status filter plus limit/offset pagination. Aggregates come
// from grouped-count subquery joins; price-from and next-date both
// consider upcoming dates only so the card stays self-consistent.
func (r *PujaRepository) ListCards(ctx context.Context, status string, limit, offset int) ([]models.PujaCard, int, error) {
	rows, err := r.DB.Query(ctx, `
        SELECT p.puja_code, p.name, p.temple_name, p.temple_location, p.thumbnail_url, p.status,
               COALESCE(MIN(pk.price) FILTER (WHERE pk.puja_date >= CURRENT_DATE), 0),
               MIN(pd.puja_date) FILTER (WHERE pd.puja_date >= CURRENT_DATE),
               COALESCE(MAX(b.cnt), 0),
               COALESCE(MAX(rv.avg_rating), 0),
               COALESCE(MAX(rv.cnt), 0)
        FROM pujas p
        LEFT JOIN puja_packages pk ON pk.puja_id = p.id
        LEFT JOIN puja_dates pd ON pd.puja_id = p.id
        LEFT JOIN (SELECT puja_id, COUNT(*) AS cnt FROM bookings GROUP BY puja_id) b ON b.puja_id = p.id
        LEFT JOIN (SELECT puja_id, AVG(rating)::float8 AS avg_rating, COUNT(*) AS cnt FROM reviews GROUP BY puja_id) rv ON rv.puja_id = p.id
        WHERE ($1 = '' OR p.status = $1)
        GROUP BY p.id
        ORDER BY p.created_at DESC
        LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cards []models.PujaCard
	for rows.Next() {
		var c models.PujaCard
		var nextDate *time.Time
		if err := rows.Scan(&c.PujaCode, &c.Name, &c.TempleName, &c.TempleLocation,
			&c.ThumbnailURL, &c.Status, &c.PriceFrom, &nextDate,
			&c.TotalBookings, &c.TotalRating, &c.ReviewsCount); err != nil {
			return nil, 0, err
		}
		c.NextDate = nextDate
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM pujas WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

// GetDetailByCode loads the full read shape. Review aggregates are
// computed in memory over the loaded reviews.
func (r *PujaRepository) GetDetailByCode(ctx context.Context, code string) (*models.PujaDetail, error) {
	var d models.PujaDetail
	err := r.DB.QueryRow(ctx,
		`SELECT id, puja_code, name, description, temple_name, temple_location, temple_image_url, thumbnail_url, status, created_at, updated_at
         FROM pujas WHERE puja_code=$1`, code,
	).Scan(&d.ID, &d.PujaCode, &d.Name, &d.Description, &d.TempleName,
		&d.TempleLocation, &d.TempleImageURL, &d.ThumbnailURL, &d.Status,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT puja_date FROM puja_dates WHERE puja_id=$1 ORDER BY puja_date`, d.ID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			rows.Close()
			return nil, err
		}
		d.Dates = append(d.Dates, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pkgRows, err := r.DB.Query(ctx,
		`SELECT id, package_code, package_name, puja_date, price, max_devotees, description
         FROM puja_packages WHERE puja_id=$1 ORDER BY puja_date, package_name`, d.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]int) // package id -> index in d.Packages
	for pkgRows.Next() {
		var p models.PujaPackage
		if err := pkgRows.Scan(&p.ID, &p.PackageCode, &p.PackageName, &p.PujaDate,
			&p.Price, &p.MaxDevotees, &p.Description); err != nil {
			pkgRows.Close()
			return nil, err
		}
		p.PujaID = d.ID
		byID[p.ID] = len(d.Packages)
		d.Packages = append(d.Packages, p)
	}
	pkgRows.Close()
	if err := pkgRows.Err(); err != nil {
		return nil, err
	}

	featRows, err := r.DB.Query(ctx,
		`SELECT pf.package_id, pf.feature
         FROM package_features pf
         JOIN puja_packages pp ON pp.id = pf.package_id
         WHERE pp.puja_id=$1 ORDER BY pf.id`, d.ID)
	if err != nil {
		return nil, err
	}
	for featRows.Next() {
		var pkgID int
		var feature string
		if err := featRows.Scan(&pkgID, &feature); err != nil {
			featRows.Close()
			return nil, err
		}
		if idx, ok := byID[pkgID]; ok {
			d.Packages[idx].Features = append(d.Packages[idx].Features, feature)
		}
	}
	featRows.Close()
	if err := featRows.Err(); err != nil {
		return nil, err
	}

	benRows, err := r.DB.Query(ctx,
		`SELECT id, title, description FROM puja_benefits WHERE puja_id=$1 ORDER BY id`, d.ID)
	if err != nil {
		return nil, err
	}
	for benRows.Next() {
		var b models.PujaBenefit
		if err := benRows.Scan(&b.ID, &b.Title, &b.Description); err != nil {
			benRows.Close()
			return nil, err
		}
		b.PujaID = d.ID
		d.Benefits = append(d.Benefits, b)
	}
	benRows.Close()
	if err := benRows.Err(); err != nil {
		return nil, err
	}

	mediaRows, err := r.DB.Query(ctx,
		`SELECT id, media_type, url, created_at FROM puja_media WHERE puja_id=$1 ORDER BY id`, d.ID)
	if err != nil {
		return nil, err
	}
	for mediaRows.Next() {
		var m models.PujaMedia
		if err := mediaRows.Scan(&m.ID, &m.MediaType, &m.URL, &m.CreatedAt); err != nil {
			mediaRows.Close()
			return nil, err
		}
		m.PujaID = d.ID
		d.Media = append(d.Media, m)
	}
	mediaRows.Close()
	if err := mediaRows.Err(); err != nil {
		return nil, err
	}

	revRows, err := r.DB.Query(ctx,
		`SELECT r.id, r.user_id, u.name, r.rating, r.comment, r.created_at
         FROM reviews r JOIN users u ON u.id = r.user_id
         WHERE r.puja_id=$1 ORDER BY r.created_at DESC`, d.ID)
	if err != nil {
		return nil, err
	}
	for revRows.Next() {
		var rv models.Review
		if err := revRows.Scan(&rv.ID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			revRows.Close()
			return nil, err
		}
		rv.PujaID = d.ID
		d.Reviews = append(d.Reviews, rv)
	}
	revRows.Close()
	if err := revRows.Err(); err != nil {
		return nil, err
	}

	var ratingSum int
	for _, rv := range d.Reviews {
		ratingSum += rv.Rating
	}
	d.ReviewsCount = len(d.Reviews)
	if d.ReviewsCount > 0 {
		d.TotalRating = float64(ratingSum) / float64(d.ReviewsCount)
	}

	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE puja_id=$1`, d.ID).Scan(&d.TotalBookings); err != nil {
		return nil, err
	}

	return &d, nil
}

// GetPackageByCode resolves a package for checkout, returning the puja
// surrogate id alongside.
func (r *PujaRepository) GetPackageByCode(ctx context.Context, packageCode string) (*models.PujaPackage, string, error) {
	var p models.PujaPackage
	var pujaCode string
	err := r.DB.QueryRow(ctx,
		`SELECT pp.id, pp.package_code, pp.puja_id, pp.package_name, pp.puja_date, pp.price, pp.max_devotees, pp.description, p.puja_code
         FROM puja_packages pp JOIN pujas p ON p.id = pp.puja_id
         WHERE pp.package_code=$1`, packageCode,
	).Scan(&p.ID, &p.PackageCode, &p.PujaID, &p.PackageName, &p.PujaDate,
		&p.Price, &p.MaxDevotees, &p.Description, &pujaCode)
	if err != nil {
		return nil, "", err
	}
	return &p, pujaCode, nil
}

func (r *PujaRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM pujas`).Scan(&n)
	return n, err
}
