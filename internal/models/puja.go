package models

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Puja is a bookable ritual-service listing. Temple fields are
// denormalized onto the listing on purpose: the listing is a snapshot,
// not a join.
type Puja struct {
	ID             int       `json:"id"`
	PujaCode       string    `json:"puja_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	TempleName     string    `json:"temple_name"`
	TempleLocation string    `json:"temple_location"`
	TempleImageURL string    `json:"temple_image_url"`
	ThumbnailURL   string    `json:"thumbnail_url"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PujaPackage is one row per (package_name, date); price is
// date-specific, never a shared rate card.
type PujaPackage struct {
	ID          int       `json:"id"`
	PackageCode string    `json:"package_id"`
	PujaID      int       `json:"-"`
	PackageName string    `json:"package_name"`
	PujaDate    time.Time `json:"puja_date"`
	Price       float64   `json:"price"`
	MaxDevotees int       `json:"max_devotees"`
	Description string    `json:"description"`
	Features    []string  `json:"features"`
}

type PujaBenefit struct {
	ID          int    `json:"id"`
	PujaID      int    `json:"-"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

type PujaMedia struct {
	ID        int       `json:"id"`
	PujaID    int       `json:"-"`
	MediaType string    `json:"media_type"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// PujaDetail is the full read shape: packages with features, dates,
// media, benefits, reviews and aggregates.
type PujaDetail struct {
	Puja
	Dates         []time.Time   `json:"dates"`
	Packages      []PujaPackage `json:"packages"`
	Benefits      []PujaBenefit `json:"benefits"`
	Media         []PujaMedia   `json:"media"`
	Reviews       []Review      `json:"reviews"`
	TotalBookings int           `json:"total_bookings"`
	TotalRating   float64       `json:"total_rating"`
	ReviewsCount  int           `json:"reviews_count"`
}

// PujaCard is the paginated list projection.
type PujaCard struct {
	PujaCode       string     `json:"puja_id"`
	Name           string     `json:"name"`
	TempleName     string     `json:"temple_name"`
	TempleLocation string     `json:"temple_location"`
	ThumbnailURL   string     `json:"thumbnail_url"`
	Status         string     `json:"status"`
	PriceFrom      float64    `json:"price_from"`
	NextDate       *time.Time `json:"next_date,omitempty"`
	TotalBookings  int        `json:"total_bookings"`
	TotalRating    float64    `json:"total_rating"`
	ReviewsCount   int        `json:"reviews_count"`
}

// PujaListResponse wraps a page of cards.
type PujaListResponse struct {
	Pujas []PujaCard `json:"pujas"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

// CreatePackageInput carries one package with its per-date price map,
// keyed by ISO date string (2006-01-02).
type CreatePackageInput struct {
	PackageName  string             `json:"package_name"`
	Description  string             `json:"description"`
	MaxDevotees  int                `json:"max_devotees"`
	PricePerDate map[string]float64 `json:"price_per_date"`
	Features     []string           `json:"features"`
}

type CreateBenefitInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreatePujaRequest is the JSON part of the multipart create form.
type CreatePujaRequest struct {
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	TempleName     string               `json:"temple_name"`
	TempleLocation string               `json:"temple_location"`
	Status         string               `json:"status"`
	Dates          []string             `json:"dates"` // ISO date strings
	Packages       []CreatePackageInput `json:"packages"`
	Benefits       []CreateBenefitInput `json:"benefits"`
}

// UpdatePujaRequest is the JSON part of the multipart update form.
// Benefits replace the existing set wholesale; DeleteMediaIDs removes
// specific media rows; new uploads are appended.
type UpdatePujaRequest struct {
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	TempleName     string               `json:"temple_name"`
	TempleLocation string               `json:"temple_location"`
	Status         string               `json:"status"`
	Benefits       []CreateBenefitInput `json:"benefits"`
	DeleteMediaIDs []int                `json:"delete_media_ids"`
}

// UpdatePackagesRequest reconciles the date set and upserts packages
// per (puja, date, package_name).
type UpdatePackagesRequest struct {
	Dates    []string             `json:"dates"`
	Packages []CreatePackageInput `json:"packages"`
}
