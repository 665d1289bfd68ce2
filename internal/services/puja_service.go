package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"puja-backend/internal/models"
	"puja-backend/internal/repositories"
)

var ErrPujaNotFound = errors.New("puja not found")

const isoDate = "2006-01-02"

type PujaService struct {
	pujaRepo *repositories.PujaRepository
}

func NewPujaService(pujaRepo *repositories.PujaRepository) *PujaService {
	return &PujaService{pujaRepo: pujaRepo}
}

// ParseDates parses, de-duplicates and sorts ISO date strings.
func ParseDates(raw []string) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, errors.New("at least one date is required")
	}
	seen := make(map[string]bool, len(raw))
	var dates []time.Time
	for _, s := range raw {
		if seen[s] {
			continue
		}
		seen[s] = true
		t, err := time.Parse(isoDate, s)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
		}
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// BuildPackageRows expands package inputs across the date list: one row
// per (package, date), priced from the package's per-date map. A date
// with no price for some package aborts the whole build, so a listing
// never goes out with holes in its rate table.
func BuildPackageRows(dates []time.Time, inputs []models.CreatePackageInput) ([]models.PujaPackage, error) {
	if len(inputs) == 0 {
		return nil, errors.New("at least one package is required")
	}
	var rows []models.PujaPackage
	for _, in := range inputs {
		if in.PackageName == "" {
			return nil, errors.New("package name is required")
		}
		for _, d := range dates {
			iso := d.Format(isoDate)
			price, ok := in.PricePerDate[iso]
			if !ok {
				return nil, fmt.Errorf("package %q has no price for %s", in.PackageName, iso)
			}
			if price <= 0 {
				return nil, fmt.Errorf("package %q has non-positive price for %s", in.PackageName, iso)
			}
			rows = append(rows, models.PujaPackage{
				PackageName: in.PackageName,
				PujaDate:    d,
				Price:       price,
				MaxDevotees: in.MaxDevotees,
				Description: in.Description,
				Features:    in.Features,
			})
		}
	}
	return rows, nil
}

// CreatePuja validates and expands the request, then persists the whole
// listing in one transaction. Media URLs come in already uploaded.
func (s *PujaService) CreatePuja(ctx context.Context, req *models.CreatePujaRequest, templeImageURL, thumbnailURL string, media []models.PujaMedia) (*models.Puja, error) {
	if req.Name == "" {
		return nil, errors.New("puja name is required")
	}
	if req.TempleName == "" {
		return nil, errors.New("temple name is required")
	}

	dates, err := ParseDates(req.Dates)
	if err != nil {
		return nil, err
	}
	packages, err := BuildPackageRows(dates, req.Packages)
	if err != nil {
		return nil, err
	}

	var benefits []models.PujaBenefit
	for _, b := range req.Benefits {
		benefits = append(benefits, models.PujaBenefit{Title: b.Title, Description: b.Description})
	}

	puja := &models.Puja{
		Name:           req.Name,
		Description:    req.Description,
		TempleName:     req.TempleName,
		TempleLocation: req.TempleLocation,
		TempleImageURL: templeImageURL,
		ThumbnailURL:   thumbnailURL,
		Status:         req.Status,
	}
	if err := s.pujaRepo.CreatePuja(ctx, puja, dates, packages, benefits, media); err != nil {
		return nil, err
	}
	return puja, nil
}

func (s *PujaService) UpdatePuja(ctx context.Context, code string, req *models.UpdatePujaRequest, templeImageURL, thumbnailURL string, newMedia []models.PujaMedia) error {
	err := s.pujaRepo.UpdatePuja(ctx, code, req, templeImageURL, thumbnailURL, newMedia)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPujaNotFound
	}
	return err
}

// UpdatePackages reconciles the date set and rate table of a listing.
func (s *PujaService) UpdatePackages(ctx context.Context, code string, req *models.UpdatePackagesRequest) error {
	dates, err := ParseDates(req.Dates)
	if err != nil {
		return err
	}
	packages, err := BuildPackageRows(dates, req.Packages)
	if err != nil {
		return err
	}
	err = s.pujaRepo.ReconcilePackagesAndDates(ctx, code, dates, packages)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPujaNotFound
	}
	return err
}

func (s *PujaService) List(ctx context.Context, status string, page, limit int) (*models.PujaListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	cards, total, err := s.pujaRepo.ListCards(ctx, status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &models.PujaListResponse{Pujas: cards, Total: total, Page: page, Limit: limit}, nil
}

func (s *PujaService) GetDetail(ctx context.Context, code string) (*models.PujaDetail, error) {
	detail, err := s.pujaRepo.GetDetailByCode(ctx, code)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPujaNotFound
	}
	return detail, err
}
