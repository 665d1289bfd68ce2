package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"puja-backend/internal/models"
	"puja-backend/internal/repositories"
	"puja-backend/internal/timeutil"
)

type CouponService struct {
	couponRepo *repositories.CouponRepository
}

func NewCouponService(couponRepo *repositories.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

func (s *CouponService) Create(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, errors.New("coupon code is required")
	}
	if req.DiscountPercent <= 0 || req.DiscountPercent > 100 {
		return nil, errors.New("discount percent must be between 0 and 100")
	}
	// Validity windows run on IST calendar days.
	from, err := timeutil.ParseInIST(timeutil.DateLayout, req.ValidFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid valid_from: expected YYYY-MM-DD")
	}
	until, err := timeutil.ParseInIST(timeutil.DateLayout, req.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("invalid valid_until: expected YYYY-MM-DD")
	}
	if until.Before(from) {
		return nil, errors.New("valid_until is before valid_from")
	}

	coupon := &models.Coupon{
		Code:            code,
		DiscountPercent: req.DiscountPercent,
		MaxDiscount:     req.MaxDiscount,
		ValidFrom:       from,
		// Valid through the end of the last day
		ValidUntil: timeutil.EndOfDay(until),
		Active:     req.Active,
	}
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	return s.couponRepo.List(ctx)
}

func (s *CouponService) SetActive(ctx context.Context, id int, active bool) error {
	return s.couponRepo.SetActive(ctx, id, active)
}

func (s *CouponService) Delete(ctx context.Context, id int) error {
	return s.couponRepo.Delete(ctx, id)
}
