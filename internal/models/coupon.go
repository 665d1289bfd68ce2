package models

import "time"

type Coupon struct {
	ID              int       `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent float64   `json:"discount_percent"`
	MaxDiscount     float64   `json:"max_discount"`
	ValidFrom       time.Time `json:"valid_from"`
	ValidUntil      time.Time `json:"valid_until"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateCouponRequest struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	MaxDiscount     float64 `json:"max_discount"`
	ValidFrom       string  `json:"valid_from"`  // ISO date
	ValidUntil      string  `json:"valid_until"` // ISO date
	Active          bool    `json:"active"`
}

type ValidateCouponRequest struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

type ValidateCouponResponse struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message,omitempty"`
}
