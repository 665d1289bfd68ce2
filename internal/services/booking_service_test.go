package services

import (
	"testing"

	"puja-backend/internal/models"
)

func TestSanitizeSessionID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "clean session id", raw: "session_abc123", want: "session_abc123"},
		{name: "stray fragment stripped", raw: "session_abc123spayment", want: "session_abc123"},
		{name: "fragment in the middle", raw: "session_abcspayment123", want: "session_abc123"},
		{name: "missing prefix", raw: "abc123", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "only the fragment", raw: "spayment", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeSessionID(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SanitizeSessionID(%q) = %q, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizeSessionID(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("SanitizeSessionID(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeDOB(t *testing.T) {
	tests := []struct {
		name    string
		dob     string
		want    string
		wantErr bool
	}{
		{name: "indian format", dob: "15/08/1990", want: "1990-08-15"},
		{name: "iso passes through", dob: "1990-08-15", want: "1990-08-15"},
		{name: "empty allowed", dob: "", want: ""},
		{name: "us format rejected", dob: "08-15-1990", wantErr: true},
		{name: "garbage", dob: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDOB(tt.dob)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeDOB(%q) = %q, want error", tt.dob, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeDOB(%q) error: %v", tt.dob, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeDOB(%q) = %q, want %q", tt.dob, got, tt.want)
			}
		})
	}
}

func TestComputeDiscount(t *testing.T) {
	tests := []struct {
		name   string
		coupon models.Coupon
		amount float64
		want   float64
	}{
		{
			name:   "plain percentage",
			coupon: models.Coupon{DiscountPercent: 10},
			amount: 1000,
			want:   100,
		},
		{
			name:   "capped by max discount",
			coupon: models.Coupon{DiscountPercent: 50, MaxDiscount: 200},
			amount: 1000,
			want:   200,
		},
		{
			name:   "cap not reached",
			coupon: models.Coupon{DiscountPercent: 10, MaxDiscount: 500},
			amount: 1000,
			want:   100,
		},
		{
			name:   "zero cap means uncapped",
			coupon: models.Coupon{DiscountPercent: 50},
			amount: 1000,
			want:   500,
		},
		{
			name:   "rounded to paise",
			coupon: models.Coupon{DiscountPercent: 3},
			amount: 333.33,
			want:   10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDiscount(&tt.coupon, tt.amount)
			if got != tt.want {
				t.Errorf("ComputeDiscount(%+v, %v) = %v, want %v", tt.coupon, tt.amount, got, tt.want)
			}
		})
	}
}

func TestBookingIDFromOrder(t *testing.T) {
	tests := []struct {
		orderID string
		want    string
	}{
		{orderID: "KSB1756700000", want: "KSB1756700000"},
		{orderID: "KSB1756700000_retry_1756700999", want: "KSB1756700000"},
		{orderID: "KSB1756700000_retry_1_retry_2", want: "KSB1756700000"},
		{orderID: "_retry_123", want: "_retry_123"},
	}

	for _, tt := range tests {
		if got := bookingIDFromOrder(tt.orderID); got != tt.want {
			t.Errorf("bookingIDFromOrder(%q) = %q, want %q", tt.orderID, got, tt.want)
		}
	}
}
