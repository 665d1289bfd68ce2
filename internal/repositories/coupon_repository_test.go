package repositories

import (
	"testing"
	"time"

	"puja-backend/internal/models"
)

func TestIsValidAt(t *testing.T) {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name   string
		coupon models.Coupon
		at     time.Time
		want   bool
	}{
		{
			name:   "inside window",
			coupon: models.Coupon{Active: true, ValidFrom: from, ValidUntil: until},
			at:     time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC),
			want:   true,
		},
		{
			name:   "exactly at start",
			coupon: models.Coupon{Active: true, ValidFrom: from, ValidUntil: until},
			at:     from,
			want:   true,
		},
		{
			name:   "exactly at end",
			coupon: models.Coupon{Active: true, ValidFrom: from, ValidUntil: until},
			at:     until,
			want:   true,
		},
		{
			name:   "before window",
			coupon: models.Coupon{Active: true, ValidFrom: from, ValidUntil: until},
			at:     from.Add(-time.Second),
			want:   false,
		},
		{
			name:   "after window",
			coupon: models.Coupon{Active: true, ValidFrom: from, ValidUntil: until},
			at:     until.Add(time.Second),
			want:   false,
		},
		{
			name:   "inactive inside window",
			coupon: models.Coupon{Active: false, ValidFrom: from, ValidUntil: until},
			at:     time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAt(&tt.coupon, tt.at); got != tt.want {
				t.Errorf("IsValidAt(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}
