package services

import (
	"testing"
	"time"

	"puja-backend/internal/models"
)

func TestParseDates(t *testing.T) {
	t.Run("sorts and dedupes", func(t *testing.T) {
		dates, err := ParseDates([]string{"2026-10-05", "2026-09-20", "2026-10-05", "2026-09-25"})
		if err != nil {
			t.Fatalf("ParseDates error: %v", err)
		}
		want := []string{"2026-09-20", "2026-09-25", "2026-10-05"}
		if len(dates) != len(want) {
			t.Fatalf("got %d dates, want %d", len(dates), len(want))
		}
		for i, d := range dates {
			if got := d.Format("2006-01-02"); got != want[i] {
				t.Errorf("dates[%d] = %s, want %s", i, got, want[i])
			}
		}
	})

	t.Run("rejects empty list", func(t *testing.T) {
		if _, err := ParseDates(nil); err == nil {
			t.Fatal("want error for empty date list")
		}
	})

	t.Run("rejects bad format", func(t *testing.T) {
		if _, err := ParseDates([]string{"20/09/2026"}); err == nil {
			t.Fatal("want error for non-ISO date")
		}
	})
}

func TestBuildPackageRows(t *testing.T) {
	mustDates := func(raw ...string) []time.Time {
		t.Helper()
		dates, err := ParseDates(raw)
		if err != nil {
			t.Fatalf("ParseDates error: %v", err)
		}
		return dates
	}

	t.Run("expands packages across dates", func(t *testing.T) {
		dates := mustDates("2026-09-20", "2026-09-25")
		inputs := []models.CreatePackageInput{
			{
				PackageName: "Single",
				MaxDevotees: 1,
				PricePerDate: map[string]float64{
					"2026-09-20": 501,
					"2026-09-25": 751,
				},
			},
			{
				PackageName: "Family",
				MaxDevotees: 4,
				PricePerDate: map[string]float64{
					"2026-09-20": 1100,
					"2026-09-25": 1500,
				},
				Features: []string{"prasad delivery"},
			},
		}

		rows, err := BuildPackageRows(dates, inputs)
		if err != nil {
			t.Fatalf("BuildPackageRows error: %v", err)
		}
		if len(rows) != 4 {
			t.Fatalf("got %d rows, want 4", len(rows))
		}
		if rows[0].PackageName != "Single" || rows[0].Price != 501 {
			t.Errorf("rows[0] = %q/%v, want Single/501", rows[0].PackageName, rows[0].Price)
		}
		if rows[1].Price != 751 {
			t.Errorf("rows[1].Price = %v, want 751", rows[1].Price)
		}
		if rows[3].PackageName != "Family" || rows[3].Price != 1500 {
			t.Errorf("rows[3] = %q/%v, want Family/1500", rows[3].PackageName, rows[3].Price)
		}
		if len(rows[2].Features) != 1 {
			t.Errorf("rows[2].Features = %v, want the package features carried over", rows[2].Features)
		}
	})

	t.Run("missing price for a date aborts", func(t *testing.T) {
		dates := mustDates("2026-09-20", "2026-09-25")
		inputs := []models.CreatePackageInput{
			{
				PackageName:  "Single",
				PricePerDate: map[string]float64{"2026-09-20": 501},
			},
		}
		if _, err := BuildPackageRows(dates, inputs); err == nil {
			t.Fatal("want error when a date has no price")
		}
	})

	t.Run("non-positive price aborts", func(t *testing.T) {
		dates := mustDates("2026-09-20")
		inputs := []models.CreatePackageInput{
			{
				PackageName:  "Single",
				PricePerDate: map[string]float64{"2026-09-20": 0},
			},
		}
		if _, err := BuildPackageRows(dates, inputs); err == nil {
			t.Fatal("want error for zero price")
		}
	})

	t.Run("unnamed package aborts", func(t *testing.T) {
		dates := mustDates("2026-09-20")
		inputs := []models.CreatePackageInput{
			{PricePerDate: map[string]float64{"2026-09-20": 501}},
		}
		if _, err := BuildPackageRows(dates, inputs); err == nil {
			t.Fatal("want error for missing package name")
		}
	})

	t.Run("no packages aborts", func(t *testing.T) {
		if _, err := BuildPackageRows(mustDates("2026-09-20"), nil); err == nil {
			t.Fatal("want error for empty package list")
		}
	})
}
