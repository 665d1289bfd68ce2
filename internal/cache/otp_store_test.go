package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStorePeekAndClear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Put(ctx, "9876543210", "482910", time.Hour); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	// Peek must not consume the entry
	for i := 0; i < 2; i++ {
		got, err := s.Peek(ctx, "9876543210")
		if err != nil {
			t.Fatalf("Peek error: %v", err)
		}
		if got != "482910" {
			t.Fatalf("Peek = %q, want 482910", got)
		}
	}

	got, err := s.GetAndClear(ctx, "9876543210")
	if err != nil {
		t.Fatalf("GetAndClear error: %v", err)
	}
	if got != "482910" {
		t.Fatalf("GetAndClear = %q, want 482910", got)
	}

	if _, err := s.Peek(ctx, "9876543210"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Peek after clear: err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetAndClear(ctx, "9876543210"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second GetAndClear: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Put(ctx, "9876543210", "482910", -time.Second); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if _, err := s.Peek(ctx, "9876543210"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Peek on expired entry: err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetAndClear(ctx, "9876543210"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAndClear on expired entry: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreReplace(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Put(ctx, "9876543210", "111111", time.Hour)
	s.Put(ctx, "9876543210", "222222", time.Hour)

	got, err := s.GetAndClear(ctx, "9876543210")
	if err != nil {
		t.Fatalf("GetAndClear error: %v", err)
	}
	if got != "222222" {
		t.Errorf("GetAndClear = %q, want the replacement code", got)
	}
}

func TestMemoryStoreMissingKey(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Peek(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Peek on missing key: err = %v, want ErrNotFound", err)
	}
}
