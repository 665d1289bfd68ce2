package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"puja-backend/internal/config"
)

func newTestPanchangService(baseURL string, endpoints []string) *PanchangService {
	cfg := &config.Config{}
	cfg.Panchang.BaseURL = baseURL
	cfg.Panchang.Endpoints = endpoints
	cfg.Panchang.DelayMillis = 1
	return NewPanchangService(cfg)
}

func TestPanchangRefresh(t *testing.T) {
	var mu sync.Mutex
	var hits []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/panchang/tithi" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := newTestPanchangService(srv.URL, []string{"/panchang/today", "/panchang/tithi", "/panchang/festivals"})
	results := svc.Refresh(context.Background())

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if !results[0].OK || results[0].Endpoint != "/panchang/today" {
		t.Errorf("results[0] = %+v, want /panchang/today OK", results[0])
	}
	if results[1].OK {
		t.Errorf("results[1] = %+v, want failure for 502", results[1])
	}
	if results[1].Error != "status 502" {
		t.Errorf("results[1].Error = %q, want %q", results[1].Error, "status 502")
	}
	// One failure must not stop the rest of the sweep
	if !results[2].OK {
		t.Errorf("results[2] = %+v, want OK after earlier failure", results[2])
	}

	mu.Lock()
	defer mu.Unlock()
	if len(hits) != 3 {
		t.Errorf("server saw %d requests, want 3 (no retries)", len(hits))
	}
}

func TestPanchangRefreshUnreachable(t *testing.T) {
	svc := newTestPanchangService("http://127.0.0.1:1", []string{"/panchang/today"})
	results := svc.Refresh(context.Background())
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].OK || results[0].Error == "" {
		t.Errorf("results[0] = %+v, want a recorded error", results[0])
	}
}

func TestPanchangDefaultEndpoints(t *testing.T) {
	cfg := &config.Config{}
	svc := NewPanchangService(cfg)
	if len(svc.endpoints) != len(defaultPanchangEndpoints) {
		t.Fatalf("got %d endpoints, want %d", len(svc.endpoints), len(defaultPanchangEndpoints))
	}
}
