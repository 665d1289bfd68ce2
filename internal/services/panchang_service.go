package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"puja-backend/internal/config"
	"puja-backend/internal/models"
)

// defaultPanchangEndpoints are the downstream refresh routes hit in
// order when the config names none.
var defaultPanchangEndpoints = []string{
	"/panchang/today",
	"/panchang/tithi",
	"/panchang/nakshatra",
	"/panchang/yoga",
	"/panchang/karana",
	"/panchang/rahukalam",
	"/panchang/choghadiya",
	"/panchang/hora",
	"/panchang/festivals",
}

// PanchangService triggers the almanac provider's refresh endpoints
// sequentially. The provider rate-limits aggressively, so calls are
// spaced by a configurable delay and one failure does not stop the
// rest.
type PanchangService struct {
	baseURL   string
	endpoints []string
	delay     time.Duration
	client    *http.Client
}

func NewPanchangService(cfg *config.Config) *PanchangService {
	endpoints := cfg.Panchang.Endpoints
	if len(endpoints) == 0 {
		endpoints = defaultPanchangEndpoints
	}
	return &PanchangService{
		baseURL:   cfg.Panchang.BaseURL,
		endpoints: endpoints,
		delay:     time.Duration(cfg.Panchang.DelayMillis) * time.Millisecond,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Refresh walks every endpoint and reports per-endpoint outcomes.
func (s *PanchangService) Refresh(ctx context.Context) []models.PanchangResult {
	results := make([]models.PanchangResult, 0, len(s.endpoints))
	for i, ep := range s.endpoints {
		if i > 0 && s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				results = append(results, models.PanchangResult{Endpoint: ep, OK: false, Error: ctx.Err().Error()})
				continue
			}
		}
		results = append(results, s.callOne(ctx, ep))
	}
	return results
}

func (s *PanchangService) callOne(ctx context.Context, endpoint string) models.PanchangResult {
	result := models.PanchangResult{Endpoint: endpoint}

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+endpoint, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Panchang] %s failed: %v", endpoint, err)
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Error = fmt.Sprintf("status %d", resp.StatusCode)
		return result
	}
	result.OK = true
	return result
}
