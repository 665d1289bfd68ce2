package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func TestRoutePattern(t *testing.T) {
	var got string
	r := mux.NewRouter()
	r.HandleFunc("/payments/status/{booking_id}", func(_ http.ResponseWriter, req *http.Request) {
		got = routePattern(req)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/payments/status/KSB1756700000", nil))
	if got != "/payments/status/{booking_id}" {
		t.Errorf("pattern = %q, want the route template", got)
	}
}

func TestRoutePatternFallsBackToPath(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	if p := routePattern(req); p != "/health" {
		t.Errorf("pattern = %q, want /health", p)
	}
}
