package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"puja-backend/internal/config"
)

func newTestClient(baseURL string) *CashfreeClient {
	cfg := &config.Config{}
	cfg.Cashfree.AppID = "app-id"
	cfg.Cashfree.SecretKey = "app-secret"
	cfg.Cashfree.BaseURL = baseURL
	cfg.Cashfree.ReturnURL = "https://example.com/return"
	cfg.Cashfree.NotifyURL = "https://example.com/webhook"
	return NewCashfreeClient(cfg)
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("got %s %s, want POST /orders", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("x-client-id"); got != "app-id" {
			t.Errorf("x-client-id = %q", got)
		}
		if got := r.Header.Get("x-client-secret"); got != "app-secret" {
			t.Errorf("x-client-secret = %q", got)
		}
		if got := r.Header.Get("x-api-version"); got != "2023-08-01" {
			t.Errorf("x-api-version = %q", got)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["order_id"] != "KSB1756700000" {
			t.Errorf("order_id = %v", body["order_id"])
		}
		if body["order_currency"] != "INR" {
			t.Errorf("order_currency = %v, want INR default", body["order_currency"])
		}

		json.NewEncoder(w).Encode(map[string]string{
			"payment_session_id": "session_xyz",
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	session, err := c.CreateOrder(context.Background(), &OrderRequest{
		OrderID:       "KSB1756700000",
		Amount:        1100,
		CustomerID:    "KSB1007",
		CustomerPhone: "9876543210",
	})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if session != "session_xyz" {
		t.Errorf("session = %q, want session_xyz", session)
	}
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"order_id already exists"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateOrder(context.Background(), &OrderRequest{OrderID: "KSB1", Amount: 100})
	if err == nil {
		t.Fatal("want error on 400 response")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error = %v, want the status code surfaced", err)
	}
}

func TestCreateOrderMissingSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).CreateOrder(context.Background(), &OrderRequest{OrderID: "KSB1", Amount: 100}); err == nil {
		t.Fatal("want error when payment_session_id is absent")
	}
}

func TestFetchOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/KSB1756700000" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(OrderStatus{
			OrderID:     "KSB1756700000",
			OrderStatus: "PAID",
			OrderAmount: 1100,
		})
	}))
	defer srv.Close()

	status, err := newTestClient(srv.URL).FetchOrder(context.Background(), "KSB1756700000")
	if err != nil {
		t.Fatalf("FetchOrder error: %v", err)
	}
	if status.OrderStatus != "PAID" || status.OrderAmount != 1100 {
		t.Errorf("status = %+v", status)
	}
}

func TestFetchOrderNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).FetchOrder(context.Background(), "KSB0"); err == nil {
		t.Fatal("want error for unknown order")
	}
}

func TestWebhookPayloadDecode(t *testing.T) {
	raw := `{
		"data": {
			"order": {"order_id": "KSB1756700000"},
			"payment": {
				"payment_status": "SUCCESS",
				"bank_reference": "UTR1234",
				"payment_method": {"upi": {"upi_id": "user@okbank"}}
			}
		}
	}`

	var p WebhookPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Data.Order.OrderID != "KSB1756700000" {
		t.Errorf("order id = %q", p.Data.Order.OrderID)
	}
	if p.Data.Payment.PaymentStatus != "SUCCESS" {
		t.Errorf("payment status = %q", p.Data.Payment.PaymentStatus)
	}
	if p.Data.Payment.BankReference != "UTR1234" {
		t.Errorf("bank reference = %q", p.Data.Payment.BankReference)
	}
	if got := p.PaymentType(); got != "upi" {
		t.Errorf("PaymentType() = %q, want upi", got)
	}
}

func TestPaymentTypeEmpty(t *testing.T) {
	var p WebhookPayload
	if got := p.PaymentType(); got != "" {
		t.Errorf("PaymentType() = %q, want empty", got)
	}
}
