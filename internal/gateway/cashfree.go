// Package gateway wraps the Cashfree hosted-checkout API: order
// creation returns a payment_session_id the frontend feeds into the
// hosted checkout, and the gateway reports the outcome on our webhook.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"puja-backend/internal/config"
)

const apiVersion = "2023-08-01"

// OrderRequest is the outbound order-creation payload.
type OrderRequest struct {
	OrderID       string
	Amount        float64
	Currency      string
	CustomerID    string
	CustomerPhone string
	CustomerEmail string
}

// OrderStatus is the live order state fetched from the gateway.
type OrderStatus struct {
	OrderID     string  `json:"order_id"`
	OrderStatus string  `json:"order_status"`
	OrderAmount float64 `json:"order_amount"`
}

// Client is the capability the booking flow needs from the gateway.
type Client interface {
	CreateOrder(ctx context.Context, req *OrderRequest) (string, error)
	FetchOrder(ctx context.Context, orderID string) (*OrderStatus, error)
}

type CashfreeClient struct {
	appID     string
	secretKey string
	baseURL   string
	returnURL string
	notifyURL string
	client    *http.Client
}

func NewCashfreeClient(cfg *config.Config) *CashfreeClient {
	return &CashfreeClient{
		appID:     cfg.Cashfree.AppID,
		secretKey: cfg.Cashfree.SecretKey,
		baseURL:   cfg.Cashfree.BaseURL,
		returnURL: cfg.Cashfree.ReturnURL,
		notifyURL: cfg.Cashfree.NotifyURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateOrder requests a hosted-checkout session and returns the
// payment_session_id.
func (c *CashfreeClient) CreateOrder(ctx context.Context, req *OrderRequest) (string, error) {
	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	payload := map[string]interface{}{
		"order_id":       req.OrderID,
		"order_amount":   req.Amount,
		"order_currency": currency,
		"customer_details": map[string]interface{}{
			"customer_id":    req.CustomerID,
			"customer_phone": req.CustomerPhone,
			"customer_email": req.CustomerEmail,
		},
		"order_meta": map[string]interface{}{
			"return_url": c.returnURL,
			"notify_url": c.notifyURL,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to reach cashfree: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cashfree order error (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		PaymentSessionID string `json:"payment_session_id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse cashfree response: %w", err)
	}
	if result.PaymentSessionID == "" {
		return "", fmt.Errorf("cashfree returned no payment session id")
	}

	return result.PaymentSessionID, nil
}

// FetchOrder reads the live order state from the gateway.
func (c *CashfreeClient) FetchOrder(ctx context.Context, orderID string) (*OrderStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/orders/"+orderID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach cashfree: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("order %s not found at gateway", orderID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cashfree status error (%d): %s", resp.StatusCode, string(body))
	}

	var status OrderStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse cashfree response: %w", err)
	}

	return &status, nil
}

func (c *CashfreeClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-version", apiVersion)
	req.Header.Set("x-client-id", c.appID)
	req.Header.Set("x-client-secret", c.secretKey)
}

// WebhookPayload is the inbound webhook shape:
// {data: {order: {order_id}, payment: {payment_status, bank_reference, payment_method}}}
type WebhookPayload struct {
	Data struct {
		Order struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
		Payment struct {
			PaymentStatus string                            `json:"payment_status"`
			BankReference string                            `json:"bank_reference"`
			PaymentMethod map[string]map[string]interface{} `json:"payment_method"`
		} `json:"payment"`
	} `json:"data"`
}

// PaymentType returns whichever key is present in the gateway's
// payment-method object (upi, card, netbanking, wallet, ...).
func (p *WebhookPayload) PaymentType() string {
	for key := range p.Data.Payment.PaymentMethod {
		return key
	}
	return ""
}
