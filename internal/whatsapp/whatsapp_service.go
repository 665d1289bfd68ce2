package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Provider defines the interface for WhatsApp template dispatch.
type Provider interface {
	SendTemplateMessage(phone, campaignName string, params []string) error
}

// AiSensyService implements WhatsApp via AiSensy campaign API.
type AiSensyService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewAiSensyService(apiKey string) *AiSensyService {
	return &AiSensyService{
		apiKey:  apiKey,
		baseURL: "https://backend.aisensy.com/campaign/t1/api/v2",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SendTemplateMessage sends a campaign template with positional params
func (s *AiSensyService) SendTemplateMessage(phone, campaignName string, params []string) error {
	payload := map[string]interface{}{
		"apiKey":         s.apiKey,
		"campaignName":   campaignName,
		"destination":    formatPhoneNumber(phone),
		"userName":       "Customer",
		"templateParams": params,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AiSensy API error: %s", string(body))
	}

	return nil
}

// formatPhoneNumber adds the 91 country code for Indian numbers
func formatPhoneNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")
	if len(phone) == 10 {
		return "91" + phone
	}
	return phone
}

// MockService logs template dispatches instead of sending them. Used
// when WHATSAPP_API_KEY is not set.
type MockService struct{}

func NewMockService() *MockService {
	return &MockService{}
}

func (s *MockService) SendTemplateMessage(phone, campaignName string, params []string) error {
	log.Printf("[MockWhatsApp] %s -> %s params=%v", campaignName, phone, params)
	return nil
}
