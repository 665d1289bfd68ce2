package sms

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Provider is an interface for sending OTP SMS messages
type Provider interface {
	SendOTP(phone, otp string) error
}

// Fast2SMSService implements Provider for Fast2SMS (India). The DLT
// route substitutes the OTP code into a registered template.
type Fast2SMSService struct {
	APIKey     string
	TemplateID string
	SenderID   string
	client     *http.Client
}

func NewFast2SMSService(apiKey, templateID, senderID string) *Fast2SMSService {
	return &Fast2SMSService{
		APIKey:     apiKey,
		TemplateID: templateID,
		SenderID:   senderID,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// SendOTP sends an OTP code via the Fast2SMS DLT route
func (s *Fast2SMSService) SendOTP(phone, otp string) error {
	apiURL := fmt.Sprintf(
		"https://www.fast2sms.com/dev/bulkV2?authorization=%s&route=dlt&sender_id=%s&message=%s&variables_values=%s&flash=0&numbers=%s",
		url.QueryEscape(s.APIKey),
		url.QueryEscape(s.SenderID),
		url.QueryEscape(s.TemplateID),
		url.QueryEscape(otp),
		url.QueryEscape(phone),
	)

	resp, err := s.client.Get(apiURL)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Fast2SMS API error: %s", string(body))
	}

	return nil
}

// MockSMSService prints OTPs to the log. Used when FAST2SMS_API_KEY is
// not set.
type MockSMSService struct{}

func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

func (s *MockSMSService) SendOTP(phone, otp string) error {
	log.Printf("[MockSMS] OTP for %s: %s", phone, otp)
	return nil
}
