package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioMessagesURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

// TwilioConfig holds Twilio REST API credentials.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// TwilioSender sends SMS through the Twilio Messages API.
type TwilioSender struct {
	cfg    TwilioConfig
	client *http.Client
	// baseURL overrides the Twilio endpoint in tests.
	baseURL string
}

func NewTwilioSender(cfg TwilioConfig) *TwilioSender {
	return &TwilioSender{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: fmt.Sprintf(twilioMessagesURL, cfg.AccountSID),
	}
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) error {
	if s.cfg.AccountSID == "" || s.cfg.AuthToken == "" || s.cfg.From == "" {
		return fmt.Errorf("twilio sender not configured")
	}

	form := url.Values{}
	form.Set("From", s.cfg.From)
	form.Set("To", normalizePhone(to))
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building twilio request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending sms to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var apiErr map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("twilio api error (status %d): %v", resp.StatusCode, apiErr)
	}
	return nil
}

// normalizePhone ensures the number carries a + country prefix. Bare numbers
// are assumed already in E.164 form minus the plus sign.
func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+" + phone
}
