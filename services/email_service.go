// services/email_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lessonledger-backend/utils"
)

// EmailMessage is one outbound transactional email.
type EmailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// Sender abstracts the email provider so handlers and tests are not tied to
// one vendor.
type Sender interface {
	Configured() bool
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailService sends mail through a Resend-style HTTP API: a single POST with
// bearer auth where any 2xx is success.
type EmailService struct {
	apiURL string
	apiKey string
	client *http.Client
}

func NewEmailService(apiURL, apiKey string) *EmailService {
	return &EmailService{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *EmailService) Configured() bool {
	return s != nil && s.apiURL != "" && s.apiKey != ""
}

func (s *EmailService) Send(ctx context.Context, msg EmailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, utils.Truncate(string(raw), 200))
	}

	return nil
}
