package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/whisperbox/internal/config"
)

const (
	resendURL      = "https://api.resend.com/emails"
	requestTimeout = 10 * time.Second
)

// Client delivers transactional email through the Resend HTTP API
type Client struct {
	apiKey     string
	from       string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new email Client
func NewClient(cfg config.EmailConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		baseURL: resendURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendVerificationEmail sends the one-time verification code to a recipient.
// Single attempt, no retry; a failure is returned to the caller as-is.
func (c *Client) SendVerificationEmail(ctx context.Context, to, username, code string) error {
	body := sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: "Whisperbox | Verification Code",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your verification code is <strong>%s</strong>. It expires in one hour.</p>",
			username, code,
		),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email delivery failed: status=%d body=%s", resp.StatusCode, detail)
	}

	return nil
}
