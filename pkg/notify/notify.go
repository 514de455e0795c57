// Package notify defines the email delivery contract and an HTTP client for
// a mail API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Mailer sends a single email message.
type Mailer interface {
	Send(ctx context.Context, to, from, subject, body string) error
}

// Client delivers mail through a JSON-over-HTTP mail API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a mail client with a bounded request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, http: &http.Client{Timeout: timeout}}
}

type sendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send posts one message to the mail API.
func (c *Client) Send(ctx context.Context, to, from, subject, body string) error {
	payload, err := json.Marshal(sendRequest{To: to, From: from, Subject: subject, Body: body})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call mail api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mail api returned %s", resp.Status)
	}
	return nil
}
