// Package payment defines the payment gateway contract and an HTTP client
// for it.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Gateway charges a pre-authorized payment instrument. Amounts are in
// currency minor units (cents). A successful charge returns the gateway's
// payment reference.
type Gateway interface {
	Charge(ctx context.Context, amountMinorUnits int64, currency, token string) (string, error)
}

// ErrDeclined indicates the gateway rejected the charge. No funds moved.
var ErrDeclined = errors.New("payment declined")

// Client calls a JSON-over-HTTP payment gateway.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a gateway client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

type chargeRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Token    string `json:"token"`
}

type chargeResponse struct {
	Reference string `json:"reference"`
}

// Charge posts one charge for the given amount against the token.
func (c *Client) Charge(ctx context.Context, amountMinorUnits int64, currency, token string) (string, error) {
	body, err := json.Marshal(chargeRequest{Amount: amountMinorUnits, Currency: currency, Token: token})
	if err != nil {
		return "", fmt.Errorf("marshal charge: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		return "", ErrDeclined
	default:
		return "", fmt.Errorf("gateway returned %s", resp.Status)
	}

	var out chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode charge response: %w", err)
	}
	if out.Reference == "" {
		return "", errors.New("gateway returned empty payment reference")
	}
	return out.Reference, nil
}
