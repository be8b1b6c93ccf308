// Package payment forwards charge requests to an external gateway.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrGatewayUnavailable is returned when the gateway is unreachable or
// rejects the charge.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// ErrNotConfigured is returned when no gateway URL is set.
var ErrNotConfigured = errors.New("payment gateway not configured")

// ChargeRequest is the payload forwarded to the gateway.
type ChargeRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Method   string  `json:"method"`
	Ref      string  `json:"ref,omitempty"`
}

// ChargeResult is the gateway's response.
type ChargeResult struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// Gateway charges a payment.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// HTTPGateway posts charge requests as JSON to a configured URL.
type HTTPGateway struct {
	url    string
	client *http.Client
}

// NewHTTPGateway creates a gateway client for the given URL. An empty URL
// yields a gateway that always returns ErrNotConfigured.
func NewHTTPGateway(url string) *HTTPGateway {
	return &HTTPGateway{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *HTTPGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if g.url == "" {
		return ChargeResult{}, ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return ChargeResult{}, fmt.Errorf("failed to encode charge request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return ChargeResult{}, fmt.Errorf("failed to build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return ChargeResult{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ChargeResult{}, fmt.Errorf("%w: gateway returned %d: %s", ErrGatewayUnavailable, resp.StatusCode, payload)
	}

	var result ChargeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ChargeResult{}, fmt.Errorf("%w: invalid gateway response: %v", ErrGatewayUnavailable, err)
	}
	return result, nil
}
