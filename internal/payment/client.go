package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Refunder defines the interface to the external payments provider for
// issuing refunds against a payment intent.
type Refunder interface {
	// Refund issues a refund for the given payment intent. The refund
	// executes on the provider side; this call only requests it.
	Refund(ctx context.Context, paymentIntentID, reason string) error
}

// Errors returned by the payments provider.
var (
	ErrPaymentIntentNotFound = errors.New("payment intent not found")
	ErrRefundRejected        = errors.New("refund rejected by payments provider")
)

// Client is an HTTP client for the payments provider refund endpoint.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  zerolog.Logger
}

// NewClient creates a new payments provider client.
func NewClient(baseURL, apiKey string, logger zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger.With().Str("component", "payment-client").Logger(),
	}
}

type refundRequest struct {
	PaymentIntent string `json:"payment_intent"`
	Reason        string `json:"reason"`
}

// Refund issues a refund for the given payment intent.
func (c *Client) Refund(ctx context.Context, paymentIntentID, reason string) error {
	// POST /v1/refunds
	endpoint, err := url.JoinPath(c.baseURL, "v1", "refunds")
	if err != nil {
		return fmt.Errorf("failed to build refund URL: %w", err)
	}

	payload, err := json.Marshal(refundRequest{
		PaymentIntent: paymentIntentID,
		Reason:        reason,
	})
	if err != nil {
		return fmt.Errorf("failed to encode refund request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build refund request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		c.logger.Error().Err(err).Str("payment_intent", paymentIntentID).Msg("refund request failed")
		return fmt.Errorf("refund request failed: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		c.logger.Info().Str("payment_intent", paymentIntentID).Msg("refund issued")
		return nil
	case http.StatusNotFound:
		c.logger.Warn().Str("payment_intent", paymentIntentID).Msg("payment intent not found")
		return ErrPaymentIntentNotFound
	default:
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("payment_intent", paymentIntentID).
			Msg("refund rejected")
		return fmt.Errorf("%w: status %d", ErrRefundRejected, resp.StatusCode)
	}
}
