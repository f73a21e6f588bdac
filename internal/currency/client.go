package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Rates maps lowercase ISO currency codes to their rate relative to USD.
type Rates map[string]float64

// Source defines the interface to the external exchange-rate provider.
type Source interface {
	// FetchRates retrieves the current currency code to rate mapping.
	FetchRates(ctx context.Context) (Rates, error)
}

// httpSource implements Source against a request/response HTTP endpoint
// returning {"rates": {code: rate}}.
type httpSource struct {
	client *http.Client
	url    string
	logger zerolog.Logger
}

// NewHTTPSource creates a new HTTP-backed exchange-rate source.
func NewHTTPSource(url string, logger zerolog.Logger) Source {
	return &httpSource{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		url:    url,
		logger: logger.With().Str("component", "rate-source").Logger(),
	}
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// FetchRates retrieves the current rate mapping from the provider.
func (s *httpSource) FetchRates(ctx context.Context) (Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := s.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("rates request failed")
		return nil, fmt.Errorf("rates request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn().Int("status", resp.StatusCode).Msg("rates request rejected")
		return nil, fmt.Errorf("rates request rejected: status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}

	rates := make(Rates, len(body.Rates))
	for code, rate := range body.Rates {
		rates[strings.ToLower(code)] = rate
	}
	// USD is the base currency, always identity.
	rates["usd"] = 1

	s.logger.Info().Int("currencies", len(rates)).Msg("exchange rates fetched")

	return rates, nil
}
