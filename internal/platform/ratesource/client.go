// Package ratesource reads current exchange rates from an HTTP API such as
// api.frankfurter.app. The response is expected to hold an object mapping
// currency codes to units of that currency per one unit of the base
// currency, located by a JSONPath expression.
package ratesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/PaesslerAG/jsonpath"

	"github.com/travel-ledger/internal/config"
)

// ErrMalformedResponse reports a body without the expected rate mapping.
var ErrMalformedResponse = errors.New("malformed rate source response")

// ErrUnexpectedStatus reports a non-success HTTP status.
type ErrUnexpectedStatus struct {
	StatusCode int
}

func (e ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("rate source returned status %d", e.StatusCode)
}

// Client fetches rates with a single attempt per call. It sets no timeout
// of its own: a caller that wants one passes a deadline in the context.
type Client struct {
	httpClient *http.Client
	url        string
	ratesPath  string
	logger     *slog.Logger
}

// NewClient creates a client for cfg. httpClient may be nil.
func NewClient(logger *slog.Logger, cfg *config.FXConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		httpClient: httpClient,
		url:        cfg.SourceURL,
		ratesPath:  cfg.RatesPath,
		logger:     logger,
	}
}

// FetchRates returns the rates reported by the source. Values that are not
// numbers are left out.
func (c *Client) FetchRates(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Rate source unreachable", "url", c.url, "error", err)
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Rate source returned an error status", "url", c.url, "status", resp.StatusCode)
		return nil, ErrUnexpectedStatus{StatusCode: resp.StatusCode}
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return extractRates(c.ratesPath, body)
}

func extractRates(path string, body any) (map[string]float64, error) {
	found, err := jsonpath.Get(path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedResponse, path, err)
	}
	// a filter expression yields a list; keep its first match
	if list, ok := found.([]any); ok && len(list) > 0 {
		found = list[0]
	}

	obj, ok := found.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an object", ErrMalformedResponse, path)
	}

	rates := make(map[string]float64, len(obj))
	for code, v := range obj {
		if rate, ok := v.(float64); ok {
			rates[code] = rate
		}
	}
	return rates, nil
}
