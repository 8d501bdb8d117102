// Package exchange fetches currency conversion rates from ExchangeRate-API.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultBaseURL is the ExchangeRate-API v6 endpoint.
const DefaultBaseURL = "https://v6.exchangerate-api.com/v6"

// ErrNotConfigured is returned when no API key has been set.
var ErrNotConfigured = errors.New("exchange rate API key not configured")

// UpstreamError is returned when the API answers with result "error".
type UpstreamError struct {
	Type string
}

func (e *UpstreamError) Error() string {
	if e.Type == "" {
		return "exchange rate API error"
	}
	return e.Type
}

// Rate is one conversion rate between two currencies.
type Rate struct {
	Rate float64 `json:"rate"`
	From string  `json:"from"`
	To   string  `json:"to"`
}

type pairResponse struct {
	Result         string  `json:"result"`
	ErrorType      string  `json:"error-type"`
	BaseCode       string  `json:"base_code"`
	TargetCode     string  `json:"target_code"`
	ConversionRate float64 `json:"conversion_rate"`
}

// Client performs a single pass-through request per call. It keeps no cache
// and never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Pair returns the rate converting one unit of from into to. Currency codes
// are upper-cased before the request.
func (c *Client) Pair(ctx context.Context, from, to string) (*Rate, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	url := fmt.Sprintf("%s/%s/pair/%s/%s", c.baseURL, c.apiKey, from, to)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building exchange rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange rate request for %s/%s: %w", from, to, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body pairResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding exchange rate response for %s/%s (status %d): %w", from, to, resp.StatusCode, err)
	}

	// Error payloads come with 4xx statuses too, so the result field is
	// checked before the status code.
	if body.Result == "error" {
		return nil, &UpstreamError{Type: body.ErrorType}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate request for %s/%s: unexpected status %d", from, to, resp.StatusCode)
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("exchange rate response for %s/%s: unexpected result %q", from, to, body.Result)
	}
	// A missing conversion_rate decodes to zero.
	if body.ConversionRate <= 0 {
		return nil, fmt.Errorf("exchange rate response for %s/%s: invalid conversion rate %v", from, to, body.ConversionRate)
	}

	rate := &Rate{Rate: body.ConversionRate, From: body.BaseCode, To: body.TargetCode}
	if rate.From == "" {
		rate.From = from
	}
	if rate.To == "" {
		rate.To = to
	}
	return rate, nil
}
