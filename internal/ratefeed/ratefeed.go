// Package ratefeed fetches daily exchange rates from an exchangeratesapi.io
// compatible HTTP feed. The feed is untrusted: callers round and filter what
// it returns before storing anything.
package ratefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"billing/internal/money"
)

// ErrBadResponse marks a reply that could not be used: a non-200 status, an
// undecodable body, or a body without rates.
var ErrBadResponse = errors.New("rate feed: bad response")

const dateLayout = "2006-01-02"

// Rates is the decoded feed payload for one day.
type Rates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Client calls GET <baseURL>/<date>?base=<BASE>&symbols=<csv>.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a feed client. timeout bounds every request; the caller's
// context can shorten it further.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a feed client using httpClient.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchRates fetches the base→symbol rates published for date.
func (c *Client) FetchRates(ctx context.Context, date time.Time, base money.Currency, symbols []money.Currency) (*Rates, error) {
	codes := make([]string, len(symbols))
	for i, s := range symbols {
		codes[i] = string(s)
	}

	q := url.Values{}
	q.Set("base", string(base))
	q.Set("symbols", strings.Join(codes, ","))
	endpoint := c.baseURL + "/" + date.Format(dateLayout) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building rate feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate feed request for %s: %w", date.Format(dateLayout), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrBadResponse, resp.StatusCode)
	}

	var rates Rates
	if err := json.NewDecoder(resp.Body).Decode(&rates); err != nil {
		return nil, fmt.Errorf("%w: decoding body: %v", ErrBadResponse, err)
	}
	if len(rates.Rates) == 0 {
		return nil, fmt.Errorf("%w: no rates for %s", ErrBadResponse, date.Format(dateLayout))
	}
	if rates.Base != "" && !strings.EqualFold(rates.Base, string(base)) {
		return nil, fmt.Errorf("%w: base %q, requested %q", ErrBadResponse, rates.Base, base)
	}

	return &rates, nil
}
