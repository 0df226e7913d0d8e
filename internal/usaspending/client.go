// Package usaspending provides a client for the USAspending.gov v2 API
// and the typed request models the tools build their payloads from.
package usaspending

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public USAspending v2 API root.
const DefaultBaseURL = "https://api.usaspending.gov/api/v2"

// DefaultTimeout bounds every upstream request.
const DefaultTimeout = 30 * time.Second

// ErrUpstreamUnavailable marks transport-level failures (DNS, connect,
// timeout). Callers match it with errors.Is.
var ErrUpstreamUnavailable = errors.New("usaspending: upstream unavailable")

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("usaspending: upstream status %d: %s", e.Code, e.Body)
}

// Client issues JSON requests against the USAspending API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New returns a Client rooted at baseURL. Empty baseURL and zero timeout
// fall back to the defaults.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Get performs a GET against endpoint with optional query params and
// returns the decoded JSON body unchanged.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (any, error) {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, u, nil)
}

// Post performs a JSON POST against endpoint and returns the decoded
// JSON body unchanged.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	return c.do(ctx, http.MethodPost, u, payload)
}

func (c *Client) do(ctx context.Context, method, rawURL string, payload []byte) (any, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Str("method", method).Str("url", rawURL).Err(err).Msg("upstream request failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("upstream request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: errorBody(resp.Body)}
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	return body, nil
}

// errorBody extracts a short message from an error response. The API
// reports errors as {"detail": "..."}; fall back to raw text.
func errorBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}
	return strings.TrimSpace(string(raw))
}
