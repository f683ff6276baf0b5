// Package client talks to the KuantoKusta public JSON API. Every operation
// issues exactly one GET and returns typed, validated records or an error
// classified by the domain error sentinels.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"kuantokusta/internal/domain"

	"go.uber.org/zap"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 16 << 20

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the KuantoKusta API client
type Client struct {
	baseURL string
	siteURL string
	http    Doer
	logger  *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the transport used for every request
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// WithSiteURL sets the base URL of the server-rendered website
func WithSiteURL(u string) Option {
	return func(c *Client) {
		c.siteURL = strings.TrimRight(u, "/")
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}


// getJSON performs one GET against the API and decodes the body into out.
// Unknown fields are ignored.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.get(ctx, c.baseURL+path, query, "application/json")
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrDecode, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string, query url.Values, accept string) ([]byte, error) {
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, domain.InvalidArgument("bad request url %q: %v", rawURL, err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "pt-PT,pt;q=0.9,en;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", domain.ErrNetwork, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrNetwork, req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
		c.logger.Debug("Upstream returned an error",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return nil, fmt.Errorf("GET %s: %w", req.URL.Path, apiErr)
	}

	return body, nil
}

// upstreamError is the error envelope the API uses for most failures
type upstreamError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// errorMessage extracts a short human message from an error body
func errorMessage(body []byte) string {
	var e upstreamError
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}

	msg := strings.TrimSpace(string(body))
	if strings.HasPrefix(msg, "{") || strings.HasPrefix(msg, "<") {
		return ""
	}
	if runes := []rune(msg); len(runes) > 200 {
		msg = string(runes[:200])
	}
	return msg
}

// IsNotFound reports whether err is an API 404
func IsNotFound(err error) bool {
	var apiErr *domain.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
