// internal/client/client.go
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dhwani-ris/frappe-desk-theme/internal/theme"
)

// ThemeMethodPath is the whitelisted server method that returns the desk
// theme document.
const ThemeMethodPath = "/api/method/frappe_desk_theme.api.get_custom_theme"

const defaultTimeout = 10 * time.Second

// Maximum response body we are willing to read; theme documents are small.
const maxBodyBytes = 1 << 20

// ErrUnexpectedStatus marks non-2xx responses from the theme endpoint.
var ErrUnexpectedStatus = errors.New("theme endpoint returned unexpected status")

// Client fetches theme documents from the admin console server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New creates a theme client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("server base URL is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid server base URL %q", baseURL)
	}

	c := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchTheme retrieves and decodes the current theme document. Non-2xx
// statuses and empty payloads are failures; the caller decides whether to
// fall back to cached state.
func (c *Client) FetchTheme(ctx context.Context) (*theme.Config, error) {
	fetchID := uuid.New().String()
	logger := log.Ctx(ctx).With().Str("fetch_id", fetchID).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ThemeMethodPath, nil)
	if err != nil {
		return nil, fmt.Errorf("building theme request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", fetchID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching theme: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.Warn().
			Int("status", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("Theme fetch failed")
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading theme response: %w", err)
	}

	cfg, err := theme.Decode(body)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Dur("duration", time.Since(start)).
		Msg("Theme fetched")
	return cfg, nil
}
