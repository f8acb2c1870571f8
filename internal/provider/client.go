package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout          = 30 * time.Second
	defaultMaxAttempts      = 3
	defaultRateLimitRetries = 3
	defaultBaseDelay        = 100 * time.Millisecond
	defaultRetryAfter       = 1 * time.Second
	defaultMaxRetryAfter    = 60 * time.Second
	maxResponseBytes        = 10 << 20
)

// Client performs HTTP calls against a single provider.
type Client struct {
	cfg     Config
	base    url.URL
	http    *http.Client
	timeout time.Duration

	maxAttempts      int
	rateLimitRetries int
	baseDelay        time.Duration
	maxRetryAfter    time.Duration
	sleep            func(ctx context.Context, d time.Duration) error
}

type Option func(client *Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		if httpClient != nil {
			client.http = httpClient
		}
	}
}

// WithTimeout overrides the per-request timeout, including the one of a
// client passed to WithHTTPClient, regardless of option order. Without it the
// client's own timeout is kept, falling back to the configured one.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		if timeout > 0 {
			client.timeout = timeout
		}
	}
}

// WithMaxAttempts sets the budget for connection failures and 5xx responses.
func WithMaxAttempts(attempts int) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.maxAttempts = attempts
		}
	}
}

// WithRateLimitRetries sets how many 429 responses are waited out before
// giving up. It is independent from WithMaxAttempts.
func WithRateLimitRetries(retries int) Option {
	return func(client *Client) {
		if retries >= 0 {
			client.rateLimitRetries = retries
		}
	}
}

func WithBaseDelay(delay time.Duration) Option {
	return func(client *Client) {
		client.baseDelay = delay
	}
}

func WithMaxRetryAfter(max time.Duration) Option {
	return func(client *Client) {
		client.maxRetryAfter = max
	}
}

// WithSleeper replaces how waits between attempts are performed.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(client *Client) {
		if sleep != nil {
			client.sleep = sleep
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ConfigurationError{Provider: cfg.ID, Details: "api key is required"}
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, &ConfigurationError{Provider: cfg.ID, Details: "base url is required"}
	}

	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &ConfigurationError{Provider: cfg.ID, Details: fmt.Sprintf("invalid base url %q", cfg.BaseURL)}
	}

	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	client := &Client{
		cfg:              cfg,
		base:             *base,
		http:             &http.Client{},
		maxAttempts:      defaultMaxAttempts,
		rateLimitRetries: defaultRateLimitRetries,
		baseDelay:        defaultBaseDelay,
		maxRetryAfter:    defaultMaxRetryAfter,
		sleep:            sleepContext,
	}

	for _, opt := range opts {
		opt(client)
	}

	// A shallow copy keeps the caller's client untouched.
	httpClient := *client.http
	switch {
	case client.timeout > 0:
		httpClient.Timeout = client.timeout
	case httpClient.Timeout == 0:
		httpClient.Timeout = timeout
	}
	client.http = &httpClient

	return client, nil
}

func (c *Client) ID() string {
	return c.cfg.ID
}

func (c *Client) Name() string {
	return c.cfg.DisplayName()
}

func (c *Client) Config() Config {
	return c.cfg
}

// Fetch issues a GET against endpoint and returns the raw response body.
//
// Connection failures and 5xx responses share one attempt budget with a
// backoff of baseDelay*attempt between tries. A 429 waits for Retry-After and
// is retried on a separate budget. 401/403 fail immediately with AuthError;
// any other non-2xx status fails immediately with ConfigurationError.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL, logURL := c.buildURL(endpoint, params)
	start := time.Now()

	attempts, rateLimited := 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, &NetworkError{Provider: c.cfg.ID, Details: err.Error(), Attempts: attempts, Err: err}
		}

		tryStart := time.Now()
		status, header, body, err := c.do(ctx, reqURL)
		durationMs := time.Since(tryStart).Milliseconds()

		if err != nil {
			attempts++
			slog.Warn("Network connection failed",
				"provider", c.cfg.ID,
				"url", logURL,
				"error", err,
				"attempt", attempts,
				"duration_ms", durationMs,
			)
			if ctx.Err() != nil || attempts >= c.maxAttempts {
				return nil, c.failed(&NetworkError{Provider: c.cfg.ID, Details: err.Error(), Attempts: attempts, Err: err}, logURL, start)
			}
			if err := c.sleep(ctx, c.backoff(attempts)); err != nil {
				return nil, &NetworkError{Provider: c.cfg.ID, Details: err.Error(), Attempts: attempts, Err: err}
			}
			continue
		}

		switch {
		case status >= 200 && status < 300:
			slog.Info("API request successful",
				"provider", c.cfg.ID,
				"url", logURL,
				"status", status,
				"attempt", attempts+1,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return body, nil

		case status == http.StatusTooManyRequests:
			rateLimited++
			wait := c.retryAfter(header)
			slog.Warn("API rate limited",
				"provider", c.cfg.ID,
				"url", logURL,
				"retry_after", wait,
				"rate_limited", rateLimited,
			)
			if rateLimited > c.rateLimitRetries {
				return nil, c.failed(&RateLimitedError{Provider: c.cfg.ID, RetryAfter: wait}, logURL, start)
			}
			if err := c.sleep(ctx, wait); err != nil {
				return nil, &NetworkError{Provider: c.cfg.ID, Details: err.Error(), Attempts: attempts, Err: err}
			}

		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return nil, c.failed(&AuthError{Provider: c.cfg.ID, StatusCode: status}, logURL, start)

		case status >= 500:
			attempts++
			slog.Warn("API request failed",
				"provider", c.cfg.ID,
				"url", logURL,
				"status", status,
				"attempt", attempts,
				"duration_ms", durationMs,
			)
			if attempts >= c.maxAttempts {
				return nil, c.failed(&UnavailableError{Provider: c.cfg.ID, StatusCode: status, Attempts: attempts}, logURL, start)
			}
			if err := c.sleep(ctx, c.backoff(attempts)); err != nil {
				return nil, &NetworkError{Provider: c.cfg.ID, Details: err.Error(), Attempts: attempts, Err: err}
			}

		default:
			details := fmt.Sprintf("unexpected status %d: %s", status, snippet(body))
			return nil, c.failed(&ConfigurationError{Provider: c.cfg.ID, Details: details}, logURL, start)
		}
	}
}

func (c *Client) failed(err error, logURL string, start time.Time) error {
	slog.Error("API request failed",
		"provider", c.cfg.ID,
		"url", logURL,
		"kind", Kind(err),
		"error", err,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return err
}

func (c *Client) do(ctx context.Context, reqURL string) (int, http.Header, []byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, nil, err
	}
	request.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(request)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp.StatusCode, resp.Header, body, nil
}

// buildURL returns the request url and a copy with the api key redacted for logs.
func (c *Client) buildURL(endpoint string, params url.Values) (string, string) {
	u := c.base.JoinPath(strings.TrimLeft(endpoint, "/"))

	q := url.Values{}
	for k, v := range c.cfg.DefaultParams {
		q.Set(k, v)
	}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}

	u.RawQuery = q.Encode()
	logURL := u.String()

	q.Set(c.cfg.keyParam(), c.cfg.APIKey)
	u.RawQuery = q.Encode()

	return u.String(), logURL
}

func (c *Client) backoff(attempt int) time.Duration {
	return c.baseDelay * time.Duration(attempt)
}

func (c *Client) retryAfter(header http.Header) time.Duration {
	wait, ok := parseRetryAfter(header.Get("Retry-After"))
	if !ok {
		wait = defaultRetryAfter
	}
	if c.maxRetryAfter > 0 && wait > c.maxRetryAfter {
		wait = c.maxRetryAfter
	}
	return wait
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if ctx == nil {
		return errors.New("provider retry: nil context")
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
