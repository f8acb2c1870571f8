package provider

import (
	"errors"
	"fmt"
	"time"
)

// AuthError is returned for 401/403 responses. It is never retried.
type AuthError struct {
	Provider   string
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: invalid or missing api key (status %d)", e.Provider, e.StatusCode)
}

// RateLimitedError is returned once the rate-limit retry budget is spent.
type RateLimitedError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: rate limit exceeded, retry after %ds", e.Provider, e.RetryAfterSeconds())
}

func (e *RateLimitedError) RetryAfterSeconds() int {
	return int(e.RetryAfter / time.Second)
}

// UnavailableError is returned when the provider keeps answering with 5xx.
type UnavailableError struct {
	Provider   string
	StatusCode int
	Attempts   int
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: api unavailable (status %d after %d attempts)", e.Provider, e.StatusCode, e.Attempts)
}

// NetworkError is returned when the connection-level attempt budget is spent.
type NetworkError struct {
	Provider string
	Details  string
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error after %d attempts: %s", e.Provider, e.Attempts, e.Details)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ConfigurationError marks a provider whose configuration or request is unusable.
type ConfigurationError struct {
	Provider string
	Details  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: configuration error: %s", e.Provider, e.Details)
}

const (
	KindAuth          = "auth"
	KindRateLimited   = "rate_limited"
	KindUnavailable   = "unavailable"
	KindNetwork       = "network"
	KindConfiguration = "configuration"
	KindUnknown       = "unknown"
)

// Kind classifies err into one of the fetch error kinds for logging.
func Kind(err error) string {
	var (
		authErr   *AuthError
		rateErr   *RateLimitedError
		unavErr   *UnavailableError
		netErr    *NetworkError
		configErr *ConfigurationError
	)
	switch {
	case errors.As(err, &authErr):
		return KindAuth
	case errors.As(err, &rateErr):
		return KindRateLimited
	case errors.As(err, &unavErr):
		return KindUnavailable
	case errors.As(err, &netErr):
		return KindNetwork
	case errors.As(err, &configErr):
		return KindConfiguration
	default:
		return KindUnknown
	}
}
