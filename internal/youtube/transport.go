package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	yt "github.com/kkdai/youtube/v2"
)

// RetryConfig controls retry/backoff for metadata requests to YouTube.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func normalizeRetryConfig(cfg RetryConfig) RetryConfig {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 3 * time.Second
	}
	return cfg
}

func (c RetryConfig) backoffFor(attempt int) time.Duration {
	backoff := c.InitialBackoff
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > c.MaxBackoff {
			return c.MaxBackoff
		}
	}
	return backoff
}

// Permanent failures: retrying cannot change the answer.
var permanentErrors = []error{
	yt.ErrLoginRequired,
	yt.ErrVideoPrivate,
	yt.ErrNotPlayableInEmbed,
	yt.ErrInvalidPlaylist,
	yt.ErrInvalidCharactersInVideoID,
	yt.ErrVideoIDMinLength,
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	for _, perm := range permanentErrors {
		if errors.Is(err, perm) {
			return false
		}
	}
	var statusErr *yt.ErrPlayabiltyStatus
	return !errors.As(err, &statusErr)
}

func waitBackoff(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func withRetry[T any](ctx context.Context, cfg RetryConfig, fn func(context.Context) (T, error)) (T, error) {
	cfg = normalizeRetryConfig(cfg)
	var (
		out     T
		lastErr error
	)
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		out, lastErr = fn(ctx)
		if lastErr == nil {
			return out, nil
		}
		if attempt == cfg.MaxRetries || !isRetryableError(lastErr) {
			break
		}
		if err := waitBackoff(ctx, cfg.backoffFor(attempt)); err != nil {
			return out, err
		}
	}
	return out, lastErr
}

// NewHTTPClient returns the base HTTP client for YouTube requests.
// An invalid or empty proxy URL leaves the default transport in place.
func NewHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	c := &http.Client{Timeout: timeout}
	if strings.TrimSpace(proxyURL) == "" {
		return c
	}
	parsed, err := url.Parse(proxyURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return c
	}
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return c
	}
	transport := baseTransport.Clone()
	transport.Proxy = http.ProxyURL(parsed)
	c.Transport = transport
	return c
}

// withJar returns a shallow copy of base using jar. base itself is never mutated.
func withJar(base *http.Client, jar http.CookieJar) *http.Client {
	if base == nil {
		base = &http.Client{}
	}
	if jar == nil {
		return base
	}
	c := *base
	c.Jar = jar
	return &c
}
