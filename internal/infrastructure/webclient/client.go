package webclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/webpilot/backend/internal/infrastructure/config"
	"github.com/webpilot/backend/internal/infrastructure/resilience"
)

// Client fetches pages on behalf of agent sessions. It wraps resty with
// retries, per-client rate limiting, and a shared circuit breaker so one
// failing site cannot drag every task down with it.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	mu      sync.RWMutex
}

// Page is a fetched document.
type Page struct {
	// URL is the final URL after redirects.
	URL string
	// Body is the raw response body.
	Body []byte
	// StatusCode is the HTTP status of the final response.
	StatusCode int
}

// New creates a page-fetch client from configuration.
func New(cfg config.WebConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 15 * time.Second
	retryClient.Logger = nil

	restyClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(15 * time.Second).
		SetHeader("User-Agent", "WebPilot/1.0")
	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	breaker := resilience.New("web-fetch", resilience.Settings{
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			// External sites vary in reliability; trip only on sustained
			// failure, not the occasional flake.
			return counts.ConsecutiveFailures >= 10 ||
				(counts.Requests >= 20 && float64(counts.TotalFailures)/float64(counts.Requests) > 0.7)
		},
	})

	return &Client{
		resty:   restyClient,
		limiter: newLimiter(cfg.RequestsPerSecond),
		breaker: breaker,
	}
}

// SetRateLimit caps outbound fetches at rps requests per second. Zero or
// negative removes the cap.
func (c *Client) SetRateLimit(rps float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.limiter = newLimiter(rps)
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// SetHeader adds a default header to every fetch.
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.SetHeader(key, value)
}

// Fetch GETs url and returns the document. The rate limiter gates entry
// and the breaker records the outcome; an open breaker fails immediately.
func (c *Client) Fetch(ctx context.Context, url string) (*Page, error) {
	if c.breaker.State() == resilience.StateOpen {
		return nil, resilience.ErrCircuitOpen
	}

	c.mu.RLock()
	limiter := c.limiter
	c.mu.RUnlock()
	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var page *Page
	err := c.breaker.Do(func() error {
		c.mu.RLock()
		req := c.resty.R().SetContext(ctx)
		c.mu.RUnlock()

		resp, err := req.Get(url)
		if err != nil {
			return err
		}
		if resp.StatusCode() >= 500 {
			return fmt.Errorf("fetch %s: upstream returned %d", url, resp.StatusCode())
		}

		page = &Page{
			URL:        resp.RawResponse.Request.URL.String(),
			Body:       resp.Body(),
			StatusCode: resp.StatusCode(),
		}
		return nil
	})
	if err == resilience.ErrCircuitOpen {
		return nil, fmt.Errorf("site unavailable: circuit breaker open")
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// BreakerState exposes the breaker state for health reporting.
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// BreakerCounts exposes the breaker statistics for health reporting.
func (c *Client) BreakerCounts() resilience.Counts {
	return c.breaker.Counts()
}
