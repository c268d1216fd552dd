package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultMaxAttempts = 4
	defaultTimeout     = 60 * time.Second
	defaultMinInterval = 250 * time.Millisecond
	defaultBackoffBase = 1 * time.Second
	defaultBackoffStep = 1500 * time.Millisecond
)

// Outcome is the result of one fetch: the last HTTP status observed and the
// response body, if any. A retryable status that survives the attempt budget
// is returned as-is; callers must check StatusCode.
type Outcome struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the outcome carries a 200 response.
func (o Outcome) OK() bool { return o.StatusCode == http.StatusOK }

// Client wraps http.Client with global request pacing and bounded retry on
// rate-limit and server-side failures.
type Client struct {
	HTTPClient *http.Client
	// UserAgent identifies the client to the remote service. EDGAR policy
	// requires a descriptive identity with a reachable contact address.
	UserAgent string
	// MaxAttempts includes the initial attempt. Minimum 1, default 4.
	MaxAttempts int
	// PerRequestTimeout bounds each request. Default 60s.
	PerRequestTimeout time.Duration
	// MinInterval is the minimum delay enforced before every outbound
	// request, including the first, independent of success or failure.
	// Zero means the default 250ms; negative disables pacing.
	MinInterval time.Duration
	// BackoffBase and BackoffStep shape the sleep between retryable
	// attempts: BackoffBase + attempt*BackoffStep. Defaults 1s and 1.5s.
	BackoffBase time.Duration
	BackoffStep time.Duration

	pacer     *rate.Limiter
	pacerOnce sync.Once
}

// Get issues a paced GET and retries on 429, 5xx, and transport-level
// failures with an increasing backoff. Any other status returns immediately.
// When attempts run out the last observed outcome is returned rather than an
// error, so a 429/5xx that never cleared still surfaces as an Outcome.
func (c *Client) Get(ctx context.Context, rawURL string) (Outcome, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	var last Outcome
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := c.pace(ctx); err != nil {
			return last, err
		}
		out, err := c.tryOnce(ctx, rawURL)
		if err == nil {
			last, lastErr = out, nil
			if !retryable(out.StatusCode) {
				return out, nil
			}
		} else {
			last, lastErr = Outcome{}, err
		}
		if i < attempts-1 {
			if err := sleepCtx(ctx, c.backoff(i)); err != nil {
				return last, err
			}
		}
	}
	return last, lastErr
}

// GetJSON is Get plus a status gate and a JSON decode of the body. Unlike
// Get, a terminal non-2xx status after retries are exhausted is a hard
// error, as is an undecodable body.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	out, err := c.Get(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("get %s: %w", rawURL, err)
	}
	if out.StatusCode < 200 || out.StatusCode > 299 {
		return fmt.Errorf("get %s: status %d", rawURL, out.StatusCode)
	}
	if err := json.Unmarshal(out.Body, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

func (c *Client) tryOnce(ctx context.Context, rawURL string) (Outcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Outcome{}, fmt.Errorf("new request: %w", err)
	}
	if req.URL == nil || !isHTTPScheme(req.URL) {
		return Outcome{}, fmt.Errorf("unsupported URL scheme: %q", rawURL)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	timeout := c.PerRequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	reqCtx, cancel := context.WithTimeout(req.Context(), timeout)
	defer cancel()
	req = req.WithContext(reqCtx)

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return Outcome{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, fmt.Errorf("read body: %w", err)
	}
	return Outcome{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// pace waits for the global minimum inter-request delay. The pacer starts
// drained so the delay applies to the very first request as well.
func (c *Client) pace(ctx context.Context) error {
	interval := c.MinInterval
	if interval < 0 {
		return nil
	}
	if interval == 0 {
		interval = defaultMinInterval
	}
	c.pacerOnce.Do(func() {
		c.pacer = rate.NewLimiter(rate.Every(interval), 1)
		c.pacer.Allow()
	})
	return c.pacer.Wait(ctx)
}

func (c *Client) backoff(attempt int) time.Duration {
	base := c.BackoffBase
	if base <= 0 {
		base = defaultBackoffBase
	}
	step := c.BackoffStep
	if step <= 0 {
		step = defaultBackoffStep
	}
	return base + time.Duration(attempt)*step
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status <= 599)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
