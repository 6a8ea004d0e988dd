package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/status-im/proxy-gatekeeper/dispatch"
	"github.com/status-im/proxy-gatekeeper/keypool"
)

// RequestFunc builds a fresh request for every attempt, so request bodies
// can be replayed on retry
type RequestFunc func(ctx context.Context) (*http.Request, error)

// Response is the outcome of the successful attempt
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// StatusError is returned for non-2xx upstream responses
type StatusError struct {
	StatusCode int
	RetryAfter string
	Body       string
	Duration   time.Duration
}

func (e *StatusError) Error() string {
	if e.StatusCode == http.StatusTooManyRequests {
		return fmt.Sprintf("rate limit exceeded (status %d), retry after %s: %s",
			e.StatusCode, e.RetryAfter, e.Body)
	}
	return fmt.Sprintf("API request failed with status %d after %.2fs: %s",
		e.StatusCode, e.Duration.Seconds(), e.Body)
}

// Retryable reports whether another key may succeed where this one failed
func (e *StatusError) Retryable() bool {
	return isRetryableStatus(e.StatusCode)
}

// Client sends upstream requests authenticated with a pool key
type Client struct {
	client *http.Client
	opts   Options
}

func New(opts Options) *Client {
	client := &http.Client{
		Timeout: opts.RequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: opts.ConnectionTimeout,
			}).DialContext,
		},
	}

	return &Client{client: client, opts: opts}
}

// Executor adapts the client to a dispatch.Executor. The response of the
// successful attempt is stored in out. Retryable statuses (429, 5xx) and
// transport errors are returned as plain errors so the dispatcher moves on to
// another key; every other non-2xx status is permanent.
func (c *Client) Executor(build RequestFunc, out *Response) dispatch.Executor {
	return func(ctx context.Context, key *keypool.Key) error {
		req, err := build(ctx)
		if err != nil {
			return dispatch.Permanent(fmt.Errorf("failed to build request: %w", err))
		}
		c.authorize(req, key)

		resp, err := c.Send(req)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !statusErr.Retryable() {
				return dispatch.Permanent(err)
			}
			return err
		}

		if out != nil {
			*out = *resp
		}
		return nil
	}
}

// Send executes a single request and reads the full response body
func (c *Client) Send(req *http.Request) (*Response, error) {
	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("request failed after %.2fs: %w", duration.Seconds(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			RetryAfter: resp.Header.Get("Retry-After"),
			Body:       string(body),
			Duration:   duration,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Duration:   duration,
	}, nil
}

func (c *Client) authorize(req *http.Request, key *keypool.Key) {
	if c.opts.AuthHeader == "" {
		return
	}
	value := key.Value()
	if c.opts.AuthScheme != "" {
		value = c.opts.AuthScheme + " " + value
	}
	req.Header.Set(c.opts.AuthHeader, value)
}

// isRetryableStatus determines if a given HTTP status code should trigger a retry
func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusInternalServerError ||
		statusCode == http.StatusBadGateway ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout
}
