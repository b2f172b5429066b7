package transferatu

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

	"github.com/hashicorp/go-cleanhttp"
	"github.com/ochronus/xfrtuc/internal/services/retry"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the production transferatu endpoint.
	DefaultBaseURL = "https://transferatu.heroku.com"

	// DefaultRetries is the number of retries after the first attempt for
	// idempotent requests.
	DefaultRetries = 3

	timeout = 30 * time.Second
)

// Client talks to a transferatu service with HTTP Basic credentials. A
// Client is rooted at a base URL; Group returns a client rooted at a single
// group, which is what the Transfers and Schedules endpoints expect.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *logrus.Logger

	retries    int
	retryDelay time.Duration
}

var _ ClientAPI = (*Client)(nil)

// Option allows customizing the client during construction.
type Option func(*Client)

// WithBaseURL points the client at another service, such as a local fake.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the pooled HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithRetries sets how many times a failed GET or DELETE is retried.
// Negative values are treated as zero.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n < 0 {
			n = 0
		}
		c.retries = n
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new transferatu client
func NewClient(username, password string, opts ...Option) *Client {
	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = timeout

	c := &Client{
		baseURL:    DefaultBaseURL,
		username:   username,
		password:   password,
		httpClient: httpClient,
		logger:     logrus.StandardLogger(),
		retries:    DefaultRetries,
		retryDelay: retry.DefaultBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the URL every request path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Group returns a client with the same credentials rooted at the named
// group. The name is path-escaped, so it may contain slashes.
func (c *Client) Group(name string) *Client {
	scoped := *c
	scoped.baseURL = c.baseURL + "/groups/" + url.PathEscape(name)
	return &scoped
}

// Groups returns the group endpoint.
func (c *Client) Groups() *GroupClient {
	return &GroupClient{client: c}
}

// Transfers returns the transfer endpoint. Call it on a group client.
func (c *Client) Transfers() *TransferClient {
	return &TransferClient{client: c}
}

// Schedules returns the schedule endpoint. Call it on a group client.
func (c *Client) Schedules() *ScheduleClient {
	return &ScheduleClient{client: c}
}

// Get issues a GET for path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with body encoded as JSON and decodes the response into
// out. POSTs are never retried.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Delete issues a DELETE for path and decodes the JSON response into out.
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, target, err)
		}
	}

	attempts := 1
	if method == http.MethodGet || method == http.MethodDelete {
		attempts = c.retries + 1
	}

	cfg := retry.Config{
		Attempts:    attempts,
		BaseDelay:   c.retryDelay,
		ShouldRetry: retry.IsRetryable,
		DelayFunc: func(_ int, err error, backoff time.Duration) time.Duration {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return retry.RetryAfterDelay(apiErr.retryAfter, backoff)
			}
			return backoff
		},
	}

	err := retry.Do(ctx, cfg, func(attempt int) error {
		return c.attempt(ctx, method, target, payload, out, attempt)
	})
	return retry.Unwrap(err)
}

// attempt performs a single round trip. Transport failures, 5xx and 429
// responses come back wrapped in a retry.RetryableError.
func (c *Client) attempt(ctx context.Context, method, target string, payload []byte, out interface{}, attempt int) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, target, err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.WithFields(logrus.Fields{
		"method":  method,
		"url":     target,
		"attempt": attempt + 1,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Debug("request failed")
		return retry.Retryable(fmt.Errorf("%s %s: %w", method, target, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return retry.Retryable(fmt.Errorf("read %s %s response: %w", method, target, err))
	}

	log.WithField("status", resp.StatusCode).Debug("request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(method, target, resp, data)
		if retry.StatusRetryable(resp.StatusCode) {
			return retry.Retryable(apiErr)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, target, err)
	}
	return nil
}
