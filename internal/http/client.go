// Package http provides the default printcart.Transport, built on
// go-retryablehttp.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/printcart/printcart-go/internal/constants"
	"github.com/printcart/printcart-go/pkg/printcart"
)

// Client sends printcart requests over HTTP.
type Client struct {
	httpClient *retryablehttp.Client
	logger     printcart.Logger
	userAgent  string
	debug      bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger printcart.Logger) Option {
	return func(c *Client) {
		c.logger = logger
		if logger != nil {
			c.httpClient.Logger = retryLogger{logger: logger}
		}
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig enables retries on connection errors, 429 and 5xx.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax

		if waitMin > 0 {
			c.httpClient.RetryWaitMin = waitMin
		}

		if waitMax > 0 {
			c.httpClient.RetryWaitMax = waitMax
		}
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client, e.g. to use a test
// server's TLS configuration.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient.HTTPClient = httpClient
		}
	}
}

// NewClient creates a new HTTP client. Retries are disabled unless
// WithRetryConfig is given.
func NewClient(opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.CheckRetry = retryablehttp.DefaultRetryPolicy
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		httpClient: retryClient,
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Send implements printcart.Transport. Every status is returned as a
// Response; the error is non-nil only when no response was received.
func (c *Client) Send(ctx context.Context, req *printcart.Request) (*printcart.Response, error) {
	var body interface{}
	if req.Body != nil {
		body = req.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-Id", requestID)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":     req.Method,
			"url":        req.URL,
			"request_id": requestID,
			"body_bytes": len(req.Body),
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status_code": httpResp.StatusCode,
			"request_id":  requestID,
			"duration":    time.Since(start).String(),
			"body":        truncate(respBody),
		})
	}

	return &printcart.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

func truncate(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) <= constants.StringTruncationLength {
		return string(body)
	}

	return string(body[:constants.StringTruncationLength]) + "..."
}

// retryLogger forwards go-retryablehttp warnings and errors. Its per-attempt
// debug lines are dropped in favor of the HTTP Request/Response entries.
type retryLogger struct {
	logger printcart.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, pairs(keysAndValues))
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, pairs(keysAndValues))
}

func (l retryLogger) Debug(string, ...interface{}) {}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, pairs(keysAndValues))
}

func pairs(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}
