package printcart

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by the circuit breaker interceptor while it rejects requests.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// RequestInterceptor is called before a request is sent. It may modify the request.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after the transport returns. resp is nil when
// sendErr reports that no response was received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response, sendErr error) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	mutex                sync.RWMutex
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	c.mutex.RLock()
	interceptors := c.requestInterceptors
	c.mutex.RUnlock()

	for _, interceptor := range interceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response, sendErr error) error {
	c.mutex.RLock()
	interceptors := c.responseInterceptors
	c.mutex.RUnlock()

	for _, interceptor := range interceptors {
		err := interceptor(ctx, req, resp, sendErr)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// Wrap returns a Transport that runs the chain around next.
func (c *InterceptorChain) Wrap(next Transport) Transport {
	if next == nil {
		return nil
	}

	return TransportFunc(func(ctx context.Context, req *Request) (*Response, error) {
		err := c.ExecuteRequestInterceptors(ctx, req)
		if err != nil {
			return nil, err
		}

		resp, sendErr := next.Send(ctx, req)

		err = c.ExecuteResponseInterceptors(ctx, req, resp, sendErr)
		if err != nil {
			return nil, err
		}

		return resp, sendErr
	})
}

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   requestPath(req.URL),
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response, sendErr error) error {
		fields := map[string]interface{}{
			"method": req.Method,
			"path":   requestPath(req.URL),
		}

		if resp != nil {
			fields["status_code"] = resp.StatusCode
		}

		switch {
		case sendErr != nil:
			fields["error"] = sendErr.Error()
			logger.Error("API Response Error", fields)
		case resp != nil && !IsSuccessStatus(resp.StatusCode):
			logger.Warn("API Response", fields)
		default:
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(map[string]string, len(headers))
		}

		for key, value := range headers {
			req.Headers[key] = value
		}

		return nil
	}
}

// Metrics holds the counters of one endpoint.
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector collects API metrics keyed by "METHOD /path".
type MetricsCollector struct {
	mutex    sync.Mutex
	metrics  map[string]*Metrics
	onChange func(endpoint string, metrics Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange sets a callback for when metrics change.
func (m *MetricsCollector) SetOnChange(fn func(endpoint string, metrics Metrics)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.onChange = fn
}

// GetMetrics returns a copy of the metrics for an endpoint.
func (m *MetricsCollector) GetMetrics(endpoint string) (Metrics, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		return Metrics{}, false
	}

	return *metrics, true
}

func (m *MetricsCollector) record(endpoint string, latency time.Duration, failed bool) {
	m.mutex.Lock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		metrics = &Metrics{}
		m.metrics[endpoint] = metrics
	}

	metrics.TotalRequests++
	metrics.LastRequestTime = time.Now()

	if latency > 0 {
		metrics.TotalLatency += latency
		metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)
	}

	if failed {
		metrics.TotalErrors++
	}

	snapshot := *metrics
	onChange := m.onChange

	m.mutex.Unlock()

	if onChange != nil {
		onChange(endpoint, snapshot)
	}
}

const metadataStartTime = "start_time"

// MetricsRequestInterceptor records request start time.
func MetricsRequestInterceptor(collector *MetricsCollector) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[metadataStartTime] = time.Now()

		return nil
	}
}

// MetricsResponseInterceptor records response metrics.
func MetricsResponseInterceptor(collector *MetricsCollector) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response, sendErr error) error {
		var latency time.Duration

		if startTime, ok := req.Metadata[metadataStartTime].(time.Time); ok {
			latency = time.Since(startTime)
		}

		failed := sendErr != nil || resp == nil || !IsSuccessStatus(resp.StatusCode)
		collector.record(req.Method+" "+requestPath(req.URL), latency, failed)

		return nil
	}
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	Threshold        int           // Number of failures before opening
	Timeout          time.Duration // Time before trying again
	SuccessThreshold int           // Number of successes to close
}

// Circuit states.
const (
	CircuitClosed   = "closed"
	CircuitOpen     = "open"
	CircuitHalfOpen = "half-open"
)

// CircuitBreaker stops sending requests after repeated transport failures
// or 5xx responses, until Timeout has elapsed.
type CircuitBreaker struct {
	mutex       sync.Mutex
	config      CircuitBreakerConfig
	failures    int
	successes   int
	state       string
	lastFailure time.Time
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = &CircuitBreakerConfig{
			Threshold:        5,
			Timeout:          30 * time.Second,
			SuccessThreshold: 2,
		}
	}

	return &CircuitBreaker{
		config: *config,
		state:  CircuitClosed,
	}
}

// State returns the current circuit state.
func (b *CircuitBreaker) State() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.state
}

// CircuitBreakerRequestInterceptor checks circuit state before requests.
func CircuitBreakerRequestInterceptor(breaker *CircuitBreaker) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		breaker.mutex.Lock()
		defer breaker.mutex.Unlock()

		if breaker.state == CircuitOpen {
			if time.Since(breaker.lastFailure) <= breaker.config.Timeout {
				return ErrCircuitOpen
			}

			breaker.state = CircuitHalfOpen
			breaker.successes = 0
		}

		return nil
	}
}

// CircuitBreakerResponseInterceptor updates circuit state based on responses.
func CircuitBreakerResponseInterceptor(breaker *CircuitBreaker) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response, sendErr error) error {
		breaker.mutex.Lock()
		defer breaker.mutex.Unlock()

		if sendErr != nil || resp == nil || resp.StatusCode >= 500 {
			breaker.failures++
			breaker.lastFailure = time.Now()

			if breaker.failures >= breaker.config.Threshold || breaker.state == CircuitHalfOpen {
				breaker.state = CircuitOpen
			}

			return nil
		}

		switch breaker.state {
		case CircuitHalfOpen:
			breaker.successes++
			if breaker.successes >= breaker.config.SuccessThreshold {
				breaker.state = CircuitClosed
				breaker.failures = 0
			}
		case CircuitClosed:
			breaker.failures = 0
		}

		return nil
	}
}

func requestPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	return parsed.Path
}
