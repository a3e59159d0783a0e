package printcart

import (
	"context"
	"net/http"
)

// Request is a single HTTP request issued through a Transport.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	// Metadata carries values between interceptors. It is never sent.
	Metadata map[string]interface{}
}

// Response is the result of a Transport call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Transport issues a single HTTP request and returns its status and body.
//
// A Transport returns a non-nil error only when no response could be
// obtained (network failure, timeout); non-success statuses are returned as
// a Response and interpreted by the resource layer.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Send implements Transport.
func (f TransportFunc) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// TransportBuilder creates the transport for a configuration. It receives
// the configuration with defaults applied.
type TransportBuilder func(config *Config) (Transport, error)
