package printcart_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/printcart/printcart-go/pkg/printcart"
	"github.com/stretchr/testify/require"
)

const (
	testUsername = "u"
	testPassword = "p"
	testBaseURL  = "https://api.printcart.com/v1/"
)

// recordingTransport records every request and answers with respond, or
// with an empty 200 when respond is nil.
type recordingTransport struct {
	mutex    sync.Mutex
	requests []*printcart.Request
	respond  func(req *printcart.Request) (*printcart.Response, error)
}

func (r *recordingTransport) Send(ctx context.Context, req *printcart.Request) (*printcart.Response, error) {
	r.mutex.Lock()
	r.requests = append(r.requests, req)
	r.mutex.Unlock()

	if r.respond == nil {
		return &printcart.Response{StatusCode: http.StatusOK, Body: []byte(`{"data":[]}`)}, nil
	}

	return r.respond(req)
}

func (r *recordingTransport) last(t *testing.T) *printcart.Request {
	t.Helper()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	require.NotEmpty(t, r.requests, "no request was sent")

	return r.requests[len(r.requests)-1]
}

func (r *recordingTransport) count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.requests)
}

func respondWith(status int, body string) func(*printcart.Request) (*printcart.Response, error) {
	return func(*printcart.Request) (*printcart.Response, error) {
		return &printcart.Response{StatusCode: status, Body: []byte(body)}, nil
	}
}

func newTestClient(t *testing.T, transport printcart.Transport, opts ...printcart.ClientOption) *printcart.Client {
	t.Helper()

	client, err := printcart.NewClient(&printcart.Config{
		Username:  testUsername,
		Password:  testPassword,
		Transport: transport,
	}, opts...)
	require.NoError(t, err)

	return client
}
