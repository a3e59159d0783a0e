package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	pchttp "github.com/printcart/printcart-go/internal/http"
	"github.com/printcart/printcart-go/pkg/printcart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	mutex sync.Mutex
	logs  []map[string]interface{}
}

func (l *MockLogger) add(level, msg string, fields map[string]interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.add("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.add("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.add("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.add("error", msg, fields) }

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Send(t *testing.T) {
	t.Parallel()

	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/products", request.URL.Path)
			assert.Equal(t, "limit=5", request.URL.RawQuery)
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, "Basic dTpw", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, "printcart-go/1.0", request.Header.Get("User-Agent"))
			assert.NotEmpty(t, request.Header.Get("X-Request-Id"))
			assert.Empty(t, request.Header.Get("Content-Type"))

			_ = json.NewEncoder(writer).Encode(map[string]any{"data": []map[string]string{{"id": "1"}}})
		}))
		defer server.Close()

		client := pchttp.NewClient()

		resp, err := client.Send(context.Background(), &printcart.Request{
			Method:  http.MethodGet,
			URL:     server.URL + "/v1/products?limit=5",
			Headers: map[string]string{"Authorization": "Basic dTpw"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"data":[{"id":"1"}]}`, string(resp.Body))
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			body, _ := io.ReadAll(request.Body)
			assert.JSONEq(t, `{"products":{"name":"Tee"}}`, string(body))

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := pchttp.NewClient()

		resp, err := client.Send(context.Background(), &printcart.Request{
			Method: http.MethodPost,
			URL:    server.URL + "/v1/products",
			Body:   []byte(`{"products":{"name":"Tee"}}`),
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("error status is returned as a response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"message":"not found"}`))
		}))
		defer server.Close()

		client := pchttp.NewClient()

		resp, err := client.Send(context.Background(), &printcart.Request{Method: http.MethodGet, URL: server.URL + "/v1/products/x"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"message":"not found"}`, string(resp.Body))
	})

	t.Run("server error without retries", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := pchttp.NewClient()

		resp, err := client.Send(context.Background(), &printcart.Request{Method: http.MethodGet, URL: server.URL})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("connection failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		serverURL := server.URL
		server.Close()

		client := pchttp.NewClient(pchttp.WithTimeout(time.Second))

		resp, err := client.Send(context.Background(), &printcart.Request{Method: http.MethodGet, URL: serverURL})
		require.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("custom user agent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "my-app/2.0", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := pchttp.NewClient(pchttp.WithUserAgent("my-app/2.0"))

		_, err := client.Send(context.Background(), &printcart.Request{Method: http.MethodGet, URL: server.URL})
		require.NoError(t, err)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := pchttp.NewClient(pchttp.WithLogger(logger), pchttp.WithDebug(true))

		_, err := client.Send(context.Background(), &printcart.Request{Method: http.MethodGet, URL: server.URL})
		require.NoError(t, err)

		// Should have logged request and response
		assert.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()

	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := pchttp.NewClient(pchttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Send(context.Background(), &printcart.Request{Method: http.MethodGet, URL: server.URL})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := pchttp.NewClient(pchttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Send(context.Background(), &printcart.Request{Method: http.MethodGet, URL: server.URL})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := pchttp.NewClient(pchttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Send(context.Background(), &printcart.Request{Method: http.MethodGet, URL: server.URL})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("retries replay the body", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			body, _ := io.ReadAll(request.Body)
			assert.JSONEq(t, `{"fonts":{"name":"Roboto"}}`, string(body))

			if attempts.Add(1) < 2 {
				writer.WriteHeader(http.StatusBadGateway)
			} else {
				writer.WriteHeader(http.StatusCreated)
			}
		}))
		defer server.Close()

		client := pchttp.NewClient(pchttp.WithRetryConfig(2, 10*time.Millisecond, 50*time.Millisecond))

		resp, err := client.Send(context.Background(), &printcart.Request{
			Method: http.MethodPost,
			URL:    server.URL,
			Body:   []byte(`{"fonts":{"name":"Roboto"}}`),
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})
}
