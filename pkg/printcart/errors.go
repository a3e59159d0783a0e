package printcart

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error kinds. Every typed error below matches exactly one of these through
// errors.Is.
var (
	ErrConfiguration   = errors.New("configuration error")
	ErrUnknownResource = errors.New("unknown resource")
	ErrUnknownAction   = errors.New("unknown action")
	ErrTransport       = errors.New("transport error")
	ErrAPI             = errors.New("api error")
)

// Common static errors that can be wrapped with context.
var (
	ErrTransportRequired = errors.New("no transport configured")
	ErrEmptyMemberName   = errors.New("member name is empty")
	ErrInvalidDescriptor = errors.New("invalid resource descriptor")
	ErrDuplicateResource = errors.New("resource already registered")
	ErrRegistrySealed    = errors.New("registry is sealed, use Clone to extend it")
	ErrEmptyBody         = errors.New("response body is empty")
)

// ConfigurationError reports configuration that prevents a resource from
// being constructed.
type ConfigurationError struct {
	// Missing lists the required Config fields that were empty.
	Missing []string
	// Reason describes any other configuration problem.
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("username and password are required to access resources (missing: %s)", strings.Join(e.Missing, ", "))
	}

	if e.Reason != "" {
		return "invalid configuration: " + e.Reason
	}

	return "invalid configuration"
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// UnknownResourceError reports a resource name that is not registered at the
// top level, or that the host resource does not declare as a child.
type UnknownResourceError struct {
	// Resource is the requested name.
	Resource string
	// Host is the name of the resource the child was requested from.
	// Empty for top-level lookups.
	Host string
}

// Error implements the error interface.
func (e *UnknownResourceError) Error() string {
	if e.Host == "" {
		return fmt.Sprintf("invalid resource name %s, check the API reference for the available resources", e.Resource)
	}

	return fmt.Sprintf("child resource %s is not available for %s", e.Resource, e.Host)
}

// Is reports whether target is ErrUnknownResource.
func (e *UnknownResourceError) Is(target error) bool {
	return target == ErrUnknownResource
}

// UnknownActionError reports a custom action that the host resource does not declare.
type UnknownActionError struct {
	Action string
	Host   string
}

// Error implements the error interface.
func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("action %s is not available for %s", e.Action, e.Host)
}

// Is reports whether target is ErrUnknownAction.
func (e *UnknownActionError) Is(target error) bool {
	return target == ErrUnknownAction
}

// TransportError reports a request that failed at the transport level or
// completed with a status other than 200, 201 or 204.
type TransportError struct {
	Method string
	URL    string
	// StatusCode is 0 when no response was received.
	StatusCode int
	Body       []byte
	// APIError holds the error declared in the response body, if any.
	APIError *APIError
	// Err is the underlying transport failure, if any.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request %s %s failed: %v", e.Method, e.URL, e.Err)
	}

	msg := fmt.Sprintf("request failed with HTTP code %d", e.StatusCode)
	if e.APIError != nil && e.APIError.Message != "" {
		msg += ": " + e.APIError.Message
	}

	return msg
}

// Unwrap returns the underlying transport failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// APIError is an error condition declared by the API in a response body.
type APIError struct {
	StatusCode int                 `json:"-"`
	Code       string              `json:"code,omitempty"`
	Message    string              `json:"message"`
	Fields     map[string][]string `json:"fields,omitempty"`
	Body       []byte              `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown error"
	}

	if e.Code != "" {
		msg = fmt.Sprintf("%s (code: %s)", msg, e.Code)
	}

	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}

		sort.Strings(names)
		msg = fmt.Sprintf("%s [fields: %s]", msg, strings.Join(names, ", "))
	}

	return msg
}

// Is reports whether target is ErrAPI.
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// IsConfigurationError checks if the error is a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsUnknownResource checks if the error is an unknown resource error.
func IsUnknownResource(err error) bool {
	return errors.Is(err, ErrUnknownResource)
}

// IsTransportError checks if the error is a transport error.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsAPIError checks if the error is an error declared by the API.
func IsAPIError(err error) bool {
	return errors.Is(err, ErrAPI)
}

// StatusCode returns the HTTP status carried by a TransportError, or 0.
func StatusCode(err error) int {
	transportErr := &TransportError{}
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode
	}

	return 0
}

// IsNotFound checks if the error is a 404 transport error.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is a 401 transport error.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsRetryable reports whether a caller may reasonably retry the request:
// only transport errors without a status, 429 and 5xx qualify.
func IsRetryable(err error) bool {
	if !IsTransportError(err) {
		return false
	}

	code := StatusCode(err)

	return code == 0 || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
