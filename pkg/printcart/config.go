package printcart

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/printcart/printcart-go/internal/constants"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a printcart.Client.
//
// A Config is applied wholesale: Client.Configure never merges a new Config
// with the previous one, so fields left empty fall back to their defaults and
// not to earlier values.
//
// # Credentials
//
// Username and Password are both required before any Resource can be
// constructed. Configuring without them is allowed, but every subsequent
// resource accessor fails with a ConfigurationError.
//
// # Transport options
//
// HTTPTimeout, RetryMax, RetryWaitMin, RetryWaitMax, Debug, Logger and
// UserAgent are forwarded to the transport builder installed by pcclient.
// The SDK itself never retries; RetryMax is a transport override and is 0
// unless set.
type Config struct {
	// Username: account username sent with basic auth.
	Username string `validate:"required"`
	// Password: account password sent with basic auth.
	Password string `validate:"required"`

	// APIVersion: API version path segment. Defaults to "v1".
	APIVersion string
	// APIURL: API root without version. Defaults to "https://api.printcart.com".
	APIURL string

	// HTTPTimeout: per-request timeout applied by the default transport.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of transport-level retries (0 disables them).
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the client and the transport.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the transport.
	UserAgent string

	// Transport: injected transport. When nil, the client's transport builder is used.
	Transport Transport
	// ErrorDecoder: detects API errors declared in response bodies.
	// Defaults to DecodeAPIError.
	ErrorDecoder ErrorDecoder
	// Interceptors: optional request/response hooks wrapped around the transport.
	Interceptors *InterceptorChain
	// Cache: optional GET response cache.
	Cache Cache
	// CacheTTL: lifetime of cached responses. Defaults to five minutes.
	CacheTTL time.Duration
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// APIBaseURL returns the versioned API root, always ending in a slash.
func (c *Config) APIBaseURL() string {
	apiURL := c.APIURL
	if apiURL == "" {
		apiURL = constants.DefaultAPIURL
	}

	version := c.APIVersion
	if version == "" {
		version = constants.DefaultAPIVersion
	}

	return strings.TrimSuffix(apiURL, "/") + "/" + strings.Trim(version, "/") + "/"
}

// ValidateCredentials reports a ConfigurationError when the username or
// password is missing.
func (c *Config) ValidateCredentials() error {
	err := validate.StructPartial(c, "Username", "Password")
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		missing := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			missing = append(missing, fieldErr.Field())
		}

		return &ConfigurationError{Missing: missing}
	}

	return &ConfigurationError{Reason: err.Error()}
}

// withDefaults returns a copy of the config with empty fields defaulted.
func (c Config) withDefaults() Config {
	if c.APIURL == "" {
		c.APIURL = constants.DefaultAPIURL
	}

	c.APIURL = strings.TrimSuffix(c.APIURL, "/")

	if c.APIVersion == "" {
		c.APIVersion = constants.DefaultAPIVersion
	}

	if c.ErrorDecoder == nil {
		c.ErrorDecoder = DecodeAPIError
	}

	if c.CacheTTL <= 0 {
		c.CacheTTL = constants.DefaultCacheTTL
	}

	return c
}
