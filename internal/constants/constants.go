package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API defaults.
const (
	// DefaultAPIURL is the root of the hosted Printcart API.
	DefaultAPIURL = "https://api.printcart.com"

	// DefaultAPIVersion is the API version used when none is configured.
	DefaultAPIVersion = "v1"

	// DefaultUserAgent is sent when no user agent override is configured.
	DefaultUserAgent = "printcart-go/1.0"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Transport retry settings. The SDK itself never retries; these only apply
// when a caller opts in through the transport options.
const (
	// DefaultRetryWaitMin is the minimum wait between transport retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// HTTP status codes the response processor treats as success.
const (
	HTTPStatusOK        = 200
	HTTPStatusCreated   = 201
	HTTPStatusNoContent = 204
)

// URL suffixes used by the collection endpoints.
const (
	CountSuffix = "/count"
	BatchSuffix = "/batch"
)

// Cache settings.
const (
	// DefaultCacheSize is the maximum number of entries in the memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the lifetime of a cached GET response.
	DefaultCacheTTL = 5 * time.Minute

	// MaxCacheValueSize bounds the size of a single cached response.
	MaxCacheValueSize = 1024 * 1024

	// DefaultNATSBucket is the JetStream KV bucket used by the NATS cache.
	DefaultNATSBucket = "printcart-cache"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
	FormatRaw   = "raw"
)

// Display helpers.
const (
	// JSONIndentSize is the indentation width for pretty printed JSON.
	JSONIndentSize = 2

	// StringTruncationLength bounds table cell widths.
	StringTruncationLength = 80

	// MaskedSecret replaces secrets in displayed configuration.
	MaskedSecret = "***"
)
