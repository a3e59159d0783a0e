package pcclient

import (
	"strings"

	pchttp "github.com/printcart/printcart-go/internal/http"
	"github.com/printcart/printcart-go/pkg/printcart"
)

// New creates a Printcart client that sends requests over HTTP.
//
// cfg may be nil, in which case the client is created with defaults and every
// resource accessor fails with a ConfigurationError until Configure is called
// with credentials.
func New(cfg *printcart.Config, opts ...printcart.ClientOption) (*printcart.Client, error) {
	if cfg == nil {
		cfg = &printcart.Config{}
	}

	normalized := *cfg
	normalized.APIURL = normalizeURL(cfg.APIURL)

	opts = append([]printcart.ClientOption{printcart.WithTransportBuilder(NewTransport)}, opts...)

	return printcart.NewClient(&normalized, opts...)
}

// NewWithPassword creates a client for the default API with basic credentials.
func NewWithPassword(username, password string) (*printcart.Client, error) {
	return New(&printcart.Config{
		Username: username,
		Password: password,
	})
}

// NewTransport builds the HTTP transport for cfg. It is installed as the
// transport builder of every client created by New, so a later
// Client.Configure builds a fresh transport from the new options.
func NewTransport(cfg *printcart.Config) (printcart.Transport, error) {
	opts := []pchttp.Option{
		pchttp.WithTimeout(cfg.HTTPTimeout),
		pchttp.WithUserAgent(cfg.UserAgent),
		pchttp.WithDebug(cfg.Debug),
	}

	if cfg.Logger != nil {
		opts = append(opts, pchttp.WithLogger(cfg.Logger))
	}

	if cfg.RetryMax > 0 {
		opts = append(opts, pchttp.WithRetryConfig(cfg.RetryMax, cfg.RetryWaitMin, cfg.RetryWaitMax))
	}

	return pchttp.NewClient(opts...), nil
}

// normalizeURL trims trailing slashes and defaults the scheme to https.
func normalizeURL(apiURL string) string {
	apiURL = strings.TrimSuffix(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		return ""
	}

	if !strings.HasPrefix(apiURL, "http://") && !strings.HasPrefix(apiURL, "https://") {
		apiURL = "https://" + apiURL
	}

	return apiURL
}
