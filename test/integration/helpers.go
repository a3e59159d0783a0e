//go:build integration

package integration

import (
	"os"
	"testing"

	"github.com/printcart/printcart-go/pkg/pcclient"
	"github.com/printcart/printcart-go/pkg/printcart"
	"github.com/stretchr/testify/require"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	APIURL   string
	Username string
	Password string
	// AllowWrites enables tests that create and delete resources.
	AllowWrites bool
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIURL:      os.Getenv("PRINTCART_API_URL"),
		Username:    os.Getenv("PRINTCART_USERNAME"),
		Password:    os.Getenv("PRINTCART_PASSWORD"),
		AllowWrites: os.Getenv("PRINTCART_INTEGRATION_WRITE") == "true",
		Verbose:     os.Getenv("PRINTCART_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips the test when no credentials are configured.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Username == "" || config.Password == "" {
		t.Skip("PRINTCART_USERNAME and PRINTCART_PASSWORD not set, skipping integration test")
	}
}

// NewClient creates a client for the configured account.
func (config *TestConfig) NewClient(t *testing.T) *printcart.Client {
	t.Helper()

	client, err := pcclient.New(&printcart.Config{
		Username: config.Username,
		Password: config.Password,
		APIURL:   config.APIURL,
		RetryMax: 2,
		Debug:    config.Verbose,
	})
	require.NoError(t, err)

	return client
}
