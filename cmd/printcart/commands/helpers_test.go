package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/printcart/printcart-go/internal/printcarttest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// setupViper resets the global configuration, points the config file at a
// temporary directory and, when server is set, targets the fake API.
func setupViper(t *testing.T, server *printcarttest.Server) string {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "config.yml")
	viper.SetConfigFile(configFile)
	viper.Set(keyOutput, "json")

	if server != nil {
		viper.Set(keyAPIURL, server.URL)
		viper.Set(keyUsername, "u")
		viper.Set(keyPassword, "p")
	}

	return configFile
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}
