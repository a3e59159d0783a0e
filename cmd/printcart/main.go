package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/printcart/printcart-go/cmd/printcart/commands"
	"github.com/printcart/printcart-go/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "printcart",
	Short: "Printcart API CLI",
	Long: `A command-line interface for the Printcart e-commerce REST API.

Resources are addressed by path, for example:

  printcart get Product
  printcart get Product/42/Design
  printcart post Product --data '{"name":"Tee"}'`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("no_color") {
			color.NoColor = true
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.printcart/config.yml)")
	flags.String("api-url", "", "API base URL (default "+constants.DefaultAPIURL+")")
	flags.String("api-version", "", "API version path segment (default "+constants.DefaultAPIVersion+")")
	flags.StringP("username", "u", "", "API username")
	flags.String("password", "", "API password")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml, raw)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.Bool("no-color", false, "disable colored output")
	flags.Duration("timeout", constants.DefaultHTTPTimeout, "HTTP timeout per attempt")
	flags.Int("retries", 0, "retry attempts for connection errors, 429 and 5xx")
	flags.String("cache", "", "response cache for GET requests (memory, nats, none)")
	flags.String("nats-url", "", "NATS server URL for the nats cache")

	for _, name := range []string{
		"config", "api-url", "api-version", "username", "password", "output",
		"verbose", "no-color", "timeout", "retries", "cache", "nats-url",
	} {
		_ = viper.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}

	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewResourcesCommand())
	rootCmd.AddCommand(commands.NewGetCommand())
	rootCmd.AddCommand(commands.NewCountCommand())
	rootCmd.AddCommand(commands.NewPostCommand())
	rootCmd.AddCommand(commands.NewPutCommand())
	rootCmd.AddCommand(commands.NewPutBatchCommand())
	rootCmd.AddCommand(commands.NewDeleteCommand())
	rootCmd.AddCommand(commands.NewDeleteBatchCommand())
	rootCmd.AddCommand(commands.NewActionCommand())
}

func initConfig() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".printcart")
		if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("PRINTCART")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
