package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/printcart/printcart-go/internal/constants"
	"github.com/printcart/printcart-go/pkg/printcart"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const configDirName = ".printcart"

// Config represents the CLI configuration file.
type Config struct {
	APIURL     string `json:"api_url,omitempty"     yaml:"api_url,omitempty"`
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	Username   string `json:"username,omitempty"    yaml:"username,omitempty"`
	Password   string `json:"password,omitempty"    yaml:"password,omitempty"`
	Output     string `json:"output,omitempty"      yaml:"output,omitempty"`
	NoColor    bool   `json:"no_color"              yaml:"no_color"`
	Timeout    string `json:"timeout,omitempty"     yaml:"timeout,omitempty"`
	Retries    int    `json:"retries,omitempty"     yaml:"retries,omitempty"`
	Cache      string `json:"cache,omitempty"       yaml:"cache,omitempty"`
	NATSURL    string `json:"nats_url,omitempty"    yaml:"nats_url,omitempty"`

	Resources []resourceConfig `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and edit the Printcart CLI configuration stored in ~/.printcart/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.Password != "" {
				config.Password = constants.MaskedSecret
			}

			out := cmd.OutOrStdout()

			switch viper.GetString(keyOutput) {
			case constants.FormatJSON, constants.FormatRaw:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

				return encoder.Encode(config)
			case constants.FormatYAML:
				return yaml.NewEncoder(out).Encode(config)
			}

			table := tablewriter.NewWriter(out)
			table.Header("Property", "Value")

			_ = table.Append("API URL", config.APIURL)
			_ = table.Append("API Version", config.APIVersion)
			_ = table.Append("Username", config.Username)
			_ = table.Append("Password", config.Password)
			_ = table.Append("Output", config.Output)
			_ = table.Append("No Color", strconv.FormatBool(config.NoColor))
			_ = table.Append("Timeout", config.Timeout)
			_ = table.Append("Retries", strconv.Itoa(config.Retries))
			_ = table.Append("Cache", config.Cache)
			_ = table.Append("NATS URL", config.NATSURL)

			err := table.Render()
			if err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: "Set a configuration value. Keys: api_url, api_version, username, password, " +
			"output, no_color, timeout, retries, cache, nats_url",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			viper.Set(args[0], args[1])
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := unsetConfigValue(config, args[0])
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			viper.Set(args[0], "")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func loadConfig() *Config {
	// A malformed resources list is reported by the commands that use it.
	resources, _ := loadResources()

	return &Config{
		APIURL:     viper.GetString(keyAPIURL),
		APIVersion: viper.GetString(keyAPIVersion),
		Username:   viper.GetString(keyUsername),
		Password:   viper.GetString(keyPassword),
		Output:     viper.GetString(keyOutput),
		NoColor:    viper.GetBool(keyNoColor),
		Timeout:    viper.GetString(keyTimeout),
		Retries:    viper.GetInt(keyRetries),
		Cache:      viper.GetString(keyCache),
		NATSURL:    viper.GetString(keyNATSURL),
		Resources:  resources,
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case keyAPIURL:
		config.APIURL = value
	case keyAPIVersion:
		config.APIVersion = value
	case keyUsername:
		config.Username = value
	case keyPassword:
		config.Password = value
	case keyOutput:
		switch value {
		case constants.FormatJSON, constants.FormatYAML, constants.FormatTable, constants.FormatRaw:
			config.Output = value
		default:
			return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, value)
		}
	case keyNoColor:
		noColor, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}

		config.NoColor = noColor
	case keyTimeout:
		_, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}

		config.Timeout = value
	case keyRetries:
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 {
			return fmt.Errorf("invalid value for %s: %q", key, value)
		}

		config.Retries = retries
	case keyCache:
		switch printcart.CacheType(value) {
		case printcart.CacheTypeMemory, printcart.CacheTypeNATS, printcart.CacheTypeNone:
			config.Cache = value
		default:
			return fmt.Errorf("%w: %s", printcart.ErrUnsupportedCacheType, value)
		}
	case keyNATSURL:
		config.NATSURL = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func unsetConfigValue(config *Config, key string) error {
	switch key {
	case keyAPIURL:
		config.APIURL = ""
	case keyAPIVersion:
		config.APIVersion = ""
	case keyUsername:
		config.Username = ""
	case keyPassword:
		config.Password = ""
	case keyOutput:
		config.Output = ""
	case keyNoColor:
		config.NoColor = false
	case keyTimeout:
		config.Timeout = ""
	case keyRetries:
		config.Retries = 0
	case keyCache:
		config.Cache = ""
	case keyNATSURL:
		config.NATSURL = ""
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// configFilePath returns the config file in use, or ~/.printcart/config.yml.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, configDirName, "config.yml"), nil
}

func saveConfig(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
