package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/printcart/printcart-go/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the Printcart CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version   string `json:"version"    yaml:"version"`
				Commit    string `json:"commit"     yaml:"commit"`
				Built     string `json:"built"      yaml:"built"`
				UserAgent string `json:"user_agent" yaml:"user_agent"`
			}

			info := VersionInfo{
				Version:   version,
				Commit:    commit,
				Built:     date,
				UserAgent: constants.DefaultUserAgent,
			}

			out := cmd.OutOrStdout()

			switch viper.GetString(keyOutput) {
			case constants.FormatJSON, constants.FormatRaw:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

				return encoder.Encode(info)
			case constants.FormatYAML:
				return yaml.NewEncoder(out).Encode(info)
			default:
				table := tablewriter.NewWriter(out)
				table.Header("Property", "Value")
				_ = table.Append("Version", info.Version)
				_ = table.Append("Commit", info.Commit)
				_ = table.Append("Built", info.Built)
				_ = table.Append("User Agent", info.UserAgent)

				err := table.Render()
				if err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}
