package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/printcart/printcart-go/internal/constants"
	"github.com/printcart/printcart-go/pkg/printcart"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type resourceInfo struct {
	Name     string   `json:"name"               yaml:"name"`
	Key      string   `json:"key"                yaml:"key"`
	Root     bool     `json:"root"               yaml:"root"`
	Children []string `json:"children,omitempty" yaml:"children,omitempty"`
	Actions  []string `json:"actions,omitempty"  yaml:"actions,omitempty"`
}

// NewResourcesCommand creates the resources command.
func NewResourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the known resource types",
		Long:  "List every resource type with its URL key, child resources and custom actions, including those declared under resources in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := newRegistry()
			if err != nil {
				return err
			}

			infos := describeRegistry(registry)
			out := cmd.OutOrStdout()

			switch viper.GetString(keyOutput) {
			case constants.FormatJSON, constants.FormatRaw:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

				return encoder.Encode(infos)
			case constants.FormatYAML:
				return yaml.NewEncoder(out).Encode(infos)
			}

			table := tablewriter.NewWriter(out)
			table.Header("Name", "Key", "Root", "Children", "Actions")

			for _, info := range infos {
				root := ""
				if info.Root {
					root = "yes"
				}

				_ = table.Append(info.Name, info.Key, root, strings.Join(info.Children, ", "), strings.Join(info.Actions, ", "))
			}

			err = table.Render()
			if err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func describeRegistry(registry *printcart.Registry) []resourceInfo {
	names := registry.Names()
	infos := make([]resourceInfo, 0, len(names))

	for _, name := range names {
		desc, ok := registry.Lookup(name)
		if !ok {
			continue
		}

		info := resourceInfo{
			Name:    desc.Name,
			Key:     desc.Key,
			Root:    registry.IsRoot(name),
			Actions: desc.Actions,
		}

		for _, child := range desc.Children {
			if child.Name == child.Resource {
				info.Children = append(info.Children, child.Name)
			} else {
				info.Children = append(info.Children, child.Name+" ("+child.Resource+")")
			}
		}

		infos = append(infos, info)
	}

	return infos
}
