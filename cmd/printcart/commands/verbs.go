package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/printcart/printcart-go/internal/constants"
	"github.com/printcart/printcart-go/pkg/printcart"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

type verbFunc func(ctx context.Context, resource *printcart.Resource) (printcart.Body, error)

// runVerb resolves path to a resource, runs fn against it and prints the result.
func runVerb(cmd *cobra.Command, path string, fn verbFunc) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	resource, action, err := resolvePath(client, path)
	if err != nil {
		return err
	}

	if action != nil {
		return fmt.Errorf("%w: %s is an action, use 'printcart action'", constants.ErrInvalidResourcePath, path)
	}

	body, err := fn(cmd.Context(), resource)
	if err != nil {
		return err
	}

	return printBody(cmd.OutOrStdout(), body)
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "Fetch a resource or collection",
		Long:  "Fetch a single resource (Product/42) or list a collection (Product/42/Design)",
		Example: `  printcart get Product
  printcart get Product/42 --output json
  printcart get Product/42/Design --param limit=10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseParams(params)
			if err != nil {
				return err
			}

			return runVerb(cmd, args[0], func(ctx context.Context, resource *printcart.Resource) (printcart.Body, error) {
				return resource.Get(ctx, query)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter as key=value (repeatable)")

	return cmd
}

// NewCountCommand creates the count command.
func NewCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count PATH",
		Short: "Count the items of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerb(cmd, args[0], func(ctx context.Context, resource *printcart.Resource) (printcart.Body, error) {
				return resource.Count(ctx)
			})
		},
	}
}

type writeFunc func(ctx context.Context, resource *printcart.Resource, data json.RawMessage, opts ...printcart.RequestOption) (printcart.Body, error)

func newWriteCommand(use, short, long string, write writeFunc) *cobra.Command {
	var (
		data   string
		noWrap bool
	)

	cmd := &cobra.Command{
		Use:   use + " PATH",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readData(cmd.InOrStdin(), data)
			if err != nil {
				return err
			}

			return runVerb(cmd, args[0], func(ctx context.Context, resource *printcart.Resource) (printcart.Body, error) {
				return write(ctx, resource, payload, printcart.WithWrap(!noWrap))
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON payload, @file to read a file or - for stdin")
	cmd.Flags().BoolVar(&noWrap, "no-wrap", false, "send the payload without the resource key envelope")

	return cmd
}

// NewPostCommand creates the post command.
func NewPostCommand() *cobra.Command {
	return newWriteCommand("post", "Create a resource",
		"Create a resource in a collection. The payload is wrapped under the collection key unless --no-wrap is set.",
		func(ctx context.Context, resource *printcart.Resource, data json.RawMessage, opts ...printcart.RequestOption) (printcart.Body, error) {
			return resource.Post(ctx, data, opts...)
		})
}

// NewPutCommand creates the put command.
func NewPutCommand() *cobra.Command {
	return newWriteCommand("put", "Update a resource",
		"Update a resource. The payload is wrapped under the collection key unless --no-wrap is set.",
		func(ctx context.Context, resource *printcart.Resource, data json.RawMessage, opts ...printcart.RequestOption) (printcart.Body, error) {
			return resource.Put(ctx, data, opts...)
		})
}

// NewPutBatchCommand creates the put-batch command.
func NewPutBatchCommand() *cobra.Command {
	return newWriteCommand("put-batch", "Update several resources at once",
		"Send a batch update to the collection's /batch endpoint",
		func(ctx context.Context, resource *printcart.Resource, data json.RawMessage, opts ...printcart.RequestOption) (printcart.Body, error) {
			return resource.PutBatch(ctx, data, opts...)
		})
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "delete PATH",
		Short: "Delete a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseParams(params)
			if err != nil {
				return err
			}

			return runVerb(cmd, args[0], func(ctx context.Context, resource *printcart.Resource) (printcart.Body, error) {
				return resource.Delete(ctx, query)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter as key=value (repeatable)")

	return cmd
}

// NewDeleteBatchCommand creates the delete-batch command.
func NewDeleteBatchCommand() *cobra.Command {
	var (
		data   string
		params []string
		noWrap bool
	)

	cmd := &cobra.Command{
		Use:     "delete-batch PATH",
		Short:   "Delete several resources at once",
		Example: `  printcart delete-batch Font --data '["1","2"]' --param force=true
  printcart delete-batch Font --param ids=1,2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload any

			if data != "" {
				parsed, err := readData(cmd.InOrStdin(), data)
				if err != nil {
					return err
				}

				payload = parsed
			}

			query, err := parseParams(params)
			if err != nil {
				return err
			}

			return runVerb(cmd, args[0], func(ctx context.Context, resource *printcart.Resource) (printcart.Body, error) {
				return resource.DeleteBatch(ctx, payload, query, printcart.WithWrap(!noWrap))
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON payload, @file to read a file or - for stdin")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&noWrap, "no-wrap", false, "send the payload without the resource key envelope")

	return cmd
}

// NewActionCommand creates the action command.
func NewActionCommand() *cobra.Command {
	var (
		method string
		data   string
		wrap   bool
	)

	cmd := &cobra.Command{
		Use:     "action PATH",
		Short:   "Invoke a custom resource action",
		Long:    "Invoke a custom action declared on a resource, addressed by a lower-case last path segment. Resources and actions outside the built-in catalog are declared under resources in the config file.",
		Example: `  # with ~/.printcart/config.yml containing:
  #   resources:
  #     - name: Order
  #       key: orders
  #       root: true
  #       actions: [cancel]
  printcart action Order/5/cancel --data '{"reason":"duplicate"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload any

			if data != "" {
				parsed, err := readData(cmd.InOrStdin(), data)
				if err != nil {
					return err
				}

				payload = parsed
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			_, action, err := resolvePath(client, args[0])
			if err != nil {
				return err
			}

			if action == nil {
				return fmt.Errorf("%w: %s", constants.ErrActionPathRequired, args[0])
			}

			body, err := action.Do(cmd.Context(), method, payload, printcart.WithWrap(wrap))
			if err != nil {
				return err
			}

			return printBody(cmd.OutOrStdout(), body)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", "POST", "HTTP method")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON payload, @file to read a file or - for stdin")
	cmd.Flags().BoolVar(&wrap, "wrap", false, "wrap the payload under the resource key")

	return cmd
}

// readData loads a JSON payload given inline, as @file or as - for stdin.
func readData(stdin io.Reader, data string) (json.RawMessage, error) {
	var raw []byte

	switch {
	case data == "":
		return nil, constants.ErrDataRequired
	case data == "-":
		read, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		raw = read
	case strings.HasPrefix(data, "@"):
		// #nosec G304 -- the file is named by the user on the command line
		read, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, fmt.Errorf("failed to read data file: %w", err)
		}

		raw = read
	default:
		raw = []byte(data)
	}

	if !gjson.ValidBytes(raw) {
		return nil, constants.ErrInvalidJSON
	}

	return json.RawMessage(raw), nil
}

// parseParams turns key=value pairs into query parameters.
func parseParams(params []string) (url.Values, error) {
	if len(params) == 0 {
		return nil, nil
	}

	query := url.Values{}

	for _, param := range params {
		key, value, ok := strings.Cut(param, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidParam, param)
		}

		query.Add(key, value)
	}

	return query, nil
}
