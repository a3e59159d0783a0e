package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/printcart/printcart-go/internal/constants"
	"github.com/printcart/printcart-go/pkg/printcart"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
	"sigs.k8s.io/yaml"
)

// printBody renders an API response body in the configured output format.
func printBody(w io.Writer, body printcart.Body) error {
	if body.IsEmpty() {
		_, _ = color.New(color.FgGreen).Fprintln(w, "OK")

		return nil
	}

	format := viper.GetString(keyOutput)

	switch format {
	case constants.FormatJSON:
		var out bytes.Buffer

		err := json.Indent(&out, body, "", strings.Repeat(" ", constants.JSONIndentSize))
		if err != nil {
			return fmt.Errorf("%w: %w", constants.ErrInvalidJSON, err)
		}

		_, _ = fmt.Fprintln(w, out.String())

		return nil
	case constants.FormatYAML:
		out, err := yaml.JSONToYAML(body)
		if err != nil {
			return fmt.Errorf("%w: %w", constants.ErrInvalidJSON, err)
		}

		_, _ = w.Write(out)

		return nil
	case constants.FormatRaw:
		_, _ = fmt.Fprintln(w, body.String())

		return nil
	case "", constants.FormatTable:
		return renderTable(w, body)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, format)
	}
}

// renderTable prints the "data" member of an envelope, or the whole document
// when there is none. Arrays of objects become one row per item; objects
// become property/value pairs.
func renderTable(w io.Writer, body printcart.Body) error {
	if !gjson.ValidBytes(body) {
		_, _ = fmt.Fprintln(w, body.String())

		return nil
	}

	doc := gjson.ParseBytes(body)
	if data := doc.Get("data"); data.Exists() {
		doc = data
	}

	table := tablewriter.NewWriter(w)

	switch {
	case doc.IsArray():
		items := doc.Array()
		if len(items) == 0 {
			_, _ = fmt.Fprintln(w, "No results")

			return nil
		}

		columns := tableColumns(items)

		header := make([]any, len(columns))
		for i, column := range columns {
			header[i] = column
		}

		table.Header(header...)

		for _, item := range items {
			row := make([]string, len(columns))

			if !item.IsObject() {
				row[0] = cell(item)
				_ = table.Append(row)

				continue
			}

			for i, column := range columns {
				row[i] = cell(item.Get(gjsonEscape(column)))
			}

			_ = table.Append(row)
		}
	case doc.IsObject():
		table.Header("Property", "Value")

		doc.ForEach(func(key, value gjson.Result) bool {
			_ = table.Append([]string{key.String(), cell(value)})

			return true
		})
	default:
		_, _ = fmt.Fprintln(w, cell(doc))

		return nil
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// tableColumns collects the object keys of items, with "id" first.
func tableColumns(items []gjson.Result) []string {
	seen := make(map[string]bool)
	columns := make([]string, 0)

	for _, item := range items {
		if !item.IsObject() {
			continue
		}

		item.ForEach(func(key, _ gjson.Result) bool {
			if !seen[key.String()] {
				seen[key.String()] = true
				columns = append(columns, key.String())
			}

			return true
		})
	}

	if len(columns) == 0 {
		return []string{"Value"}
	}

	sort.SliceStable(columns, func(i, j int) bool {
		return columns[i] == "id" && columns[j] != "id"
	})

	return columns
}

func cell(value gjson.Result) string {
	text := value.String()
	if value.IsObject() || value.IsArray() {
		text = value.Raw
	}

	if len(text) > constants.StringTruncationLength {
		return text[:constants.StringTruncationLength] + "..."
	}

	return text
}

func gjsonEscape(key string) string {
	replacer := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)

	return replacer.Replace(key)
}
