package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/printcart/printcart-go/internal/constants"
	"github.com/printcart/printcart-go/pkg/printcart"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBody(t *testing.T) {
	body := printcart.Body(`{"data":[{"name":"Tee","id":"42"},{"id":"43","name":"Hoodie","tags":["a"]}]}`)

	tests := []struct {
		format   string
		contains []string
	}{
		{format: "json", contains: []string{"{\n  \"data\": [", `"name": "Tee"`}},
		{format: "yaml", contains: []string{"data:", "- id: \"42\"", "name: Tee"}},
		{format: "raw", contains: []string{string(body)}},
		{format: "table", contains: []string{"42", "Tee", "Hoodie", `["a"]`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			setupViper(t, nil)
			viper.Set(keyOutput, tt.format)

			var out bytes.Buffer

			require.NoError(t, printBody(&out, body))

			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestPrintBodyTableObject(t *testing.T) {
	setupViper(t, nil)
	viper.Set(keyOutput, constants.FormatTable)

	var out bytes.Buffer

	require.NoError(t, printBody(&out, printcart.Body(`{"data":{"count":3}}`)))
	assert.Contains(t, out.String(), "count")
	assert.Contains(t, out.String(), "3")

	out.Reset()
	require.NoError(t, printBody(&out, printcart.Body(`{"data":[]}`)))
	assert.Equal(t, "No results\n", out.String())

	out.Reset()
	require.NoError(t, printBody(&out, printcart.Body(`not json`)))
	assert.Equal(t, "not json\n", out.String())

	out.Reset()
	long := strings.Repeat("x", constants.StringTruncationLength+10)
	require.NoError(t, printBody(&out, printcart.Body(`{"data":{"note":"`+long+`"}}`)))
	assert.NotContains(t, out.String(), long)
	assert.Contains(t, out.String(), "...")
}

func TestPrintBodyEmptyAndUnsupported(t *testing.T) {
	setupViper(t, nil)

	var out bytes.Buffer

	require.NoError(t, printBody(&out, printcart.Body{}))
	assert.Contains(t, out.String(), "OK")

	viper.Set(keyOutput, "xml")

	err := printBody(&out, printcart.Body(`{}`))
	require.ErrorIs(t, err, constants.ErrUnsupportedOutput)
}

func TestTableColumns(t *testing.T) {
	t.Parallel()

	body := printcart.Body(`[{"name":"a","id":"1"},{"sku":"x"}]`)
	items := body.Get("@this").Array()

	assert.Equal(t, []string{"id", "name", "sku"}, tableColumns(items))
}
