package output

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "json", input: "json", want: FormatJSON},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yaml", input: "yaml", want: FormatYAML},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  table  ", want: FormatTable},
		{name: "invalid format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type storeRow struct {
	Alias string `json:"alias" yaml:"alias"`
	Size  int    `json:"size" yaml:"size"`
}

func storeTable(rows ...storeRow) *Table[storeRow] {
	return NewTable(rows, func(r storeRow) []string {
		return []string{r.Alias, strconv.Itoa(r.Size)}
	}, "alias", "size")
}

func TestPrintTableFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatTable, storeTable(storeRow{"sessions", 3}, storeRow{"counters", 12})))

	out := buf.String()
	assert.Contains(t, out, "ALIAS")
	assert.Contains(t, out, "SIZE")
	assert.Contains(t, out, "sessions")
	assert.Contains(t, out, "12")
}

func TestPrintJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatJSON, storeTable(storeRow{"sessions", 3})))

	assert.JSONEq(t, `[{"alias":"sessions","size":3}]`, buf.String())
}

func TestPrintYAMLFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatYAML, storeTable(storeRow{"sessions", 3})))

	assert.Equal(t, "- alias: sessions\n  size: 3\n", buf.String())
}

func TestPrintEmptyTableJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatJSON, storeTable()))

	assert.JSONEq(t, `[]`, buf.String())
}

func TestPrintTableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatTable, map[string]string{"region": "eu"}))

	assert.JSONEq(t, `{"region":"eu"}`, buf.String())
}

func TestPrintUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Print(&buf, Format("xml"), nil))
}

func TestPrintPairs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintPairs(&buf, [][2]string{
		{"Config", "/etc/dittokv/config.yaml"},
		{"Stores", "2"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Config")
	assert.Contains(t, out, "/etc/dittokv/config.yaml")
	assert.Contains(t, out, ":")
}

func TestTableItems(t *testing.T) {
	table := storeTable(storeRow{"a", 1})
	assert.Equal(t, []storeRow{{"a", 1}}, table.Items())
	assert.Equal(t, [][]string{{"a", "1"}}, table.Rows())
	assert.Equal(t, []string{"alias", "size"}, table.Headers())
}
