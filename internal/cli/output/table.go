package output

import (
	"encoding/json"
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableRenderer is implemented by types that can render themselves as a table.
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// PrintTable writes data as a borderless, left-aligned table.
func PrintTable(w io.Writer, data TableRenderer) error {
	table := newTable(w, "")
	table.SetHeader(data.Headers())
	table.SetAutoFormatHeaders(true)
	table.AppendBulk(data.Rows())
	table.Render()
	return nil
}

// PrintPairs writes key/value pairs as an aligned "key: value" listing.
func PrintPairs(w io.Writer, pairs [][2]string) error {
	table := newTable(w, ":")
	for _, pair := range pairs {
		table.Append([]string{pair[0], pair[1]})
	}
	table.Render()
	return nil
}

func newTable(w io.Writer, columnSeparator string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator(columnSeparator)
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// Table is a list of items that renders as a table in table format and as
// the raw items in JSON and YAML.
type Table[T any] struct {
	headers []string
	items   []T
	row     func(T) []string
}

// NewTable builds a Table over items, converting each one with row.
func NewTable[T any](items []T, row func(T) []string, headers ...string) *Table[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return &Table[T]{headers: headers, items: items, row: row}
}

// Headers implements TableRenderer.
func (t *Table[T]) Headers() []string {
	return t.headers
}

// Rows implements TableRenderer.
func (t *Table[T]) Rows() [][]string {
	rows := make([][]string, 0, len(t.items))
	for _, item := range t.items {
		rows = append(rows, t.row(item))
	}
	return rows
}

// Items returns the underlying items.
func (t *Table[T]) Items() []T {
	return t.items
}

// MarshalJSON encodes the items only.
func (t *Table[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.items)
}

// MarshalYAML encodes the items only.
func (t *Table[T]) MarshalYAML() (any, error) {
	return t.items, nil
}
