package ergast

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Row is the flattened view of one RawRecord.
type Row map[string]any

// Table is an ordered list of normalized rows. The raw records each
// row came from are kept alongside the rows, by index, so the
// original payload stays recoverable after normalization without ever
// showing up as a column.
type Table struct {
	rows []Row
	raw  []RawRecord
	cols []string
}

func (t Table) Len() int {
	return len(t.rows)
}

// column names, sorted. never includes the raw back-references.
func (t Table) Columns() []string {
	return t.cols
}

func (t Table) RowAt(i int) Row {
	return t.rows[i]
}

// Column returns one named column across all rows. Rows that lack the
// column yield nil entries.
func (t Table) Column(name string) []any {
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[name]
	}
	return out
}

// the unmodified records this table was built from, in row order.
func (t Table) RawRecords() []RawRecord {
	return t.raw
}

// the unmodified record behind row i.
func (t Table) RawAt(i int) RawRecord {
	return t.raw[i]
}

// Render draws the table for human consumption. Only normalized
// columns are shown.
func (t Table) Render() string {
	w := table.NewWriter()
	w.SetStyle(table.StyleRounded)

	header := make(table.Row, len(t.cols))
	for i, c := range t.cols {
		header[i] = c
	}
	w.AppendHeader(header)

	for _, row := range t.rows {
		cells := make(table.Row, len(t.cols))
		for i, c := range t.cols {
			cells[i] = formatCell(row[c])
		}
		w.AppendRow(cells)
	}

	return w.Render()
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
