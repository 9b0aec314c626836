package ui

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table collects rows and renders them with go-pretty.
type Table struct {
	headers    []string
	rows       [][]string
	rightAlign map[int]bool
	maxWidth   int
}

// NewTable creates a new table
func NewTable(headers ...string) *Table {
	return &Table{
		headers:    headers,
		rightAlign: map[int]bool{},
		maxWidth:   120,
	}
}

// AlignRight right-aligns the given 0-based columns, used for sizes and counts.
func (t *Table) AlignRight(columns ...int) *Table {
	for _, c := range columns {
		t.rightAlign[c] = true
	}
	return t
}

// AddRow adds a row to the table
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table.
func (t *Table) String() string {
	if len(t.headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	style := table.StyleLight
	if IsTerminal() {
		style = table.StyleRounded
	}
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	tw.SetAllowedRowLength(t.maxWidth)

	header := make(table.Row, len(t.headers))
	for i, h := range t.headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range t.rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = v
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(t.headers))
	for i := range t.headers {
		align := text.AlignLeft
		if t.rightAlign[i] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// Render writes the table and a trailing newline to w.
func (t *Table) Render(w io.Writer) {
	io.WriteString(w, t.String()+"\n")
}
