package cli

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/colorpal/internal/colour"
)

// Table is a plain-text table with dynamic column widths.
type Table struct {
	headers []string
	rows    [][]string
	padding int
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		padding: 2,
	}
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	normalised := make([]string, len(t.headers))
	copy(normalised, row)
	t.rows = append(t.rows, normalised)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	gap := strings.Repeat(" ", t.padding)
	var sb strings.Builder
	writeLine := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = padRight(c, widths[i])
		}
		sb.WriteString(strings.TrimRight(strings.Join(parts, gap), " "))
		sb.WriteString("\n")
	}

	writeLine(t.headers)
	separator := make([]string, len(widths))
	for i, w := range widths {
		separator[i] = strings.Repeat("-", w)
	}
	writeLine(separator)
	for _, row := range t.rows {
		writeLine(row)
	}
	return sb.String()
}

// paletteTable lays a palette out as index, hex, RGB and weight columns.
func paletteTable(palette *colour.Palette) *Table {
	table := NewTable([]string{"#", "HEX", "RGB", "WEIGHT"})
	for i, e := range palette.Entries() {
		weight := "-"
		if e.Weight > 0 {
			weight = fmt.Sprintf("%.1f%%", e.Weight*100)
		}
		table.AddRow([]string{fmt.Sprintf("%d", i+1), e.Hex, e.Tuple(), weight})
	}
	return table
}

// padRight pads s with spaces to width. Longer strings are returned unchanged.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
