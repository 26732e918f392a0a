package cli

import (
	"strings"
	"testing"

	"github.com/jmylchreest/colorpal/internal/colour"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable([]string{"Name", "Age"})

	table.AddRow([]string{"Alice", "30"})
	table.AddRow([]string{"Bob"})
	table.AddRow([]string{"Charlie", "25", "Extra"})

	if len(table.rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.rows))
	}
	for i, row := range table.rows {
		if len(row) != 2 {
			t.Errorf("row %d: expected 2 columns, got %d", i, len(row))
		}
	}
	if table.rows[1][1] != "" {
		t.Errorf("Expected empty string for padded column, got %q", table.rows[1][1])
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"Short", "Very Long Header", "Mid"})
	table.AddRow([]string{"A", "B", "C"})
	table.AddRow([]string{"123456789", "X", "Test"})

	lines := strings.Split(strings.TrimSuffix(table.Render(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[1], "---------") {
		t.Errorf("Expected separator line with dashes, got: %q", lines[1])
	}
	if got, want := strings.Index(lines[3], "X"), strings.Index(lines[0], "Very"); got != want {
		t.Errorf("second column misaligned: X at %d, header at %d", got, want)
	}
}

func TestTableRenderEmpty(t *testing.T) {
	if output := NewTable(nil).Render(); output != "" {
		t.Errorf("Expected empty string for empty table, got: %q", output)
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"test", 10, "test      "},
		{"hello", 5, "hello"},
		{"world", 3, "world"},
		{"", 5, "     "},
	}

	for _, tt := range tests {
		if result := padRight(tt.input, tt.width); result != tt.expected {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.width, result, tt.expected)
		}
	}
}

func TestPaletteTable(t *testing.T) {
	palette := colour.NewPaletteWithWeights(
		[]colour.Centroid{{255, 0, 0}, {0, 0, 255}},
		[]float64{0.75, 0.25},
	)

	output := paletteTable(palette).Render()
	for _, want := range []string{"HEX", "#ff0000", "(255, 0, 0)", "75.0%", "#0000ff", "25.0%"} {
		if !strings.Contains(output, want) {
			t.Errorf("table missing %q:\n%s", want, output)
		}
	}

	unweighted := paletteTable(colour.NewPaletteWithWeights([]colour.Centroid{{16, 32, 48}}, nil)).Render()
	if !strings.Contains(unweighted, "#102030  (16, 32, 48)  -") {
		t.Errorf("expected placeholder weight, got:\n%s", unweighted)
	}
}
