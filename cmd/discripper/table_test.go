package main

import (
	"strings"
	"testing"
)

func TestRenderTableRightAlignsNumericColumns(t *testing.T) {
	columns := []tableColumn{column("Title"), numericColumn("Bytes")}
	rows := [][]string{
		{"movie", "512"},
		{"b", "40"},
	}

	rendered := renderTable(columns, rows)
	for _, want := range []string{
		"│ movie │   512 │",
		"│ b     │    40 │",
	} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("rendered table missing %q:\n%s", want, rendered)
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	rendered := renderTable(textColumns("A", "B"), [][]string{{"x"}})
	if !strings.Contains(rendered, "│ x │   │") {
		t.Fatalf("expected short row padded with empty cell:\n%s", rendered)
	}
}

func TestRenderTableEmptyColumns(t *testing.T) {
	if got := renderTable(nil, nil); got != "" {
		t.Fatalf("renderTable(nil) = %q, want empty", got)
	}
}
