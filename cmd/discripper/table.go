package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableColumn describes one rendered column. Numeric columns hold counters
// the commands print as strings (byte totals, durations, chapter counts) and
// are right-aligned so their digits line up.
type tableColumn struct {
	header  string
	numeric bool
}

func column(header string) tableColumn {
	return tableColumn{header: header}
}

func numericColumn(header string) tableColumn {
	return tableColumn{header: header, numeric: true}
}

// textColumns builds an all-text column set for tables without counters,
// like the key/value config listing and the preflight report.
func textColumns(headers ...string) []tableColumn {
	columns := make([]tableColumn, len(headers))
	for i, header := range headers {
		columns[i] = column(header)
	}
	return columns
}

func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.header
		align := text.AlignLeft
		if col.numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}
