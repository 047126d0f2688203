package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. maxWidth of zero means unbounded;
// longer cells wrap.
type column struct {
	title    string
	align    text.Align
	maxWidth int
}

func leftCol(title string) column  { return column{title: title, align: text.AlignLeft} }
func rightCol(title string) column { return column{title: title, align: text.AlignRight} }

func (c column) wrapAt(width int) column {
	c.maxWidth = width
	return c
}

// renderTable draws rows under cols. Missing cells render empty. A non-empty
// footer is drawn below a separator.
func renderTable(cols []column, rows [][]string, footer ...string) string {
	if len(cols) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault

	configs := make([]table.ColumnConfig, len(cols))
	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c.title
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       c.align,
			AlignFooter: c.align,
			AlignHeader: text.AlignLeft,
			WidthMax:    c.maxWidth,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		tw.AppendRow(padRow(row, len(cols)))
	}
	if len(footer) > 0 {
		tw.AppendFooter(padRow(footer, len(cols)))
	}
	return tw.Render()
}

func padRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}
