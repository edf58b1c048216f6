package dashui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/basedash/internal/model"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 28
)

// datasetTable shows the first limit rows of ds.
func datasetTable(ds *model.Dataset, limit, width, height int) table.Model {
	cols, rows := datasetTableData(ds, limit)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
		table.WithFocused(true),
	)
	t.SetWidth(width)
	t.SetStyles(tableStyles())
	return t
}

func datasetTableData(ds *model.Dataset, limit int) ([]table.Column, []table.Row) {
	if ds == nil {
		return nil, nil
	}
	n := ds.Len()
	if limit > 0 && n > limit {
		n = limit
	}
	widths := make([]int, len(ds.Columns))
	for i, c := range ds.Columns {
		widths[i] = runewidth.StringWidth(c)
	}
	rows := make([]table.Row, 0, n)
	for _, r := range ds.Rows[:n] {
		row := make(table.Row, len(ds.Columns))
		for i := range ds.Columns {
			row[i] = r.Value(i)
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
		rows = append(rows, row)
	}
	cols := make([]table.Column, len(ds.Columns))
	for i, c := range ds.Columns {
		cols[i] = table.Column{Title: c, Width: clamp(widths[i], minColumnWidth, maxColumnWidth)}
	}
	return cols, rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#3A3A3A")).
		Bold(true)
	return styles
}
