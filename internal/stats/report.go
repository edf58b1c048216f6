package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/basedash/internal/model"
)

// Metric is one labelled bucket of a snapshot.
type Metric struct {
	Label   string
	Count   int
	Percent float64
}

// Metrics lists the named buckets of a snapshot with their percentages.
func Metrics(s model.Snapshot) []Metric {
	return []Metric{
		{Label: "Approved", Count: s.Approved, Percent: s.Percent(s.Approved)},
		{Label: "Not Approved", Count: s.NotApproved, Percent: s.Percent(s.NotApproved)},
		{Label: "Not in Time", Count: s.NotInTime, Percent: s.Percent(s.NotInTime)},
	}
}

// FormatCount renders a bucket as "12 (34.5%)".
func FormatCount(count int, pct float64) string {
	return fmt.Sprintf("%d (%.1f%%)", count, pct)
}

// RenderSnapshot prints the buckets of a snapshot with percentage bars.
func RenderSnapshot(w io.Writer, title string, s model.Snapshot) error {
	return RenderSnapshotWithWidth(w, title, s, terminalWidth())
}

// RenderSnapshotWithWidth prints a snapshot sized to a given total width.
func RenderSnapshotWithWidth(w io.Writer, title string, s model.Snapshot, totalWidth int) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	barWidth := BarWidthFor(totalWidth)
	for _, m := range Metrics(s) {
		if _, err := fmt.Fprintf(w, "%-13s %6d %6.1f%%  %s\n", m.Label, m.Count, m.Percent, Bar(m.Percent, barWidth)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Total Records: %d\n", s.Total); err != nil {
		return err
	}
	return nil
}

// RenderGroups prints per-group statistics as an aligned table. Groups that
// collapse more than one raw value get a "Groups:" caption.
func RenderGroups(w io.Writer, groups []model.GroupSnapshot) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, "No bases found.")
		return err
	}
	headers := []string{"Base", "Total", "Approved", "Not Approved", "Not in Time"}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		s := g.Stats
		rows = append(rows, []string{
			g.Name,
			fmt.Sprintf("%d", s.Total),
			FormatCount(s.Approved, s.Percent(s.Approved)),
			FormatCount(s.NotApproved, s.Percent(s.NotApproved)),
			FormatCount(s.NotInTime, s.Percent(s.NotInTime)),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, g := range groups {
		if len(g.Members) > 1 {
			if _, err := fmt.Fprintf(w, "%s  Groups: %s\n", g.Name, strings.Join(g.Members, ", ")); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderMapping prints each canonical name with its raw members.
func RenderMapping(w io.Writer, mapping *model.BaseNameMapping) error {
	if mapping.Len() == 0 {
		_, err := fmt.Fprintln(w, "Base column not found in the data.")
		return err
	}
	for _, name := range mapping.Names() {
		if _, err := fmt.Fprintf(w, "%s: %s\n", name, strings.Join(mapping.Members(name), ", ")); err != nil {
			return err
		}
	}
	return nil
}

// RenderRows prints up to limit rows of ds as a table; limit <= 0 prints all.
func RenderRows(w io.Writer, ds *model.Dataset, limit int) error {
	if ds.Len() == 0 {
		_, err := fmt.Fprintln(w, "No rows found.")
		return err
	}
	rows := ds.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	table := make([][]string, len(rows))
	for i, row := range rows {
		table[i] = row
	}
	for _, line := range formatTable(ds.Columns, table, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(rows) < ds.Len() {
		if _, err := fmt.Fprintf(w, "... %d more rows\n", ds.Len()-len(rows)); err != nil {
			return err
		}
	}
	return nil
}
