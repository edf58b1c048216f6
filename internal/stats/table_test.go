package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Base", "Total", "Approved"}
	rows := [][]string{
		{"LY", "12", "3 (25.0%)"},
		{"PLAINVALUE", "4", "4 (100.0%)"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Base       Total   Approved" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "LY            12  3 (25.0%)" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "PLAINVALUE     4 4 (100.0%)" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableTruncatesWideCells(t *testing.T) {
	long := ""
	for i := 0; i < maxCellWidth+10; i++ {
		long += "x"
	}
	lines := formatTable([]string{"Value"}, [][]string{{long}}, nil)
	if got := displayWidth(lines[1]); got != maxCellWidth {
		t.Fatalf("expected truncated width %d, got %d", maxCellWidth, got)
	}
}

func TestBar(t *testing.T) {
	if got := Bar(50, 10); got != "█████░░░░░" {
		t.Fatalf("unexpected bar: %q", got)
	}
	if got := Bar(-5, 4); got != "░░░░" {
		t.Fatalf("unexpected bar for negative pct: %q", got)
	}
	if got := Bar(250, 4); got != "████" {
		t.Fatalf("unexpected bar for overflow pct: %q", got)
	}
}

func TestBarWidthFor(t *testing.T) {
	if got := BarWidthFor(0); got != minBarWidth {
		t.Fatalf("expected min width %d, got %d", minBarWidth, got)
	}
	if got := BarWidthFor(60); got != 60-barLabelWidth {
		t.Fatalf("expected %d, got %d", 60-barLabelWidth, got)
	}
	if got := BarWidthFor(500); got != maxBarWidth {
		t.Fatalf("expected max width %d, got %d", maxBarWidth, got)
	}
}
