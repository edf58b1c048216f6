package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/basedash/internal/basename"
	"github.com/verte-zerg/basedash/internal/model"
)

func TestRenderSnapshotWithWidth(t *testing.T) {
	var buf bytes.Buffer
	snap := model.Snapshot{Approved: 1, NotApproved: 1, NotInTime: 1, Total: 4}
	if err := RenderSnapshotWithWidth(&buf, "Analytics", snap, 80); err != nil {
		t.Fatalf("RenderSnapshotWithWidth failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Analytics", "Approved", "25.0%", "Not in Time", "Total Records: 4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderSnapshotZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSnapshotWithWidth(&buf, "", model.Snapshot{}, 80); err != nil {
		t.Fatalf("RenderSnapshotWithWidth failed: %v", err)
	}
	if !strings.Contains(buf.String(), "0.0%") {
		t.Fatalf("expected zero percentages, got:\n%s", buf.String())
	}
}

func TestRenderGroupsCaption(t *testing.T) {
	ds := scenarioDataset()
	mapping := basename.Build(ds, "Base")
	groups := GroupSnapshots(ds, mapping, model.ResolveColumns(ds), nil)

	var buf bytes.Buffer
	if err := RenderGroups(&buf, groups); err != nil {
		t.Fatalf("RenderGroups failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "AA  Groups: 1-US-AA, 2-US-AA") {
		t.Fatalf("expected groups caption, got:\n%s", out)
	}
	if strings.Contains(out, "X  Groups:") {
		t.Fatalf("single-member group should not get a caption:\n%s", out)
	}
}

func TestRenderRowsLimit(t *testing.T) {
	ds := scenarioDataset()
	var buf bytes.Buffer
	if err := RenderRows(&buf, ds, 2); err != nil {
		t.Fatalf("RenderRows failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, 2 rows and a footer, got %d lines", len(lines))
	}
	if lines[3] != "... 1 more rows" {
		t.Fatalf("unexpected footer: %q", lines[3])
	}
}

func TestRenderMappingWithoutBaseColumn(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderMapping(&buf, model.NewBaseNameMapping()); err != nil {
		t.Fatalf("RenderMapping failed: %v", err)
	}
	if !strings.Contains(buf.String(), "not found") {
		t.Fatalf("expected not available message, got %q", buf.String())
	}
}
