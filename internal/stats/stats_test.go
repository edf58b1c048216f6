package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/basedash/internal/basename"
	"github.com/verte-zerg/basedash/internal/model"
	"github.com/verte-zerg/basedash/internal/status"
)

func scenarioDataset() *model.Dataset {
	return &model.Dataset{
		Columns: []string{"Base", "Checker"},
		Rows: []model.Row{
			{"1-US-AA", "approved"},
			{"2-US-AA", "not approved"},
			{"X", "not in time"},
		},
	}
}

func TestAggregateEmpty(t *testing.T) {
	snap := Aggregate(&model.Dataset{}, "Checker")
	assert.Equal(t, model.Snapshot{}, snap)
	assert.Equal(t, 0.0, snap.Percent(snap.Approved))

	assert.Equal(t, model.Snapshot{}, Aggregate(nil, "Checker"))
}

func TestAggregateMissingStatusColumn(t *testing.T) {
	ds := &model.Dataset{Columns: []string{"Base"}, Rows: []model.Row{{"A"}, {"B"}}}
	assert.Equal(t, model.Snapshot{}, Aggregate(ds, "Checker"))
}

func TestAggregateOverlappingBuckets(t *testing.T) {
	ds := &model.Dataset{
		Columns: []string{"Checker"},
		Rows: []model.Row{
			{"Approved but not in time"},
			{"Not Approved"},
			{"pending"},
			{""},
		},
	}
	snap := Aggregate(ds, "Checker")
	assert.Equal(t, model.Snapshot{Approved: 1, NotApproved: 1, NotInTime: 1, Total: 4}, snap)
	assert.LessOrEqual(t, snap.Approved+snap.NotApproved, snap.Total)
}

func TestAggregateScenario(t *testing.T) {
	ds := scenarioDataset()
	mapping := basename.Build(ds, "Base")

	assert.Equal(t, model.Snapshot{Approved: 1, NotApproved: 1, NotInTime: 1, Total: 3}, Aggregate(ds, "Checker"))
	assert.Equal(t, model.Snapshot{Approved: 1, NotApproved: 1, Total: 2}, AggregateForGroup(ds, "AA", mapping, "Base", "Checker"))
	assert.Equal(t, model.Snapshot{NotInTime: 1, Total: 1}, AggregateForGroup(ds, "X", mapping, "Base", "Checker"))
}

func TestAggregateForGroupMatchesMemberRows(t *testing.T) {
	ds := &model.Dataset{
		Columns: []string{"Base", "Checker"},
		Rows: []model.Row{
			{"123-US-LY", "Approved"},
			{"456-US-LY", "Not Approved"},
			{"OTHER", "Approved"},
		},
	}
	mapping := basename.Build(ds, "Base")
	snap := AggregateForGroup(ds, "LY", mapping, "Base", "Checker")
	assert.Equal(t, model.Snapshot{Approved: 1, NotApproved: 1, NotInTime: 0, Total: 2}, snap)

	var manual model.Snapshot
	for _, row := range ds.Rows {
		name, ok := basename.Normalize(row[0])
		if !ok || name != "LY" {
			continue
		}
		manual.Total++
		tags := status.Tag(row[1])
		if tags.Approved {
			manual.Approved++
		}
		if tags.NotApproved {
			manual.NotApproved++
		}
		if tags.NotInTime {
			manual.NotInTime++
		}
	}
	assert.Equal(t, manual, snap)
}

func TestAggregateForGroupDegenerate(t *testing.T) {
	ds := scenarioDataset()
	mapping := basename.Build(ds, "Base")
	assert.Equal(t, model.Snapshot{}, AggregateForGroup(ds, "ZZ", mapping, "Base", "Checker"))
	assert.Equal(t, model.Snapshot{}, AggregateForGroup(ds, "AA", mapping, "", "Checker"))
	assert.Equal(t, model.Snapshot{}, AggregateForGroup(ds, "AA", model.NewBaseNameMapping(), "Base", "Checker"))
}

func TestGroupSnapshotsSortedByName(t *testing.T) {
	ds := &model.Dataset{
		Columns: []string{"Base", "Checker"},
		Rows: []model.Row{
			{"1-US-ZZ", "approved"},
			{"2-US-AA", "approved"},
			{"3-US-MM", "not approved"},
		},
	}
	mapping := basename.Build(ds, "Base")
	cols := model.ResolveColumns(ds)

	groups := GroupSnapshots(ds, mapping, cols, nil)
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	assert.Equal(t, []string{"AA", "MM", "ZZ"}, names)
	assert.Equal(t, 1, groups[1].Stats.NotApproved)

	only := GroupSnapshots(ds, mapping, cols, []string{"ZZ"})
	assert.Len(t, only, 1)
	assert.Equal(t, []string{"1-US-ZZ"}, only[0].Members)
}

func TestSnapshotPercent(t *testing.T) {
	snap := model.Snapshot{Approved: 1, NotApproved: 3, Total: 4}
	assert.InDelta(t, 25.0, snap.Percent(snap.Approved), 1e-9)
	assert.InDelta(t, 75.0, snap.Percent(snap.NotApproved), 1e-9)
	assert.Equal(t, 0.0, model.Snapshot{}.Percent(5))
}
