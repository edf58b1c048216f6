// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/basedash/internal/basename"
	"github.com/verte-zerg/basedash/internal/model"
	"github.com/verte-zerg/basedash/internal/status"
)

// Aggregate counts status tags over every row of ds. A missing status column
// or an empty dataset yields the zero snapshot.
func Aggregate(ds *model.Dataset, statusCol string) model.Snapshot {
	if ds.Len() == 0 {
		return model.Snapshot{}
	}
	col := ds.Index(statusCol)
	if col < 0 {
		return model.Snapshot{}
	}
	snap := model.Snapshot{Total: len(ds.Rows)}
	for _, row := range ds.Rows {
		tags := status.Tag(row.Value(col))
		if tags.Approved {
			snap.Approved++
		}
		if tags.NotApproved {
			snap.NotApproved++
		}
		if tags.NotInTime {
			snap.NotInTime++
		}
	}
	return snap
}

// AggregateForGroup aggregates the rows whose normalized base value is a raw
// member of the named group.
func AggregateForGroup(ds *model.Dataset, name string, mapping *model.BaseNameMapping, baseCol, statusCol string) model.Snapshot {
	return Aggregate(GroupRows(ds, name, mapping, baseCol), statusCol)
}

// GroupRows returns the rows of ds that belong to the named group.
func GroupRows(ds *model.Dataset, name string, mapping *model.BaseNameMapping, baseCol string) *model.Dataset {
	col := ds.Index(baseCol)
	if col < 0 || !mapping.Has(name) {
		return &model.Dataset{Columns: columnsOf(ds)}
	}
	set := mapping.MemberSet(name)
	return ds.Where(func(row model.Row) bool {
		return basename.MemberOf(row.Value(col), set)
	})
}

// GroupSnapshots computes per-group statistics for names, sorted by name.
// An empty names list selects every group of the mapping.
func GroupSnapshots(ds *model.Dataset, mapping *model.BaseNameMapping, cols model.Columns, names []string) []model.GroupSnapshot {
	if len(names) == 0 {
		names = mapping.Names()
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	out := make([]model.GroupSnapshot, 0, len(sorted))
	for _, name := range sorted {
		out = append(out, model.GroupSnapshot{
			Name:    name,
			Members: mapping.Members(name),
			Stats:   AggregateForGroup(ds, name, mapping, cols.Base, cols.Status),
		})
	}
	return out
}

func columnsOf(ds *model.Dataset) []string {
	if ds == nil {
		return nil
	}
	return ds.Columns
}
