// Package session holds the application state of one dashboard session.
//
// The state is an explicit record owned by the presentation layer. The
// canonical dataset and base-name mapping are created together in Load and
// never change afterwards; every view is derived from them on demand.
package session

import (
	"github.com/verte-zerg/basedash/internal/basename"
	"github.com/verte-zerg/basedash/internal/filter"
	"github.com/verte-zerg/basedash/internal/model"
	"github.com/verte-zerg/basedash/internal/stats"
)

// State is the per-session application state.
type State struct {
	Source    string
	Canonical *model.Dataset
	Working   *model.Dataset
	Columns   model.Columns
	Mapping   *model.BaseNameMapping

	StatusFilter  model.StatusFilter
	SelectedBases []string
}

// Result is a filtered dataset together with its statistics.
type Result struct {
	Rows  *model.Dataset
	Stats model.Snapshot
}

// Load resolves columns and builds the base-name mapping for a freshly loaded
// dataset. Every base starts selected and the working view is the full dataset.
func Load(ds *model.Dataset, source string) *State {
	if ds == nil {
		ds = &model.Dataset{}
	}
	cols := model.ResolveColumns(ds)
	mapping := basename.Build(ds, cols.Base)
	return &State{
		Source:        source,
		Canonical:     ds,
		Working:       ds.Clone(),
		Columns:       cols,
		Mapping:       mapping,
		SelectedBases: mapping.Names(),
	}
}

// HasBases reports whether base grouping is available.
func (s *State) HasBases() bool {
	return s.Columns.Base != "" && s.Mapping.Len() > 0
}

// ApplyBaseFilter narrows the working dataset to the selected groups.
func (s *State) ApplyBaseFilter(names []string) error {
	out, err := filter.Apply(s.Canonical, filter.Bases(s.Mapping, s.Columns.Base, names))
	if err != nil {
		return err
	}
	s.SelectedBases = append([]string(nil), names...)
	s.Working = out
	return nil
}

// ResetBaseFilter restores the working dataset to the canonical rows.
func (s *State) ResetBaseFilter() {
	s.Working = s.Canonical.Clone()
	s.SelectedBases = s.Mapping.Names()
}

// SetStatusFilter changes the status filter applied to views.
func (s *State) SetStatusFilter(f model.StatusFilter) {
	s.StatusFilter = f
}

// View returns the working dataset narrowed by the status filter and, when
// search is not empty, by a free-text search.
func (s *State) View(search string) *model.Dataset {
	steps := []filter.Step{filter.Status(s.StatusFilter, s.Columns.Status)}
	if search != "" {
		steps = append(steps, filter.Search(search))
	}
	out, err := filter.Apply(s.Working, steps...)
	if err != nil {
		return &model.Dataset{Columns: s.Working.Columns}
	}
	return out
}

// Overall returns the snapshot of the whole canonical dataset.
func (s *State) Overall() model.Snapshot {
	return stats.Aggregate(s.Canonical, s.Columns.Status)
}

// Search runs a free-text search over the canonical dataset.
func (s *State) Search(term string) (Result, error) {
	return s.run(filter.Search(term))
}

// Combine selects canonical rows whose base contains either fragment.
func (s *State) Combine(first, second string) (Result, error) {
	return s.run(filter.Combine(s.Columns.Base, first, second))
}

// Groups returns per-group statistics over the canonical dataset. An empty
// names list reports every group.
func (s *State) Groups(names []string) []model.GroupSnapshot {
	if !s.HasBases() {
		return nil
	}
	return stats.GroupSnapshots(s.Canonical, s.Mapping, s.Columns, names)
}

func (s *State) run(step filter.Step) (Result, error) {
	rows, err := filter.Apply(s.Canonical, step)
	if err != nil {
		return Result{}, err
	}
	return Result{Rows: rows, Stats: stats.Aggregate(rows, s.Columns.Status)}, nil
}
