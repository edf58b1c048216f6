// Package filter narrows datasets by status, free text and base groups.
//
// Every step builds a new dataset and leaves its input untouched, so the
// canonical dataset can be filtered again independently.
package filter

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"

	"github.com/verte-zerg/basedash/internal/basename"
	"github.com/verte-zerg/basedash/internal/model"
	"github.com/verte-zerg/basedash/internal/status"
)

// Warning states reported instead of filtering.
var (
	ErrEmptySearch     = errors.New("please enter a search term")
	ErrEmptyCombine    = errors.New("please enter both base names")
	ErrNoBaseColumn    = errors.New("base column not found in the data")
	ErrNoBasesSelected = errors.New("please select at least one base")
)

// Step transforms a dataset into a subset of itself.
type Step func(*model.Dataset) (*model.Dataset, error)

// Apply runs steps in order starting from src.
func Apply(src *model.Dataset, steps ...Step) (*model.Dataset, error) {
	out := src
	if out == nil {
		out = &model.Dataset{}
	}
	for _, step := range steps {
		next, err := step(out)
		if err != nil {
			return nil, err
		}
		out = next
	}
	if out == src {
		return src.Clone(), nil
	}
	return out, nil
}

// Status keeps rows whose status cell matches f. ShowAll, or a dataset
// without the status column, passes every row through.
func Status(f model.StatusFilter, statusCol string) Step {
	return func(ds *model.Dataset) (*model.Dataset, error) {
		col := ds.Index(statusCol)
		if f == model.ShowAll || col < 0 {
			return ds.Clone(), nil
		}
		return ds.Where(func(row model.Row) bool {
			return status.Matches(row.Value(col), f)
		}), nil
	}
}

// Search keeps rows where any cell contains term, ignoring case.
func Search(term string) Step {
	return func(ds *model.Dataset) (*model.Dataset, error) {
		if term == "" {
			return nil, ErrEmptySearch
		}
		needle := fold(term)
		return ds.Where(func(row model.Row) bool {
			for _, cell := range row {
				if strings.Contains(fold(cell), needle) {
					return true
				}
			}
			return false
		}), nil
	}
}

// Bases keeps rows whose normalized base value is a member of any selected group.
func Bases(mapping *model.BaseNameMapping, baseCol string, names []string) Step {
	return func(ds *model.Dataset) (*model.Dataset, error) {
		col := ds.Index(baseCol)
		if col < 0 {
			return nil, ErrNoBaseColumn
		}
		if len(names) == 0 {
			return nil, ErrNoBasesSelected
		}
		set := mapping.MemberSet(names...)
		return ds.Where(func(row model.Row) bool {
			return basename.MemberOf(row.Value(col), set)
		}), nil
	}
}

// Combine keeps rows whose raw base cell contains either fragment, ignoring case.
func Combine(baseCol, first, second string) Step {
	return func(ds *model.Dataset) (*model.Dataset, error) {
		a := strings.TrimSpace(first)
		b := strings.TrimSpace(second)
		if a == "" || b == "" {
			return nil, ErrEmptyCombine
		}
		col := ds.Index(baseCol)
		if col < 0 {
			return nil, ErrNoBaseColumn
		}
		a, b = fold(a), fold(b)
		return ds.Where(func(row model.Row) bool {
			cell := fold(row.Value(col))
			return strings.Contains(cell, a) || strings.Contains(cell, b)
		}), nil
	}
}

// IsWarning reports whether err is one of the user-input warning states.
func IsWarning(err error) bool {
	return errors.Is(err, ErrEmptySearch) ||
		errors.Is(err, ErrEmptyCombine) ||
		errors.Is(err, ErrNoBaseColumn) ||
		errors.Is(err, ErrNoBasesSelected)
}

func fold(s string) string {
	return cases.Fold().String(s)
}
