package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/basedash/internal/basename"
	"github.com/verte-zerg/basedash/internal/model"
)

func sampleDataset() *model.Dataset {
	return &model.Dataset{
		Columns: []string{"Base", "Checker", "Note"},
		Rows: []model.Row{
			{"1-US-MYWE", "approved", "first"},
			{"2-US-FISH", "not approved", "Second"},
			{"3-US-MYWE", "approved, not in time", "third"},
			{"OTHER", "pending", "Fourth"},
			{"nan", "approved", "fifth"},
		},
	}
}

func TestStatusShowAllIsNoOp(t *testing.T) {
	ds := sampleDataset()
	out, err := Apply(ds, Status(model.ShowAll, "Checker"))
	require.NoError(t, err)
	assert.Equal(t, ds.Columns, out.Columns)
	assert.Equal(t, ds.Rows, out.Rows)
}

func TestStatusFilters(t *testing.T) {
	ds := sampleDataset()
	tests := []struct {
		filter model.StatusFilter
		want   int
	}{
		{model.FilterApproved, 3},
		{model.FilterNotApproved, 1},
		{model.FilterNotInTime, 1},
	}
	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			out, err := Apply(ds, Status(tt.filter, "Checker"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Len())
		})
	}
}

func TestStatusWithoutColumnPassesThrough(t *testing.T) {
	ds := sampleDataset()
	out, err := Apply(ds, Status(model.FilterApproved, "Missing"))
	require.NoError(t, err)
	assert.Equal(t, ds.Len(), out.Len())
}

func TestSearchAnyColumnIgnoringCase(t *testing.T) {
	ds := sampleDataset()
	out, err := Apply(ds, Search("SECOND"))
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "2-US-FISH", out.Rows[0][0])

	out, err = Apply(ds, Search("mywe"))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestSearchEmptyTermIsWarning(t *testing.T) {
	_, err := Apply(sampleDataset(), Search(""))
	require.ErrorIs(t, err, ErrEmptySearch)
	assert.True(t, IsWarning(err))
}

func TestBases(t *testing.T) {
	ds := sampleDataset()
	mapping := basename.Build(ds, "Base")

	out, err := Apply(ds, Bases(mapping, "Base", []string{"MYWE", "OTHER"}))
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())

	_, err = Apply(ds, Bases(mapping, "Base", nil))
	assert.ErrorIs(t, err, ErrNoBasesSelected)

	_, err = Apply(ds, Bases(mapping, "", []string{"MYWE"}))
	assert.ErrorIs(t, err, ErrNoBaseColumn)
}

func TestCombineIsUnionOfSingleFragments(t *testing.T) {
	ds := sampleDataset()
	combined, err := Apply(ds, Combine("Base", "MYWE", "fish"))
	require.NoError(t, err)

	union := map[int]struct{}{}
	for _, fragment := range []string{"MYWE", "fish"} {
		for i, row := range ds.Rows {
			single, err := Apply(&model.Dataset{Columns: ds.Columns, Rows: []model.Row{row}}, Combine("Base", fragment, fragment))
			require.NoError(t, err)
			if single.Len() == 1 {
				union[i] = struct{}{}
			}
		}
	}
	assert.Equal(t, len(union), combined.Len())
	assert.Equal(t, 3, combined.Len())
}

func TestCombineWarnings(t *testing.T) {
	ds := sampleDataset()
	_, err := Apply(ds, Combine("Base", "MYWE", "  "))
	assert.ErrorIs(t, err, ErrEmptyCombine)
	_, err = Apply(ds, Combine("", "MYWE", "FISH"))
	assert.ErrorIs(t, err, ErrNoBaseColumn)
}

func TestFiltersDoNotMutateSource(t *testing.T) {
	ds := sampleDataset()
	before := ds.Clone()
	mapping := basename.Build(ds, "Base")

	_, err := Apply(ds,
		Status(model.FilterApproved, "Checker"),
		Search("first"),
		Bases(mapping, "Base", []string{"MYWE"}),
	)
	require.NoError(t, err)
	assert.Equal(t, before.Rows, ds.Rows)
	assert.Equal(t, []string{"MYWE", "FISH", "OTHER"}, mapping.Names())
}

func TestApplyComposesInOrder(t *testing.T) {
	ds := sampleDataset()
	out, err := Apply(ds, Status(model.FilterApproved, "Checker"), Search("third"))
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "3-US-MYWE", out.Rows[0][0])
}
