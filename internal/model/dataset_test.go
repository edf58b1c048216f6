package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    Columns
	}{
		{
			name:    "exact names",
			columns: []string{"Base", "Checker"},
			want:    Columns{Base: "Base", Status: "Checker"},
		},
		{
			name:    "trimmed and case-insensitive",
			columns: []string{" BASE NAME ", "  check"},
			want:    Columns{Base: " BASE NAME ", Status: "  check"},
		},
		{
			name:    "first column in table order wins",
			columns: []string{"basename", "Check", "Base", "Checker"},
			want:    Columns{Base: "basename", Status: "Check"},
		},
		{
			name:    "no base column",
			columns: []string{"Card Number", "Checker"},
			want:    Columns{Base: "", Status: "Checker"},
		},
		{
			name:    "no status column falls back to checker",
			columns: []string{"Bases", "Result"},
			want:    Columns{Base: "Bases", Status: "checker"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveColumns(&Dataset{Columns: tt.columns})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveColumnsNilDataset(t *testing.T) {
	assert.Equal(t, Columns{Status: "checker"}, ResolveColumns(nil))
}

func TestFindColumn(t *testing.T) {
	ds := &Dataset{Columns: []string{"Number", "Card Number"}}
	assert.Equal(t, "Number", FindColumn(ds, "card number", "number"))
	assert.Equal(t, "Card Number", FindColumn(ds, "card number"))
	assert.Empty(t, FindColumn(ds, "cvv"))
	assert.Empty(t, FindColumn(nil, "number"))
}

func TestNilDatasetAccessors(t *testing.T) {
	var ds *Dataset
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, -1, ds.Index("Base"))
	assert.False(t, ds.HasColumn("Base"))
	assert.Empty(t, ds.Cell(0, 0))
	assert.Equal(t, 0, ds.Clone().Len())
}

func TestCellAndIndex(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"Base", "Checker"},
		Rows:    []Row{{"1-US-AA", "approved"}, {"X"}},
	}
	assert.Equal(t, 1, ds.Index("Checker"))
	assert.Equal(t, -1, ds.Index(""))
	assert.Equal(t, -1, ds.Index("checker"))
	assert.Equal(t, "approved", ds.Cell(0, 1))
	assert.Empty(t, ds.Cell(1, 1))
	assert.Empty(t, ds.Cell(2, 0))
	assert.Empty(t, ds.Cell(0, -1))
}

func TestWhereSharesRowsWithoutTouchingSource(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"Base"},
		Rows:    []Row{{"A"}, {"B"}, {"C"}},
	}
	out := ds.Where(func(r Row) bool { return r.Value(0) != "B" })
	assert.Equal(t, []Row{{"A"}, {"C"}}, out.Rows)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, ds.Columns, out.Columns)
}
