package export

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/basedash/internal/basename"
	"github.com/verte-zerg/basedash/internal/model"
	"github.com/verte-zerg/basedash/internal/stats"
)

func scenario() *model.Dataset {
	return &model.Dataset{
		Columns: []string{"Base", "Checker", "base"},
		Rows: []model.Row{
			{"1-US-AA", "approved", "x"},
			{"2-US-AA", "not approved"},
			{"X", "not in time", "z"},
		},
	}
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestWriteStoresRecordsMappingAndGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "export.db")
	ds := scenario()
	cols := model.ResolveColumns(ds)
	mapping := basename.Build(ds, cols.Base)
	groups := stats.GroupSnapshots(ds, mapping, cols, nil)

	ex, err := Open(path)
	require.NoError(t, err)
	sum, err := ex.Write(context.Background(), ds, mapping, groups)
	require.NoError(t, err)
	require.NoError(t, ex.Close())
	assert.Equal(t, Summary{Records: 3, Members: 3, Groups: 2}, sum)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	assert.Equal(t, 3, count(t, db, "records"))
	assert.Equal(t, 3, count(t, db, "base_groups"))
	assert.Equal(t, 2, count(t, db, "group_stats"))

	var checker, dup string
	require.NoError(t, db.QueryRow(`SELECT "Checker", "base_2" FROM records WHERE row_index = 1`).Scan(&checker, &dup))
	assert.Equal(t, "not approved", checker)
	assert.Equal(t, "", dup)

	var approved, notApproved, total int
	require.NoError(t, db.QueryRow(
		`SELECT approved, not_approved, total FROM group_stats WHERE name = 'AA'`,
	).Scan(&approved, &notApproved, &total))
	assert.Equal(t, []int{1, 1, 2}, []int{approved, notApproved, total})

	var raw string
	require.NoError(t, db.QueryRow(
		`SELECT raw_value FROM base_groups WHERE name = 'AA' AND position = 1`,
	).Scan(&raw))
	assert.Equal(t, "2-US-AA", raw)
}

func TestOpenReplacesPreviousExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.db")
	ds := scenario()

	for i := 0; i < 2; i++ {
		ex, err := Open(path)
		require.NoError(t, err)
		_, err = ex.Write(context.Background(), ds, model.NewBaseNameMapping(), nil)
		require.NoError(t, err)
		require.NoError(t, ex.Close())
	}

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()
	assert.Equal(t, 3, count(t, db, "records"))
	assert.Equal(t, 0, count(t, db, "base_groups"))
}

func TestWriteEmptyDataset(t *testing.T) {
	ex, err := Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer func() {
		_ = ex.Close()
	}()
	sum, err := ex.Write(context.Background(), &model.Dataset{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
}

func TestColumnNames(t *testing.T) {
	got := ColumnNames([]string{"Base", "base", "", "row_index", "BASE"})
	assert.Equal(t, []string{"Base", "base_2", "column_3", "row_index_2", "BASE_3"}, got)
}
