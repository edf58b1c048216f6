// Package export writes dataset views and base statistics to SQLite.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/basedash/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Export wraps a SQLite file being written.
type Export struct {
	db *sql.DB
}

// Summary counts what one Write stored.
type Summary struct {
	Records int
	Members int
	Groups  int
}

// Open creates or truncates the export database at path.
func Open(path string) (*Export, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	ex := &Export{db: db}
	if err := ex.reset(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ex, nil
}

// Close closes the underlying database.
func (e *Export) Close() error {
	return e.db.Close()
}

func (e *Export) reset() error {
	stmts := []string{
		`DROP TABLE IF EXISTS records;`,
		`DROP TABLE IF EXISTS base_groups;`,
		`DROP TABLE IF EXISTS group_stats;`,
		`CREATE TABLE base_groups (
			name TEXT NOT NULL,
			raw_value TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (name, raw_value)
		);`,
		`CREATE TABLE group_stats (
			name TEXT PRIMARY KEY,
			approved INTEGER NOT NULL,
			not_approved INTEGER NOT NULL,
			not_in_time INTEGER NOT NULL,
			total INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := e.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Write stores the rows of ds, the base-name mapping and group statistics in
// a single transaction.
func (e *Export) Write(ctx context.Context, ds *model.Dataset, mapping *model.BaseNameMapping, groups []model.GroupSnapshot) (sum Summary, err error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if sum.Records, err = writeRecords(ctx, tx, ds); err != nil {
		return Summary{}, fmt.Errorf("failed to write records: %w", err)
	}
	if sum.Members, err = writeMapping(ctx, tx, mapping); err != nil {
		return Summary{}, fmt.Errorf("failed to write base groups: %w", err)
	}
	if sum.Groups, err = writeGroups(ctx, tx, groups); err != nil {
		return Summary{}, fmt.Errorf("failed to write group stats: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func writeRecords(ctx context.Context, tx *sql.Tx, ds *model.Dataset) (int, error) {
	cols := ColumnNames(ds.Columns)
	defs := make([]string, 0, len(cols)+1)
	defs = append(defs, "row_index INTEGER PRIMARY KEY")
	for _, c := range cols {
		defs = append(defs, quote(c)+" TEXT")
	}
	if _, err := tx.ExecContext(ctx, "CREATE TABLE records ("+strings.Join(defs, ", ")+");"); err != nil {
		return 0, err
	}
	if ds.Len() == 0 {
		return 0, nil
	}

	names := make([]string, 0, len(cols)+1)
	names = append(names, "row_index")
	for _, c := range cols {
		names = append(names, quote(c))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO records ("+strings.Join(names, ", ")+") VALUES ("+placeholders+")")
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = stmt.Close()
	}()

	args := make([]any, len(names))
	for i, row := range ds.Rows {
		args[0] = i
		for c := range cols {
			args[c+1] = row.Value(c)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, err
		}
	}
	return ds.Len(), nil
}

func writeMapping(ctx context.Context, tx *sql.Tx, mapping *model.BaseNameMapping) (int, error) {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO base_groups (name, raw_value, position) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = stmt.Close()
	}()

	n := 0
	for _, name := range mapping.Names() {
		for pos, raw := range mapping.Members(name) {
			if _, err := stmt.ExecContext(ctx, name, raw, pos); err != nil {
				return 0, err
			}
			n++
		}
	}
	return n, nil
}

func writeGroups(ctx context.Context, tx *sql.Tx, groups []model.GroupSnapshot) (int, error) {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO group_stats (name, approved, not_approved, not_in_time, total) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, g := range groups {
		s := g.Stats
		if _, err := stmt.ExecContext(ctx, g.Name, s.Approved, s.NotApproved, s.NotInTime, s.Total); err != nil {
			return 0, err
		}
	}
	return len(groups), nil
}

// ColumnNames makes dataset column names usable as SQLite columns. SQLite
// compares identifiers case-insensitively, so later clashes get a numeric
// suffix, as do clashes with row_index.
func ColumnNames(columns []string) []string {
	seen := map[string]struct{}{"row_index": {}}
	out := make([]string, len(columns))
	for i, c := range columns {
		name := strings.TrimSpace(c)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		candidate := name
		for n := 2; ; n++ {
			if _, ok := seen[strings.ToLower(candidate)]; !ok {
				break
			}
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		seen[strings.ToLower(candidate)] = struct{}{}
		out[i] = candidate
	}
	return out
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
