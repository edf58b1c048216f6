// Package loader reads tabular files into datasets.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/basedash/internal/model"
)

var (
	// ErrUnsupportedFormat is returned for extensions the loader cannot read.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyFile is returned when a file has no header row.
	ErrEmptyFile = errors.New("file has no columns")
)

// Extensions lists the file types offered from the data folder.
var Extensions = []string{".csv", ".xlsx", ".xls"}

// Loader resolves and reads data files.
type Loader struct {
	DataDir string
	Log     *zap.Logger
}

// New returns a loader rooted at dataDir.
func New(dataDir string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{DataDir: dataDir, Log: log}
}

// Resolve maps a bare file name to the data folder. Paths with a directory
// component, and names that do not exist in the data folder, are returned as is.
func (l *Loader) Resolve(name string) string {
	if name == "" || filepath.Base(name) != name || l.DataDir == "" {
		return name
	}
	candidate := filepath.Join(l.DataDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return name
}

// Files lists loadable files in the data folder sorted by name. A missing
// folder yields no files.
func (l *Loader) Files() ([]string, error) {
	entries, err := os.ReadDir(l.DataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data folder: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !supported(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// Sheets lists the sheet names of a spreadsheet. CSV files have none.
func (l *Loader) Sheets(path string) ([]string, error) {
	path = l.Resolve(path)
	switch ext(path) {
	case ".csv":
		return nil, nil
	case ".xlsx":
		return sheetNames(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads path into a dataset. For spreadsheets, sheets selects which
// sheets to concatenate; an empty list loads every sheet.
func (l *Loader) Load(path string, sheets []string) (*model.Dataset, error) {
	path = l.Resolve(path)
	var (
		ds  *model.Dataset
		err error
	)
	switch ext(path) {
	case ".csv":
		ds, err = l.readCSV(path)
	case ".xlsx":
		ds, err = l.readXLSX(path, sheets)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		l.Log.Warn("load failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	l.Log.Info("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", len(ds.Columns)),
	)
	return ds, nil
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func supported(name string) bool {
	e := ext(name)
	for _, allowed := range Extensions {
		if e == allowed {
			return true
		}
	}
	return false
}

// table turns a header row and body rows into a dataset with rectangular rows.
// Blank records before the header are skipped. Cells beyond the header width
// are dropped and reported.
func (l *Loader) table(source string, records [][]string) (*model.Dataset, error) {
	start := 0
	for start < len(records) && blank(records[start]) {
		start++
	}
	if start == len(records) {
		return nil, ErrEmptyFile
	}
	columns := headerNames(records[start])
	ds := &model.Dataset{Columns: columns, Rows: make([]model.Row, 0, len(records)-start-1)}
	for i, rec := range records[start+1:] {
		if blank(rec) {
			continue
		}
		if len(rec) > len(columns) && !blank(rec[len(columns):]) {
			l.Log.Warn("row has more cells than columns, extra cells dropped",
				zap.String("source", source),
				zap.Int("row", start+i+2),
				zap.Int("cells", len(rec)),
				zap.Int("columns", len(columns)),
			)
		}
		row := make(model.Row, len(columns))
		copy(row, rec)
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// headerNames fills blank headers and suffixes duplicates with ".N".
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
		}
		names[i] = h
	}
	return names
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// concat stacks datasets under the union of their columns, in first-seen order.
func concat(parts []*model.Dataset) *model.Dataset {
	out := &model.Dataset{}
	index := map[string]int{}
	for _, p := range parts {
		for _, c := range p.Columns {
			if _, ok := index[c]; !ok {
				index[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}
	for _, p := range parts {
		for _, r := range p.Rows {
			row := make(model.Row, len(out.Columns))
			for i, c := range p.Columns {
				row[index[c]] = r.Value(i)
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
