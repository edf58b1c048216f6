package model

import "strings"

// Row is one record; every cell is already stringified.
type Row []string

// Dataset is an ordered table of records with named columns.
//
// Datasets are treated as values: filters return new datasets whose Rows
// slice is fresh but whose rows are shared read-only with the source.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Index returns the position of the named column, or -1.
func (d *Dataset) Index(name string) int {
	if d == nil || name == "" {
		return -1
	}
	for i, col := range d.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the dataset carries the named column.
func (d *Dataset) HasColumn(name string) bool {
	return d.Index(name) >= 0
}

// Cell returns the value at row i for column index col; short rows read as "".
func (d *Dataset) Cell(i, col int) string {
	if d == nil || i < 0 || i >= len(d.Rows) || col < 0 {
		return ""
	}
	row := d.Rows[i]
	if col >= len(row) {
		return ""
	}
	return row[col]
}

// Where returns a new dataset holding the rows for which keep returns true.
func (d *Dataset) Where(keep func(Row) bool) *Dataset {
	if d == nil {
		return &Dataset{}
	}
	out := &Dataset{Columns: d.Columns, Rows: make([]Row, 0, len(d.Rows))}
	for _, row := range d.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Clone returns a dataset with the same columns and rows in a fresh slice.
func (d *Dataset) Clone() *Dataset {
	return d.Where(func(Row) bool { return true })
}

// Value returns the cell of row for column index col.
func (r Row) Value(col int) string {
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

var (
	baseColumnNames   = []string{"base", "bases", "base name", "basename"}
	statusColumnNames = []string{"checker", "check"}
)

// Columns records the columns the analytics depend on, resolved once per load.
// An empty Base means base grouping is unavailable. Status always holds a name;
// when it is not a column of the dataset every status count is zero.
type Columns struct {
	Base   string
	Status string
}

// ResolveColumns locates the base and status columns by case-insensitive name.
func ResolveColumns(d *Dataset) Columns {
	cols := Columns{
		Base:   FindColumn(d, baseColumnNames...),
		Status: FindColumn(d, statusColumnNames...),
	}
	if cols.Status == "" {
		cols.Status = "checker"
		if d.HasColumn("Checker") {
			cols.Status = "Checker"
		}
	}
	return cols
}

// FindColumn returns the first column whose lower-cased, trimmed name is one of names.
func FindColumn(d *Dataset, names ...string) string {
	if d == nil {
		return ""
	}
	for _, col := range d.Columns {
		key := strings.ToLower(strings.TrimSpace(col))
		for _, name := range names {
			if key == name {
				return col
			}
		}
	}
	return ""
}
