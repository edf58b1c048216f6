// Package basename derives canonical base names from raw base identifiers.
//
// Raw identifiers loosely follow "<prefix>-US-<shortcode>". The shortcode is
// the canonical name; values that do not follow the convention are grouped
// under their own full value.
package basename

import (
	"strings"

	"github.com/verte-zerg/basedash/internal/model"
)

const delimiter = "-US-"

// RawValue trims and upper-cases a base cell. Empty cells and the NAN/NONE
// null markers are reported as absent.
func RawValue(cell string) (string, bool) {
	v := strings.ToUpper(strings.TrimSpace(cell))
	if v == "" || v == "NAN" || v == "NONE" {
		return "", false
	}
	return v, true
}

// Normalize maps a raw base value to its canonical base name.
func Normalize(raw string) (string, bool) {
	v, ok := RawValue(raw)
	if !ok {
		return "", false
	}
	if strings.Contains(v, delimiter) {
		parts := strings.Split(v, delimiter)
		if len(parts) > 1 {
			name := strings.TrimSpace(parts[len(parts)-1])
			return name, name != ""
		}
	}
	return v, true
}

// Build scans the base column and groups its distinct raw values by canonical
// name. The mapping is empty when the column is absent.
func Build(ds *model.Dataset, baseCol string) *model.BaseNameMapping {
	mapping := model.NewBaseNameMapping()
	col := ds.Index(baseCol)
	if col < 0 {
		return mapping
	}
	seen := map[string]struct{}{}
	for _, row := range ds.Rows {
		raw, ok := RawValue(row.Value(col))
		if !ok {
			continue
		}
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}
		if name, ok := Normalize(raw); ok {
			mapping.Add(name, raw)
		}
	}
	return mapping
}

// MemberOf reports whether the normalized base cell belongs to set.
func MemberOf(cell string, set map[string]struct{}) bool {
	raw, ok := RawValue(cell)
	if !ok {
		return false
	}
	_, found := set[raw]
	return found
}
