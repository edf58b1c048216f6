// Package status classifies free-text approval status cells.
package status

import (
	"strings"

	"github.com/verte-zerg/basedash/internal/model"
)

const (
	approvedText    = "approved"
	notApprovedText = "not approved"
	notInTimeText   = "not in time"
)

// Tags holds the independent status predicates of one cell. NotInTime is
// orthogonal to the approval tags: "approved but not in time" sets both.
type Tags struct {
	Approved    bool
	NotApproved bool
	NotInTime   bool
}

// Tag evaluates the three status predicates over the lower-cased cell.
func Tag(raw string) Tags {
	v := strings.ToLower(raw)
	notApproved := strings.Contains(v, notApprovedText)
	return Tags{
		Approved:    !notApproved && strings.Contains(v, approvedText),
		NotApproved: notApproved,
		NotInTime:   strings.Contains(v, notInTimeText),
	}
}

// Classify returns the primary outcome of a status cell.
func Classify(raw string) model.Outcome {
	tags := Tag(raw)
	switch {
	case tags.NotApproved:
		return model.NotApproved
	case tags.Approved:
		return model.Approved
	case tags.NotInTime:
		return model.NotInTime
	default:
		return model.Unclassified
	}
}

// Matches reports whether a status cell passes the given filter.
func Matches(raw string, f model.StatusFilter) bool {
	switch f {
	case model.FilterApproved:
		return Tag(raw).Approved
	case model.FilterNotApproved:
		return Tag(raw).NotApproved
	case model.FilterNotInTime:
		return Tag(raw).NotInTime
	default:
		return true
	}
}

// ParseFilter parses a status filter name as typed on the command line.
func ParseFilter(s string) (model.StatusFilter, bool) {
	key := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "", "all", "show all":
		return model.ShowAll, true
	case "approved":
		return model.FilterApproved, true
	case "not approved":
		return model.FilterNotApproved, true
	case "not in time", "late":
		return model.FilterNotInTime, true
	}
	return model.ShowAll, false
}
