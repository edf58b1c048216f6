// Package model defines shared data structures.
package model

import "time"

// Config defines dashboard settings after flags and the config file are merged.
// The flag tag names the CLI flag reported in validation errors.
type Config struct {
	DataDir    string        `flag:"data-dir" validate:"required"`
	File       string        `flag:"file"`
	Sheets     []string      `flag:"sheet" validate:"dive,required"`
	Password   string        `flag:"password"`
	PageSize   int           `flag:"page-size" validate:"gte=1,lte=10000"`
	FillURL    string        `flag:"url" validate:"omitempty,url"`
	HolderName string        `flag:"holder-name" validate:"required"`
	Headless   bool          `flag:"headless"`
	FillWait   time.Duration `flag:"wait" validate:"gte=0"`
}

// Outcome is the primary approval outcome of one status cell.
type Outcome int

// Status outcomes.
const (
	Unclassified Outcome = iota
	Approved
	NotApproved
	NotInTime
)

func (o Outcome) String() string {
	switch o {
	case Approved:
		return "Approved"
	case NotApproved:
		return "Not Approved"
	case NotInTime:
		return "Not in Time"
	default:
		return "Unclassified"
	}
}

// StatusFilter selects rows by status outcome.
type StatusFilter int

// Status filters, in the order the dashboard cycles through them.
const (
	ShowAll StatusFilter = iota
	FilterApproved
	FilterNotApproved
	FilterNotInTime
)

// StatusFilters lists every status filter in display order.
var StatusFilters = []StatusFilter{ShowAll, FilterApproved, FilterNotApproved, FilterNotInTime}

func (f StatusFilter) String() string {
	switch f {
	case FilterApproved:
		return "Approved"
	case FilterNotApproved:
		return "Not Approved"
	case FilterNotInTime:
		return "Not in Time"
	default:
		return "Show All"
	}
}

// Next returns the filter that follows f, wrapping around.
func (f StatusFilter) Next() StatusFilter {
	return StatusFilters[(int(f)+1)%len(StatusFilters)]
}

// Snapshot holds approval counts over a dataset slice. The three named
// buckets may overlap and need not sum to Total.
type Snapshot struct {
	Approved    int
	NotApproved int
	NotInTime   int
	Total       int
}

// Percent returns count as a percentage of Total, or 0 for an empty slice.
func (s Snapshot) Percent(count int) float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(count) / float64(s.Total) * 100
}

// GroupSnapshot pairs a canonical base name with its statistics.
type GroupSnapshot struct {
	Name    string
	Members []string
	Stats   Snapshot
}
