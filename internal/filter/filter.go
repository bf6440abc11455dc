// Package filter narrows priority analysis output for display.
//
// Filters select records by:
//   - Gap levels (CRITICAL, HIGH, MEDIUM, LOW, ADEQUATE)
//   - Eagle-required badges only
//   - Badge names (substring matching, case-insensitive)
//   - Minimum priority score
//   - Top N records, applied after the other criteria
//
// Filtering is presentation-only: the analyze command applies it to what it
// prints, never to the artifact it saves.
//
// Example usage:
//
//	// Show the ten most urgent Eagle-required gaps
//	f := filter.NewFilter()
//	f.EagleOnly = true
//	f.Levels = []analysis.Level{analysis.LevelCritical}
//	f.Top = 10
//
//	shown := f.Apply(records)
package filter

import (
	"fmt"
	"strings"

	"github.com/scoutops/mbc-pipeline/internal/analysis"
)

// Filter represents priority record filtering criteria
type Filter struct {
	// Gap level filtering (exact match against the record's level)
	Levels []analysis.Level `json:"levels,omitempty"`

	// Eagle-required badges only
	EagleOnly bool `json:"eagle_only,omitempty"`

	// Badge name filtering (case-insensitive substring match)
	Badges []string `json:"badges,omitempty"`

	// Minimum priority score (active when > 0)
	MinScore float64 `json:"min_score,omitempty"`

	// Cap on the number of records returned, 0 means no cap.
	// Records are already ranked, so this keeps the most urgent.
	Top int `json:"top,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all records until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Levels: []analysis.Level{},
		Badges: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
// Returns true if the filter would pass all records through.
func (f *Filter) IsEmpty() bool {
	return len(f.Levels) == 0 &&
		!f.EagleOnly &&
		len(f.Badges) == 0 &&
		f.MinScore == 0 &&
		f.Top == 0
}

// Matches checks if a record passes all active per-record criteria.
// An empty filter matches all records. Top is a result cap, not a
// per-record test, so it is handled by Apply rather than here.
//
// Matching logic:
//   - Levels: record's gap level must equal one of the listed levels
//   - EagleOnly: record must be an Eagle-required badge
//   - Badges: badge name must contain at least one entry (case-insensitive)
//   - MinScore: record's priority score must be at least MinScore
func (f *Filter) Matches(rec analysis.Record) bool {
	// Empty filter matches all records
	if f.IsEmpty() {
		return true
	}

	if len(f.Levels) > 0 {
		matched := false
		for _, level := range f.Levels {
			if rec.GapLevel == level {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.EagleOnly && !rec.IsEagleRequired {
		return false
	}

	// Check badge name (case-insensitive substring match)
	if len(f.Badges) > 0 {
		matched := false
		nameLower := strings.ToLower(rec.BadgeName)
		for _, badge := range f.Badges {
			if strings.Contains(nameLower, strings.ToLower(badge)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.MinScore > 0 && rec.PriorityScore < f.MinScore {
		return false
	}

	return true
}

// Apply applies the filter to a ranked record list and returns only matching
// records, preserving their order, then caps the result at Top when set.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(records []analysis.Record) []analysis.Record {
	if f.IsEmpty() {
		return records
	}

	var filtered []analysis.Record
	for _, rec := range records {
		if f.Matches(rec) {
			filtered = append(filtered, rec)
		}
	}

	if f.Top > 0 && len(filtered) > f.Top {
		filtered = filtered[:f.Top]
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Returns "No active filters" if the filter is empty.
// Format: "Levels: CRITICAL, HIGH | Eagle-required only | Top: 10"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if len(f.Levels) > 0 {
		names := make([]string, len(f.Levels))
		for i, level := range f.Levels {
			names[i] = string(level)
		}
		parts = append(parts, fmt.Sprintf("Levels: %s", strings.Join(names, ", ")))
	}

	if f.EagleOnly {
		parts = append(parts, "Eagle-required only")
	}

	if len(f.Badges) > 0 {
		parts = append(parts, fmt.Sprintf("Badges: %s", strings.Join(f.Badges, ", ")))
	}

	if f.MinScore > 0 {
		parts = append(parts, fmt.Sprintf("Min score: %.2f", f.MinScore))
	}

	if f.Top > 0 {
		parts = append(parts, fmt.Sprintf("Top: %d", f.Top))
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
// All slices are copied to new memory locations, ensuring modifications
// to the clone don't affect the original.
func (f *Filter) Clone() *Filter {
	clone := &Filter{
		EagleOnly: f.EagleOnly,
		MinScore:  f.MinScore,
		Top:       f.Top,
	}

	if len(f.Levels) > 0 {
		clone.Levels = make([]analysis.Level, len(f.Levels))
		copy(clone.Levels, f.Levels)
	} else {
		clone.Levels = []analysis.Level{}
	}

	if len(f.Badges) > 0 {
		clone.Badges = make([]string, len(f.Badges))
		copy(clone.Badges, f.Badges)
	} else {
		clone.Badges = []string{}
	}

	return clone
}
