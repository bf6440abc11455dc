package analysis

import (
	"sort"
	"time"
)

// GapChange represents a change in one badge's gap level between two runs.
type GapChange struct {
	BadgeName  string    `json:"badge_name"`
	ChangeType string    `json:"change_type"` // "new", "resolved", "level"
	OldLevel   Level     `json:"old_level,omitempty"`
	NewLevel   Level     `json:"new_level,omitempty"`
	DetectedAt time.Time `json:"detected_at"`
}

// CompareRuns diffs two ranked priority lists and reports gap transitions:
// badges newly below adequate coverage, badges whose gap resolved, and
// badges whose level moved. ADEQUATE records and absent badges both count
// as "no gap". Results are sorted by badge name for consistent output.
func CompareRuns(previous, current []Record) []GapChange {
	prevLevels := make(map[string]Level, len(previous))
	for _, rec := range previous {
		prevLevels[rec.BadgeName] = rec.GapLevel
	}
	currLevels := make(map[string]Level, len(current))
	for _, rec := range current {
		currLevels[rec.BadgeName] = rec.GapLevel
	}

	now := time.Now().UTC()
	var changes []GapChange

	for name, level := range currLevels {
		if level == LevelAdequate {
			continue
		}
		old, existed := prevLevels[name]
		switch {
		case !existed || old == LevelAdequate:
			changes = append(changes, GapChange{
				BadgeName:  name,
				ChangeType: "new",
				OldLevel:   old,
				NewLevel:   level,
				DetectedAt: now,
			})
		case old != level:
			changes = append(changes, GapChange{
				BadgeName:  name,
				ChangeType: "level",
				OldLevel:   old,
				NewLevel:   level,
				DetectedAt: now,
			})
		}
	}

	for name, old := range prevLevels {
		if old == LevelAdequate {
			continue
		}
		if level, exists := currLevels[name]; !exists || level == LevelAdequate {
			changes = append(changes, GapChange{
				BadgeName:  name,
				ChangeType: "resolved",
				OldLevel:   old,
				NewLevel:   currLevels[name],
				DetectedAt: now,
			})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].BadgeName != changes[j].BadgeName {
			return changes[i].BadgeName < changes[j].BadgeName
		}
		return changes[i].ChangeType < changes[j].ChangeType
	})

	return changes
}
