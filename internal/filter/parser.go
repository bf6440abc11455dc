package filter

import (
	"fmt"
	"strings"

	"github.com/scoutops/mbc-pipeline/internal/analysis"
)

// ParseLevels parses a comma-separated list of gap level names into Level
// values, in the order given. Names are case-insensitive, so "critical,high"
// and "CRITICAL, High" parse the same. Duplicates are dropped, first
// occurrence wins.
func ParseLevels(input string) ([]analysis.Level, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("level list cannot be empty")
	}

	var levels []analysis.Level
	seen := make(map[analysis.Level]bool)

	for _, part := range strings.Split(input, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		level := parseLevel(name)
		if level == "" {
			return nil, fmt.Errorf("invalid gap level %q. Use critical, high, medium, low, or adequate", name)
		}

		if seen[level] {
			continue
		}
		seen[level] = true
		levels = append(levels, level)
	}

	if len(levels) == 0 {
		return nil, fmt.Errorf("level list cannot be empty")
	}

	return levels, nil
}

// parseLevel converts a level name to its Level value, or "" if unknown
func parseLevel(name string) analysis.Level {
	levels := map[string]analysis.Level{
		"critical": analysis.LevelCritical,
		"high":     analysis.LevelHigh,
		"medium":   analysis.LevelMedium,
		"low":      analysis.LevelLow,
		"adequate": analysis.LevelAdequate,
	}

	return levels[strings.ToLower(name)]
}
