// Package badge provides the merit badge catalog shared by demand, analysis, and reporting
package badge

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Set holds a group of badge names with constant-time membership checks.
type Set map[string]struct{}

// NewSet builds a Set from the given badge names. Names are stored as-is;
// callers canonicalize first when alias handling matters.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the set's badge names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// defaultEagleBadges lists every badge that can satisfy an Eagle rank
// requirement, including all alternates (Swimming/Hiking/Cycling,
// Lifesaving/Emergency Preparedness, Environmental Science/Sustainability).
// Names follow the counselor directory's spelling.
var defaultEagleBadges = []string{
	"Camping",
	"Citizenship in Society",
	"Citizenship in the Community",
	"Citizenship in the Nation",
	"Citizenship in the World",
	"Communication",
	"Cooking",
	"Cycling",
	"Emergency Preparedness",
	"Environmental Science",
	"Family Life",
	"First Aid",
	"Hiking",
	"Lifesaving",
	"Personal Fitness",
	"Personal Management",
	"Sustainability",
	"Swimming",
}

// DefaultEagleBadges returns a copy of the Eagle-required badge list.
func DefaultEagleBadges() []string {
	return append([]string(nil), defaultEagleBadges...)
}

// DefaultAliases maps signup-sheet badge spellings to the directory's
// spellings. The signup template drops the article from one of the
// citizenship badges.
func DefaultAliases() map[string]string {
	return map[string]string{
		"Citizenship in Community": "Citizenship in the Community",
	}
}

// Canonical resolves a badge name through the alias map after trimming
// surrounding whitespace. Unknown names pass through unchanged.
func Canonical(name string, aliases map[string]string) string {
	name = strings.TrimSpace(name)
	if canon, ok := aliases[name]; ok {
		return canon
	}
	return name
}

// LoadAll reads the full badge universe from a text file, one badge per
// line. Blank lines and lines starting with # are skipped.
func LoadAll(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening badge list: %w", err)
	}
	defer f.Close() // nolint:errcheck

	var badges []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		badges = append(badges, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading badge list: %w", err)
	}
	return badges, nil
}
