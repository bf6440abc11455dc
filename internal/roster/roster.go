package roster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/scoutops/mbc-pipeline/internal/matcher"
)

// rosterFileRe matches roster export filenames like "T32 Roster 16Sep2025.html".
var rosterFileRe = regexp.MustCompile(`^([A-Z0-9]+)\s+Roster\s+(.+)\.html$`)

// rosterDateFormats are the date spellings seen in roster filenames.
var rosterDateFormats = []string{"02Jan2006", "2006-01-02", "01-02-2006", "20060102"}

var (
	// memberLineRe matches an adult row: sequence number, name, then the
	// tab-separated detail columns. The whitespace-before-tab requirement
	// keeps member ID detail lines (single-tab separated) from matching.
	memberLineRe  = regexp.MustCompile(`^(\d+)\s+(.+?)\s+\t`)
	memberStartRe = regexp.MustCompile(`^\d+\s+`)
	memberIDRe    = regexp.MustCompile(`^\d{8}\s+`)
)

// Adult is one row from a roster's Adult Members section.
type Adult struct {
	Sequence string
	FullName string
	First    string
	Last     string
	NameKey  string
	Position string
	Troop    string
}

// Member is one unique adult across all processed rosters.
type Member struct {
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	FullName  string            `json:"full_name"`
	NameKey   string            `json:"name_key"`
	Troops    []string          `json:"troops"`
	Positions map[string]string `json:"positions"`
}

// Warning reports a roster that could not be processed.
type Warning struct {
	File    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.File, w.Message)
}

// DetectRosters scans dir for "{UNIT} Roster {DATE}.html" files and returns
// the newest roster path per unit. Filenames whose date cannot be parsed
// fall back to the file modification time.
func DetectRosters(dir string) (map[string]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("listing rosters: %w", err)
	}

	type candidate struct {
		path string
		date time.Time
	}
	newest := make(map[string]candidate)
	for _, path := range paths {
		m := rosterFileRe.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			continue
		}
		unit := m[1]
		date := parseRosterDate(m[2], modTime(path))
		if cur, ok := newest[unit]; !ok || date.After(cur.date) {
			newest[unit] = candidate{path: path, date: date}
		}
	}

	rosters := make(map[string]string, len(newest))
	for unit, c := range newest {
		rosters[unit] = c.path
	}
	return rosters, nil
}

func parseRosterDate(s string, fallback time.Time) time.Time {
	for _, layout := range rosterDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// ExtractAdults parses the Adult Members section of one roster page. Rows
// whose position is "Unit Participant" are 18+ members still active as
// Scouts and are skipped.
func ExtractAdults(path, troopID string) ([]Adult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster: %w", err)
	}
	defer f.Close() // nolint:errcheck

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parsing roster HTML: %w", err)
	}

	text := doc.Text()
	idx := strings.Index(text, "Adult Members")
	if idx == -1 {
		return nil, errors.New("no Adult Members section found")
	}

	lines := strings.Split(text[idx:], "\n")
	adults := make([]Adult, 0)
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		m := memberLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fullName := strings.TrimSpace(m[2])
		if strings.Contains(fullName, "Name") || strings.Contains(fullName, "MemberID") {
			continue
		}

		parts := strings.Split(line, "\t")
		position := ""
		if len(parts) >= 5 {
			position = strings.TrimSpace(parts[len(parts)-1])
		}

		// Long positions wrap onto the following line. Member ID detail
		// lines and YPT status text are not continuations.
		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next != "" && !memberStartRe.MatchString(next) && !memberIDRe.MatchString(next) &&
				!(strings.Contains(next, "No") && len(strings.Fields(next)) > 3) {
				position = strings.TrimSpace(position + " " + next)
			}
		}

		if position == "Unit Participant" {
			continue
		}

		tokens := strings.Fields(fullName)
		if len(tokens) < 2 {
			continue
		}
		first, last := tokens[0], tokens[len(tokens)-1]
		adults = append(adults, Adult{
			Sequence: m[1],
			FullName: fullName,
			First:    first,
			Last:     last,
			NameKey:  matcher.FoldKey(first + " " + last),
			Position: position,
			Troop:    troopID,
		})
	}
	return adults, nil
}

// MergeAdults folds per-unit adult lists into one member per person, keyed
// by the folded "first last" name. Middle names and initials are dropped by
// the key, so the same adult on two unit rosters merges even when one roster
// spells out the middle name. The first roster processed supplies the
// display name.
func MergeAdults(lists ...[]Adult) map[string]Member {
	members := make(map[string]Member)
	for _, adults := range lists {
		for _, a := range adults {
			m, ok := members[a.NameKey]
			if !ok {
				m = Member{
					FirstName: a.First,
					LastName:  a.Last,
					FullName:  a.FullName,
					NameKey:   a.NameKey,
					Positions: make(map[string]string),
				}
			}
			if !containsTroop(m.Troops, a.Troop) {
				m.Troops = append(m.Troops, a.Troop)
				sort.Strings(m.Troops)
			}
			if _, exists := m.Positions[a.Troop]; !exists {
				m.Positions[a.Troop] = a.Position
			}
			members[a.NameKey] = m
		}
	}
	return members
}

// ProcessDir detects the newest roster per unit and merges their adult
// members. Units whose roster cannot be parsed are reported as warnings
// rather than failing the run.
func ProcessDir(dir string) (map[string]Member, []Warning, error) {
	rosters, err := DetectRosters(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(rosters) == 0 {
		return nil, nil, fmt.Errorf("no roster files found in %s", dir)
	}

	units := make([]string, 0, len(rosters))
	for unit := range rosters {
		units = append(units, unit)
	}
	sort.Strings(units)

	var warnings []Warning
	lists := make([][]Adult, 0, len(units))
	for _, unit := range units {
		adults, err := ExtractAdults(rosters[unit], unit)
		if err != nil {
			warnings = append(warnings, Warning{
				File:    filepath.Base(rosters[unit]),
				Message: err.Error(),
			})
			continue
		}
		lists = append(lists, adults)
	}
	return MergeAdults(lists...), warnings, nil
}

func containsTroop(troops []string, troop string) bool {
	for _, t := range troops {
		if t == troop {
			return true
		}
	}
	return false
}
