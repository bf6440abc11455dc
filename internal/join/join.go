package join

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/scoutops/mbc-pipeline/internal/counselor"
	"github.com/scoutops/mbc-pipeline/internal/matcher"
	"github.com/scoutops/mbc-pipeline/internal/roster"
)

// Counselor is a matched Merit Badge Counselor in the join artifact. Source
// is "roster" for adults found on a unit roster and "supplemental" for
// MBC-only registrations.
type Counselor struct {
	Name          string   `json:"name"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Troops        []string `json:"troops"`
	TroopDisplay  string   `json:"troop_display"`
	MeritBadges   []string `json:"merit_badges"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	PhoneHome     string   `json:"phone_home"`
	PhoneMobile   string   `json:"phone_mobile"`
	PhoneWork     string   `json:"phone_work"`
	YPTExpiration string   `json:"ypt_expiration"`
	Source        string   `json:"source"`
}

// Leader is a roster adult who is not a Merit Badge Counselor.
type Leader struct {
	Name         string            `json:"name"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Troops       []string          `json:"troops"`
	TroopDisplay string            `json:"troop_display"`
	Positions    map[string]string `json:"positions"`
}

// Result is the roster/counselor join artifact.
type Result struct {
	TroopCounselors        []Counselor `json:"troop_counselors"`
	SupplementalCounselors []Counselor `json:"supplemental_counselors"`
	NonCounselorLeaders    []Leader    `json:"non_counselor_leaders"`
	TotalAdults            int         `json:"total_adults"`
	MBCMatches             int         `json:"mbc_matches"`
	SupplementalMatches    int         `json:"supplemental_matches"`
}

// SupplementalEntry associates a counselor with a unit outside the roster.
type SupplementalEntry struct {
	Name string
	Unit string
}

// Warning reports a supplemental file line that was skipped.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// LoadSupplemental reads "Name, UnitID" associations. Blank lines and #
// comments are skipped; lines without a comma are reported as warnings. A
// missing file is not an error, it just means no supplemental counselors.
func LoadSupplemental(path string) ([]SupplementalEntry, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("opening supplemental file: %w", err)
	}
	defer f.Close() // nolint:errcheck

	var (
		entries  []SupplementalEntry
		warnings []Warning
	)
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, unit, found := strings.Cut(line, ",")
		if !found {
			warnings = append(warnings, Warning{Line: lineNum, Message: fmt.Sprintf("malformed line: %s", line)})
			continue
		}
		name = strings.TrimSpace(name)
		unit = strings.TrimSpace(unit)
		if name == "" || unit == "" {
			continue
		}
		entries = append(entries, SupplementalEntry{Name: name, Unit: unit})
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, fmt.Errorf("reading supplemental file: %w", err)
	}
	return entries, warnings, nil
}

// BuildKeys maps every folded join key of every counselor to its record.
// Nicknamed counselors are reachable under both name variants.
func BuildKeys(records []counselor.Record) map[string]counselor.Record {
	keys := make(map[string]counselor.Record)
	for _, rec := range records {
		for _, key := range rec.PersonName().JoinKeys() {
			keys[key] = rec
		}
	}
	return keys
}

// TroopDisplay renders a troop list for reports, prefixing bare unit
// numbers with "T".
func TroopDisplay(troops []string) string {
	parts := make([]string, 0, len(troops))
	for _, t := range troops {
		if !strings.HasPrefix(t, "T") {
			t = "T" + t
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, ", ")
}

// UnitDisplay normalizes a supplemental unit spelling: "troop 7012" and
// "7012" both render as "T7012".
func UnitDisplay(unit string) string {
	if strings.HasPrefix(strings.ToLower(unit), "troop ") {
		return "T" + strings.TrimSpace(unit[len("troop "):])
	}
	if !strings.HasPrefix(unit, "T") {
		return "T" + unit
	}
	return unit
}

// Join partitions roster members into counselors and non-counselor leaders,
// then appends supplemental counselors not already matched through a roster.
// Members are processed in name-key order so the artifact is stable across
// runs.
func Join(members map[string]roster.Member, records []counselor.Record, supplemental []SupplementalEntry) *Result {
	keys := BuildKeys(records)

	result := &Result{
		TroopCounselors:        []Counselor{},
		SupplementalCounselors: []Counselor{},
		NonCounselorLeaders:    []Leader{},
		TotalAdults:            len(members),
	}

	memberKeys := make([]string, 0, len(members))
	for key := range members {
		memberKeys = append(memberKeys, key)
	}
	sort.Strings(memberKeys)

	// matched holds every join key of every counselor already listed, so a
	// supplemental entry using the other name variant does not re-add them.
	matched := make(map[string]bool)

	for _, key := range memberKeys {
		member := members[key]
		rec, ok := keys[key]
		if !ok {
			result.NonCounselorLeaders = append(result.NonCounselorLeaders, Leader{
				Name:         member.FullName,
				FirstName:    member.FirstName,
				LastName:     member.LastName,
				Troops:       member.Troops,
				TroopDisplay: TroopDisplay(member.Troops),
				Positions:    member.Positions,
			})
			continue
		}

		for _, k := range rec.PersonName().JoinKeys() {
			matched[k] = true
		}
		result.TroopCounselors = append(result.TroopCounselors, Counselor{
			Name:          member.FullName,
			FirstName:     member.FirstName,
			LastName:      member.LastName,
			Troops:        member.Troops,
			TroopDisplay:  TroopDisplay(member.Troops),
			MeritBadges:   badgeList(rec.MeritBadges),
			Email:         rec.Email,
			Phone:         rec.Phone,
			PhoneHome:     rec.PhoneHome,
			PhoneMobile:   rec.PhoneMobile,
			PhoneWork:     rec.PhoneWork,
			YPTExpiration: rec.YPTExpiration,
			Source:        "roster",
		})
	}

	for _, entry := range supplemental {
		key := matcher.FoldKey(entry.Name)
		rec, ok := keys[key]
		if !ok || matched[key] {
			continue
		}
		for _, k := range rec.PersonName().JoinKeys() {
			matched[k] = true
		}
		unit := UnitDisplay(entry.Unit)
		result.SupplementalCounselors = append(result.SupplementalCounselors, Counselor{
			Name:          entry.Name,
			FirstName:     rec.FirstName,
			LastName:      rec.LastName,
			Troops:        []string{unit},
			TroopDisplay:  unit,
			MeritBadges:   badgeList(rec.MeritBadges),
			Email:         rec.Email,
			Phone:         rec.Phone,
			PhoneHome:     rec.PhoneHome,
			PhoneMobile:   rec.PhoneMobile,
			PhoneWork:     rec.PhoneWork,
			YPTExpiration: rec.YPTExpiration,
			Source:        "supplemental",
		})
	}

	result.MBCMatches = len(result.TroopCounselors)
	result.SupplementalMatches = len(result.SupplementalCounselors)
	return result
}

// WithoutExcluded returns a copy of the result with fully excluded people
// removed from every list, along with how many were dropped. Selective rules
// do not affect listings; they only narrow badge coverage during analysis.
func (r *Result) WithoutExcluded(rules *matcher.Ruleset) (*Result, int) {
	if rules == nil || rules.Len() == 0 {
		return r, 0
	}

	filtered := &Result{
		TroopCounselors:        []Counselor{},
		SupplementalCounselors: []Counselor{},
		NonCounselorLeaders:    []Leader{},
	}
	dropped := 0

	for _, c := range r.TroopCounselors {
		if decision, _ := rules.For(c.Name); decision == matcher.Exclude {
			dropped++
			continue
		}
		filtered.TroopCounselors = append(filtered.TroopCounselors, c)
	}
	for _, c := range r.SupplementalCounselors {
		if decision, _ := rules.For(c.Name); decision == matcher.Exclude {
			dropped++
			continue
		}
		filtered.SupplementalCounselors = append(filtered.SupplementalCounselors, c)
	}
	for _, l := range r.NonCounselorLeaders {
		if decision, _ := rules.For(l.Name); decision == matcher.Exclude {
			dropped++
			continue
		}
		filtered.NonCounselorLeaders = append(filtered.NonCounselorLeaders, l)
	}

	filtered.TotalAdults = len(filtered.TroopCounselors) + len(filtered.NonCounselorLeaders)
	filtered.MBCMatches = len(filtered.TroopCounselors)
	filtered.SupplementalMatches = len(filtered.SupplementalCounselors)
	return filtered, dropped
}

// AllCounselors returns troop and supplemental counselors as one list, the
// input shape coverage analysis expects.
func (r *Result) AllCounselors() []Counselor {
	all := make([]Counselor, 0, len(r.TroopCounselors)+len(r.SupplementalCounselors))
	all = append(all, r.TroopCounselors...)
	all = append(all, r.SupplementalCounselors...)
	return all
}

func badgeList(badges []string) []string {
	if badges == nil {
		return []string{}
	}
	return badges
}
