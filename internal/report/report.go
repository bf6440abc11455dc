package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/scoutops/mbc-pipeline/internal/analysis"
	"github.com/scoutops/mbc-pipeline/internal/badge"
	"github.com/scoutops/mbc-pipeline/internal/calendar"
	"github.com/scoutops/mbc-pipeline/internal/join"
	"github.com/scoutops/mbc-pipeline/internal/storage"
)

const dirTimestampLayout = "20060102_150405"

// Data carries everything one report run renders. Priority may be nil when
// no analysis artifact exists yet; the priority report is skipped then.
// ExcludedNames lists the full exclusions already applied upstream, recorded
// in the summary artifact for auditability.
type Data struct {
	Join          *join.Result
	Priority      *analysis.Artifact
	AllBadges     []string
	EagleBadges   badge.Set
	ExcludedNames []string
}

type renderedFile struct {
	name    string
	content string
}

// Generate renders the HTML reports, the YPT-expiration calendar, and the
// summary artifact into a fresh timestamped directory under the store's
// reports dir, and returns that directory's path.
func Generate(store *storage.Store, data *Data, now time.Time) (string, error) {
	if data == nil || data.Join == nil {
		return "", fmt.Errorf("no join data to report on")
	}

	troops := troopAbbreviations(data.Join)
	titlePrefix := strings.Join(troops, "/")
	if titlePrefix == "" {
		titlePrefix = "Unit"
	}
	filePrefix := strings.Join(troops, "_")
	if filePrefix != "" {
		filePrefix += "_"
	}

	ts := now.Format(dirTimestampLayout)
	dir := fmt.Sprintf("%sMBC_Reports_%s", filePrefix, ts)

	counselors := sortedCounselors(data.Join)

	files := []renderedFile{
		{
			name:    fmt.Sprintf("%sMBC_Troop_Counselors_%s.html", filePrefix, ts),
			content: renderTroopCounselors(titlePrefix, troops, counselors, data.EagleBadges, now),
		},
		{
			name:    fmt.Sprintf("%sMBC_Non_Counselors_%s.html", filePrefix, ts),
			content: renderNonCounselors(titlePrefix, troops, data.Join.NonCounselorLeaders, now),
		},
		{
			name:    fmt.Sprintf("%sMBC_Coverage_Report_%s.html", filePrefix, ts),
			content: renderCoverage(titlePrefix, counselors, data.AllBadges, data.EagleBadges, now),
		},
	}
	if data.Priority != nil {
		files = append(files, renderedFile{
			name:    fmt.Sprintf("%sMBC_Priority_Report_%s.html", filePrefix, ts),
			content: renderPriority(titlePrefix, data.Priority, now),
		})
	}
	if ics := yptCalendar(counselors, titlePrefix); ics != "" {
		files = append(files, renderedFile{name: "ypt_expirations.ics", content: ics})
	}

	summary, err := json.MarshalIndent(newSummary(data, troops, now), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding summary report: %w", err)
	}
	files = append(files, renderedFile{name: "summary_report.json", content: string(summary)})

	for _, f := range files {
		if _, err := store.WriteReport(dir, f.name, []byte(f.content)); err != nil {
			return "", err
		}
	}

	return filepath.Join(store.ReportsDir(), dir), nil
}

// troopAbbreviations collects the sorted set of units the reports cover.
// Supplemental counselors don't contribute: their units are registration
// details, not units being reported on.
func troopAbbreviations(j *join.Result) []string {
	seen := make(map[string]struct{})
	for _, c := range j.TroopCounselors {
		for _, t := range c.Troops {
			seen[t] = struct{}{}
		}
	}
	for _, l := range j.NonCounselorLeaders {
		for _, t := range l.Troops {
			seen[t] = struct{}{}
		}
	}

	troops := make([]string, 0, len(seen))
	for t := range seen {
		troops = append(troops, t)
	}
	sort.Strings(troops)
	return troops
}

// sortedCounselors merges troop and supplemental counselors ordered by last
// name then first name, the order every people listing uses.
func sortedCounselors(j *join.Result) []join.Counselor {
	counselors := j.AllCounselors()
	sort.Slice(counselors, func(a, b int) bool {
		if counselors[a].LastName != counselors[b].LastName {
			return counselors[a].LastName < counselors[b].LastName
		}
		return counselors[a].FirstName < counselors[b].FirstName
	})
	return counselors
}

// positionsForLeader renders a leader's roster positions, prefixed by unit
// when the leader serves more than one.
func positionsForLeader(l join.Leader) string {
	if len(l.Positions) == 0 {
		return "Unknown"
	}

	troops := make([]string, 0, len(l.Positions))
	for t := range l.Positions {
		troops = append(troops, t)
	}
	sort.Strings(troops)

	parts := make([]string, 0, len(troops))
	for _, t := range troops {
		position := strings.TrimSpace(l.Positions[t])
		if position == "" {
			continue
		}
		if len(troops) > 1 {
			parts = append(parts, fmt.Sprintf("%s: %s", t, position))
		} else {
			parts = append(parts, position)
		}
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	return strings.Join(parts, "; ")
}

func yptCalendar(counselors []join.Counselor, titlePrefix string) string {
	var entries []calendar.Entry
	for _, c := range counselors {
		expires, err := calendar.ParseYPTDate(c.YPTExpiration)
		if err != nil {
			continue
		}
		entries = append(entries, calendar.Entry{Name: c.Name, Email: c.Email, Expires: expires})
	}
	return calendar.YPTCalendar(entries, fmt.Sprintf("%s YPT Expirations", titlePrefix))
}

type summaryStatistics struct {
	TotalAdultsProcessed   int `json:"total_adults_processed"`
	TroopCounselors        int `json:"troop_counselors"`
	SupplementalCounselors int `json:"supplemental_counselors"`
	NonCounselorLeaders    int `json:"non_counselor_leaders"`
	TotalCounselors        int `json:"total_counselors"`
}

type summaryReport struct {
	GenerationTime    string            `json:"generation_time"`
	TroopsProcessed   []string          `json:"troops_processed"`
	ExclusionsApplied bool              `json:"exclusions_applied"`
	ExcludedNames     []string          `json:"excluded_names"`
	Statistics        summaryStatistics `json:"statistics"`
}

func newSummary(data *Data, troops []string, now time.Time) summaryReport {
	excluded := data.ExcludedNames
	if excluded == nil {
		excluded = []string{}
	}

	stats := summaryStatistics{
		TroopCounselors:        len(data.Join.TroopCounselors),
		SupplementalCounselors: len(data.Join.SupplementalCounselors),
		NonCounselorLeaders:    len(data.Join.NonCounselorLeaders),
	}
	stats.TotalCounselors = stats.TroopCounselors + stats.SupplementalCounselors
	stats.TotalAdultsProcessed = stats.TotalCounselors + stats.NonCounselorLeaders

	return summaryReport{
		GenerationTime:    now.Format(time.RFC3339),
		TroopsProcessed:   troops,
		ExclusionsApplied: len(excluded) > 0,
		ExcludedNames:     excluded,
		Statistics:        stats,
	}
}
