// Package demand parses Scout merit badge signup exports into demand metrics.
//
// The signup export is a loosely structured spreadsheet CSV: section header
// rows ("Eagle Merit Badges", "Non-Eagle Merit Badges") split the sheet,
// badge names sit in column B with Eagle badges starred, and interested
// Scouts fill the columns to the right. Rows that do not fit the shape are
// collected as warnings rather than failing the run.
package demand

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/scoutops/mbc-pipeline/internal/badge"
)

// BadgeDemand is one badge's slice of the demand artifact.
type BadgeDemand struct {
	BadgeName        string   `json:"badge_name"`
	InterestedScouts []string `json:"interested_scouts"`
	ScoutCount       int      `json:"scout_count"`
	IsEagleRequired  bool     `json:"is_eagle_required"`
	Section          string   `json:"section"`
	PriorityWeight   float64  `json:"priority_weight"`
}

// TopBadge is one row of the most-requested list.
type TopBadge struct {
	BadgeName  string `json:"badge_name"`
	ScoutCount int    `json:"scout_count"`
	IsEagle    bool   `json:"is_eagle"`
}

// Summary aggregates demand across the whole signup sheet.
type Summary struct {
	AnalysisTimestamp         string     `json:"analysis_timestamp"`
	TotalBadgesRequested      int        `json:"total_badges_requested"`
	TotalScoutRequests        int        `json:"total_scout_requests"`
	UniqueScoutsParticipating int        `json:"unique_scouts_participating"`
	EagleBadgesRequested      int        `json:"eagle_badges_requested"`
	NonEagleBadgesRequested   int        `json:"non_eagle_badges_requested"`
	HighDemandBadges          []string   `json:"high_demand_badges"`
	ParticipatingScouts       []string   `json:"participating_scouts"`
	TopRequestedBadges        []TopBadge `json:"top_requested_badges"`
}

// Analysis is the demand artifact written to scout_demand_analysis_*.json.
type Analysis struct {
	BadgeDemand   map[string]BadgeDemand `json:"badge_demand"`
	DemandSummary Summary                `json:"demand_summary"`
}

// Warning is a non-fatal issue found while parsing a signup row.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: %s", w.Row, w.Message)
}

// Processor parses signup exports against an injected Eagle set.
type Processor struct {
	eagle      badge.Set
	aliases    map[string]string
	highDemand int
}

// NewProcessor builds a Processor. highDemand is the Scout count at which a
// badge makes the high-demand list.
func NewProcessor(eagleBadges []string, aliases map[string]string, highDemand int) *Processor {
	return &Processor{
		eagle:      badge.NewSet(eagleBadges...),
		aliases:    aliases,
		highDemand: highDemand,
	}
}

// DetectLatest returns the newest file in dir matching the signup glob,
// by modification time.
func DetectLatest(dir, glob string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return "", fmt.Errorf("globbing signup files: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no signup export matching %q in %s", glob, dir)
	}

	sort.Slice(matches, func(i, j int) bool {
		return modTime(matches[i]).After(modTime(matches[j]))
	})
	return matches[0], nil
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func (p *Processor) isEagle(name string) bool {
	return p.eagle.Has(name) || p.eagle.Has(badge.Canonical(name, p.aliases))
}

// ParseFile reads one signup CSV into per-badge demand records.
func (p *Processor) ParseFile(path string) (map[string]BadgeDemand, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening signup file: %w", err)
	}
	defer f.Close() // nolint:errcheck

	reader := csv.NewReader(f)
	// Spreadsheet exports have ragged rows and loose quoting.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	demand := make(map[string]BadgeDemand)
	var warnings []Warning
	inEagle, inNonEagle := false, false
	rowNum := 0

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			warnings = append(warnings, Warning{Row: rowNum, Message: fmt.Sprintf("parse error: %v", err)})
			continue
		}
		if rowNum == 1 && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], "\ufeff")
		}
		if len(row) < 2 {
			continue
		}

		colA := strings.TrimSpace(row[0])
		colB := strings.TrimSpace(row[1])

		// Section headers land in column A or B depending on the export.
		// The non-Eagle header contains the Eagle header as a substring,
		// so it must be tested first.
		sectionText := colA + " " + colB
		switch {
		case strings.Contains(sectionText, "Non-Eagle Merit Badges"):
			inEagle, inNonEagle = false, true
			continue
		case strings.Contains(sectionText, "Eagle Merit Badges"):
			inEagle, inNonEagle = true, false
			continue
		case colB == "Merit Badge":
			continue
		}

		if colB == "" {
			continue
		}
		if !inEagle && !inNonEagle {
			warnings = append(warnings, Warning{Row: rowNum, Message: fmt.Sprintf("badge row %q outside any section, skipped", colB)})
			continue
		}

		badgeName := strings.TrimSpace(strings.TrimRight(colB, "*"))
		if badgeName == "" {
			continue
		}

		var scouts []string
		for _, cell := range row[2:] {
			scout := strings.TrimSpace(cell)
			if scout == "" || contains(scouts, scout) {
				continue
			}
			scouts = append(scouts, scout)
		}
		if scouts == nil {
			scouts = []string{}
		}

		if _, dup := demand[badgeName]; dup {
			warnings = append(warnings, Warning{Row: rowNum, Message: fmt.Sprintf("badge %q listed twice, later row wins", badgeName)})
		}

		isEagle := p.isEagle(badgeName)
		section := "Non-Eagle"
		if inEagle {
			section = "Eagle"
		}
		weight := 1.0
		if isEagle {
			weight = 1.5
		}

		demand[badgeName] = BadgeDemand{
			BadgeName:        badgeName,
			InterestedScouts: scouts,
			ScoutCount:       len(scouts),
			IsEagleRequired:  isEagle,
			Section:          section,
			PriorityWeight:   weight,
		}
	}

	return demand, warnings, nil
}

// Summarize computes aggregate demand metrics over parsed badge demand.
func (p *Processor) Summarize(demand map[string]BadgeDemand) Summary {
	summary := Summary{
		AnalysisTimestamp:    time.Now().Format(time.RFC3339),
		TotalBadgesRequested: len(demand),
		HighDemandBadges:     []string{},
		ParticipatingScouts:  []string{},
		TopRequestedBadges:   []TopBadge{},
	}

	allScouts := make(map[string]struct{})
	sorted := make([]BadgeDemand, 0, len(demand))

	for _, d := range demand {
		summary.TotalScoutRequests += d.ScoutCount
		if d.IsEagleRequired {
			summary.EagleBadgesRequested++
		}
		for _, scout := range d.InterestedScouts {
			allScouts[scout] = struct{}{}
		}
		sorted = append(sorted, d)
	}
	summary.NonEagleBadgesRequested = summary.TotalBadgesRequested - summary.EagleBadgesRequested
	summary.UniqueScoutsParticipating = len(allScouts)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ScoutCount != sorted[j].ScoutCount {
			return sorted[i].ScoutCount > sorted[j].ScoutCount
		}
		return sorted[i].BadgeName < sorted[j].BadgeName
	})

	for _, d := range sorted {
		if d.ScoutCount >= p.highDemand {
			summary.HighDemandBadges = append(summary.HighDemandBadges, d.BadgeName)
		}
	}

	for s := range allScouts {
		summary.ParticipatingScouts = append(summary.ParticipatingScouts, s)
	}
	sort.Strings(summary.ParticipatingScouts)

	top := sorted
	if len(top) > 10 {
		top = top[:10]
	}
	for _, d := range top {
		summary.TopRequestedBadges = append(summary.TopRequestedBadges, TopBadge{
			BadgeName:  d.BadgeName,
			ScoutCount: d.ScoutCount,
			IsEagle:    d.IsEagleRequired,
		})
	}

	return summary
}

// Process parses a signup file and assembles the demand artifact.
func (p *Processor) Process(path string) (*Analysis, []Warning, error) {
	parsed, warnings, err := p.ParseFile(path)
	if err != nil {
		return nil, warnings, err
	}
	if len(parsed) == 0 {
		return nil, warnings, fmt.Errorf("no badge demand rows found in %s", filepath.Base(path))
	}

	return &Analysis{
		BadgeDemand:   parsed,
		DemandSummary: p.Summarize(parsed),
	}, warnings, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
