package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/scoutops/mbc-pipeline/internal/badge"
)

// Level classifies the severity of a coverage gap.
type Level string

const (
	LevelCritical Level = "CRITICAL"
	LevelHigh     Level = "HIGH"
	LevelMedium   Level = "MEDIUM"
	LevelLow      Level = "LOW"
	LevelAdequate Level = "ADEQUATE"
)

// Demand describes Scout interest in one badge. Missing fields stay at their
// zero values; scoring substitutes defaults rather than failing.
type Demand struct {
	ScoutCount       int      `json:"scout_count"`
	InterestedScouts []string `json:"interested_scouts"`
	IsEagleRequired  bool     `json:"is_eagle_required"`
	PriorityWeight   float64  `json:"priority_weight"`
}

// CounselorRef identifies one counselor inside a coverage list. Contact
// fields ride along so reports can render without a second lookup.
type CounselorRef struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Troop string `json:"troop,omitempty"`
}

// Record is one ranked row of the priority analysis artifact.
type Record struct {
	BadgeName        string         `json:"badge_name"`
	ScoutDemand      int            `json:"scout_demand"`
	InterestedScouts []string       `json:"interested_scouts"`
	CounselorCount   int            `json:"counselor_count"`
	Counselors       []CounselorRef `json:"counselors"`
	IsEagleRequired  bool           `json:"is_eagle_required"`
	PriorityScore    float64        `json:"priority_score"`
	GapLevel         Level          `json:"gap_level"`
	GapDescription   string         `json:"gap_description"`
}

// Score computes the recruitment priority for one badge: demand in the
// numerator rewards interest, the +1 in the denominator avoids division by
// zero while still ranking zero-coverage badges highest. Rounded to two
// decimal places.
func Score(scoutCount, counselorCount int, multiplier float64) float64 {
	return round2(float64(scoutCount) * multiplier / float64(counselorCount+1))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Scorer classifies badges into gap levels. The Eagle badge set, alias map,
// and thresholds are injected so units with different requirements never
// patch code.
type Scorer struct {
	eagle            badge.Set
	aliases          map[string]string
	adequateCoverage int
	highDemand       int
	eagleMultiplier  float64
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithEagleBadges replaces the Eagle-required badge set.
func WithEagleBadges(names []string) Option {
	return func(s *Scorer) {
		s.eagle = badge.NewSet(names...)
	}
}

// WithBadgeAliases replaces the signup-to-directory badge name alias map.
func WithBadgeAliases(aliases map[string]string) Option {
	return func(s *Scorer) {
		s.aliases = aliases
	}
}

// WithAdequateCoverage sets the counselor count at which a badge stops
// being a recruitment target.
func WithAdequateCoverage(n int) Option {
	return func(s *Scorer) {
		s.adequateCoverage = n
	}
}

// WithHighDemand sets the Scout count at which an uncovered non-Eagle badge
// escalates from MEDIUM to HIGH.
func WithHighDemand(n int) Option {
	return func(s *Scorer) {
		s.highDemand = n
	}
}

// WithEagleMultiplier sets the score weight for Eagle-required badges.
func WithEagleMultiplier(m float64) Option {
	return func(s *Scorer) {
		s.eagleMultiplier = m
	}
}

// NewScorer builds a Scorer with the stock Eagle set, default aliases,
// adequate coverage at 3 counselors, high demand at 3 Scouts, and a 1.5
// Eagle multiplier.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		eagle:            badge.NewSet(badge.DefaultEagleBadges()...),
		aliases:          badge.DefaultAliases(),
		adequateCoverage: 3,
		highDemand:       3,
		eagleMultiplier:  1.5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// isEagle checks the injected set under both the given and aliased names.
func (s *Scorer) isEagle(name string) bool {
	return s.eagle.Has(name) || s.eagle.Has(badge.Canonical(name, s.aliases))
}

func eagleGapDescription(counselorCount int) string {
	if counselorCount == 0 {
		return "Eagle-required Merit Badge with no Merit Badge Counselor (MBC) coverage"
	}
	return "Only 1 MBC for Eagle-required Merit Badge (busy Troop Committee Chair needs help)"
}

func adequateDescription(counselorCount int) string {
	return fmt.Sprintf("Adequate coverage (%d Merit Badge Counselors)", counselorCount)
}

// Prioritize converts demand and coverage into the ranked priority list.
//
// Two passes with a dedup guarantee. The first pass walks the coverage data
// and emits a CRITICAL record for every Eagle-required badge with at most
// one counselor, whether or not any Scout requested it; those badges are
// marked handled. The second pass walks requested badges (scout count > 0)
// that the first pass did not handle and classifies them by ordered rules.
// A badge never appears twice, including when demand and coverage spell it
// differently and join through the alias map.
//
// Empty inputs yield an empty list. Running twice on identical inputs
// yields identical output.
func (s *Scorer) Prioritize(demand map[string]Demand, coverage map[string][]CounselorRef) []Record {
	records := make([]Record, 0, len(demand))
	handled := make(map[string]bool)

	for name, counselors := range coverage {
		if len(counselors) > 1 {
			continue
		}
		d, inDemand := demand[name]
		demandEagle := inDemand && d.IsEagleRequired
		if !demandEagle && !s.isEagle(name) {
			continue
		}

		rec := Record{
			BadgeName:       name,
			CounselorCount:  len(counselors),
			Counselors:      counselors,
			IsEagleRequired: true,
			GapLevel:        LevelCritical,
			GapDescription:  eagleGapDescription(len(counselors)),
		}
		if demandEagle {
			rec.ScoutDemand = d.ScoutCount
			rec.InterestedScouts = d.InterestedScouts
		}
		rec.PriorityScore = Score(rec.ScoutDemand, rec.CounselorCount, s.eagleMultiplier)

		records = append(records, sanitize(rec))
		handled[name] = true
	}

	for name, d := range demand {
		if d.ScoutCount == 0 {
			continue
		}
		mapped := badge.Canonical(name, s.aliases)
		if handled[name] || handled[mapped] {
			continue
		}

		counselors := coverage[mapped]
		count := len(counselors)

		multiplier := d.PriorityWeight
		if multiplier == 0 {
			multiplier = 1.0
		}

		level, desc := s.classify(d, count)
		rec := Record{
			BadgeName:        name,
			ScoutDemand:      d.ScoutCount,
			InterestedScouts: d.InterestedScouts,
			CounselorCount:   count,
			Counselors:       counselors,
			IsEagleRequired:  d.IsEagleRequired,
			PriorityScore:    Score(d.ScoutCount, count, multiplier),
			GapLevel:         level,
			GapDescription:   desc,
		}
		records = append(records, sanitize(rec))
	}

	// Eagle badges precede non-Eagle regardless of score; within the same
	// Eagle status, higher score first; ties break alphabetically.
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.IsEagleRequired != b.IsEagleRequired {
			return a.IsEagleRequired
		}
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		return a.BadgeName < b.BadgeName
	})

	return records
}

// classify applies the demand-pass rules in order, first match wins.
func (s *Scorer) classify(d Demand, counselorCount int) (Level, string) {
	switch {
	case counselorCount >= s.adequateCoverage:
		return LevelAdequate, adequateDescription(counselorCount)
	case d.IsEagleRequired && counselorCount <= 1:
		return LevelCritical, eagleGapDescription(counselorCount)
	case !d.IsEagleRequired && counselorCount == 0 && d.ScoutCount >= s.highDemand:
		return LevelHigh, fmt.Sprintf("%d or more Scouts requesting non-Eagle Merit Badge with no MBC coverage", d.ScoutCount)
	case !d.IsEagleRequired && counselorCount == 0 && d.ScoutCount >= 1 && d.ScoutCount < s.highDemand:
		return LevelMedium, fmt.Sprintf("%d Scout(s) requesting non-Eagle Merit Badge with no MBC coverage", d.ScoutCount)
	case !d.IsEagleRequired && counselorCount == 0 && d.ScoutCount == 0:
		// Unreachable while this pass requires scout count > 0; the rule
		// stays because the classification table defines it.
		return LevelLow, "Non-requested, non-Eagle Merit Badge with no MBC coverage"
	default:
		return LevelAdequate, adequateDescription(counselorCount)
	}
}

// sanitize replaces nil slices so the artifact serializes lists, not nulls.
func sanitize(rec Record) Record {
	if rec.InterestedScouts == nil {
		rec.InterestedScouts = []string{}
	}
	if rec.Counselors == nil {
		rec.Counselors = []CounselorRef{}
	}
	return rec
}
