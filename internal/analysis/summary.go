package analysis

import (
	"sort"
	"time"
)

// GapSummary counts records per gap level.
type GapSummary struct {
	CriticalGaps       int `json:"critical_gaps"`
	HighPriorityGaps   int `json:"high_priority_gaps"`
	MediumPriorityGaps int `json:"medium_priority_gaps"`
	LowPriorityGaps    int `json:"low_priority_gaps"`
	AdequateCoverage   int `json:"adequate_coverage"`
}

// EagleBadgeGaps breaks the severe levels down by Eagle status.
type EagleBadgeGaps struct {
	CriticalEagleGaps     int `json:"critical_eagle_gaps"`
	HighPriorityEagleGaps int `json:"high_priority_eagle_gaps"`
}

// ScoutImpact totals how many badge requests and distinct Scouts sit behind
// the actionable gap levels. Badge request sums double-count a Scout
// interested in multiple gapped badges; the unique count does not.
type ScoutImpact struct {
	BadgeRequestsAffectedByCriticalGaps int `json:"badge_requests_affected_by_critical_gaps"`
	BadgeRequestsAffectedByHighGaps     int `json:"badge_requests_affected_by_high_gaps"`
	BadgeRequestsAffectedByMediumGaps   int `json:"badge_requests_affected_by_medium_gaps"`
	TotalBadgeRequestsAffected          int `json:"total_badge_requests_affected"`
	UniqueScoutsAffected                int `json:"unique_scouts_affected"`
}

// TopPriority is one row of the recruitment shortlist.
type TopPriority struct {
	BadgeName     string  `json:"badge_name"`
	PriorityScore float64 `json:"priority_score"`
	ScoutDemand   int     `json:"scout_demand"`
	GapLevel      Level   `json:"gap_level"`
	IsEagle       bool    `json:"is_eagle"`
}

// CriticalGapDetail carries enough of a critical record for the report's
// detail table.
type CriticalGapDetail struct {
	BadgeName        string   `json:"badge_name"`
	ScoutDemand      int      `json:"scout_demand"`
	InterestedScouts []string `json:"interested_scouts"`
	IsEagle          bool     `json:"is_eagle"`
}

// Summary is the aggregate section of the priority analysis artifact.
type Summary struct {
	AnalysisTimestamp        string              `json:"analysis_timestamp"`
	TotalBadgesAnalyzed      int                 `json:"total_badges_analyzed"`
	GapSummary               GapSummary          `json:"gap_summary"`
	EagleBadgeGaps           EagleBadgeGaps      `json:"eagle_badge_gaps"`
	ScoutImpact              ScoutImpact         `json:"scout_impact"`
	TopRecruitmentPriorities []TopPriority       `json:"top_recruitment_priorities"`
	CriticalGapsDetail       []CriticalGapDetail `json:"critical_gaps_detail"`
}

// Summarize computes aggregate statistics over a ranked priority list. The
// records are expected in final sort order; the recruitment shortlist is the
// first ten non-ADEQUATE entries in that order.
func Summarize(records []Record) Summary {
	summary := Summary{
		AnalysisTimestamp:        time.Now().Format(time.RFC3339),
		TotalBadgesAnalyzed:      len(records),
		TopRecruitmentPriorities: []TopPriority{},
		CriticalGapsDetail:       []CriticalGapDetail{},
	}

	uniqueScouts := make(map[string]struct{})

	for _, rec := range records {
		switch rec.GapLevel {
		case LevelCritical:
			summary.GapSummary.CriticalGaps++
			summary.ScoutImpact.BadgeRequestsAffectedByCriticalGaps += rec.ScoutDemand
			if rec.IsEagleRequired {
				summary.EagleBadgeGaps.CriticalEagleGaps++
			}
			summary.CriticalGapsDetail = append(summary.CriticalGapsDetail, CriticalGapDetail{
				BadgeName:        rec.BadgeName,
				ScoutDemand:      rec.ScoutDemand,
				InterestedScouts: rec.InterestedScouts,
				IsEagle:          rec.IsEagleRequired,
			})
		case LevelHigh:
			summary.GapSummary.HighPriorityGaps++
			summary.ScoutImpact.BadgeRequestsAffectedByHighGaps += rec.ScoutDemand
			if rec.IsEagleRequired {
				summary.EagleBadgeGaps.HighPriorityEagleGaps++
			}
		case LevelMedium:
			summary.GapSummary.MediumPriorityGaps++
			summary.ScoutImpact.BadgeRequestsAffectedByMediumGaps += rec.ScoutDemand
		case LevelLow:
			summary.GapSummary.LowPriorityGaps++
		case LevelAdequate:
			summary.GapSummary.AdequateCoverage++
		}

		if rec.GapLevel == LevelCritical || rec.GapLevel == LevelHigh || rec.GapLevel == LevelMedium {
			for _, scout := range rec.InterestedScouts {
				uniqueScouts[scout] = struct{}{}
			}
		}

		if rec.GapLevel != LevelAdequate && len(summary.TopRecruitmentPriorities) < 10 {
			summary.TopRecruitmentPriorities = append(summary.TopRecruitmentPriorities, TopPriority{
				BadgeName:     rec.BadgeName,
				PriorityScore: rec.PriorityScore,
				ScoutDemand:   rec.ScoutDemand,
				GapLevel:      rec.GapLevel,
				IsEagle:       rec.IsEagleRequired,
			})
		}
	}

	summary.ScoutImpact.TotalBadgeRequestsAffected = summary.ScoutImpact.BadgeRequestsAffectedByCriticalGaps +
		summary.ScoutImpact.BadgeRequestsAffectedByHighGaps +
		summary.ScoutImpact.BadgeRequestsAffectedByMediumGaps
	summary.ScoutImpact.UniqueScoutsAffected = len(uniqueScouts)

	return summary
}

// AffectedScouts returns the sorted distinct Scouts behind CRITICAL, HIGH,
// and MEDIUM gaps. Reports list them; Summarize only counts them.
func AffectedScouts(records []Record) []string {
	set := make(map[string]struct{})
	for _, rec := range records {
		switch rec.GapLevel {
		case LevelCritical, LevelHigh, LevelMedium:
			for _, scout := range rec.InterestedScouts {
				set[scout] = struct{}{}
			}
		}
	}

	scouts := make([]string, 0, len(set))
	for s := range set {
		scouts = append(scouts, s)
	}
	sort.Strings(scouts)
	return scouts
}
