package analysis

import "testing"

func sampleRecords() []Record {
	return []Record{
		{BadgeName: "Camping", ScoutDemand: 5, InterestedScouts: []string{"A", "B", "C", "D", "E"},
			IsEagleRequired: true, PriorityScore: 7.5, GapLevel: LevelCritical},
		{BadgeName: "First Aid", ScoutDemand: 2, InterestedScouts: []string{"A", "F"},
			IsEagleRequired: true, PriorityScore: 1.5, GapLevel: LevelCritical},
		{BadgeName: "Golf", ScoutDemand: 4, InterestedScouts: []string{"B", "G", "H", "I"},
			PriorityScore: 4.0, GapLevel: LevelHigh},
		{BadgeName: "Basketry", ScoutDemand: 2, InterestedScouts: []string{"A", "J"},
			PriorityScore: 2.0, GapLevel: LevelMedium},
		{BadgeName: "Chess", ScoutDemand: 1, InterestedScouts: []string{"K"},
			PriorityScore: 0.5, GapLevel: LevelAdequate, CounselorCount: 1},
	}
}

func TestSummarize_Counts(t *testing.T) {
	summary := Summarize(sampleRecords())

	if summary.TotalBadgesAnalyzed != 5 {
		t.Errorf("TotalBadgesAnalyzed = %d, want 5", summary.TotalBadgesAnalyzed)
	}
	gs := summary.GapSummary
	if gs.CriticalGaps != 2 || gs.HighPriorityGaps != 1 || gs.MediumPriorityGaps != 1 || gs.AdequateCoverage != 1 {
		t.Errorf("GapSummary = %+v", gs)
	}
	if gs.LowPriorityGaps != 0 {
		t.Errorf("LowPriorityGaps = %d, want 0", gs.LowPriorityGaps)
	}
	if summary.EagleBadgeGaps.CriticalEagleGaps != 2 {
		t.Errorf("CriticalEagleGaps = %d, want 2", summary.EagleBadgeGaps.CriticalEagleGaps)
	}
	if summary.EagleBadgeGaps.HighPriorityEagleGaps != 0 {
		t.Errorf("HighPriorityEagleGaps = %d, want 0", summary.EagleBadgeGaps.HighPriorityEagleGaps)
	}
}

func TestSummarize_ScoutImpact(t *testing.T) {
	summary := Summarize(sampleRecords())
	si := summary.ScoutImpact

	if si.BadgeRequestsAffectedByCriticalGaps != 7 {
		t.Errorf("critical requests = %d, want 7", si.BadgeRequestsAffectedByCriticalGaps)
	}
	if si.BadgeRequestsAffectedByHighGaps != 4 {
		t.Errorf("high requests = %d, want 4", si.BadgeRequestsAffectedByHighGaps)
	}
	if si.BadgeRequestsAffectedByMediumGaps != 2 {
		t.Errorf("medium requests = %d, want 2", si.BadgeRequestsAffectedByMediumGaps)
	}
	if si.TotalBadgeRequestsAffected != 13 {
		t.Errorf("total requests = %d, want 13 (double-counting across badges)", si.TotalBadgeRequestsAffected)
	}
	// A..K minus the adequately covered Chess scout: A B C D E F G H I J.
	if si.UniqueScoutsAffected != 10 {
		t.Errorf("unique scouts = %d, want 10", si.UniqueScoutsAffected)
	}
}

func TestSummarize_TopPrioritiesExcludeAdequate(t *testing.T) {
	summary := Summarize(sampleRecords())

	if len(summary.TopRecruitmentPriorities) != 4 {
		t.Fatalf("top priorities = %d, want 4", len(summary.TopRecruitmentPriorities))
	}
	for _, p := range summary.TopRecruitmentPriorities {
		if p.GapLevel == LevelAdequate {
			t.Errorf("top priorities include ADEQUATE badge %q", p.BadgeName)
		}
	}
	if summary.TopRecruitmentPriorities[0].BadgeName != "Camping" {
		t.Errorf("first priority = %q, want Camping", summary.TopRecruitmentPriorities[0].BadgeName)
	}
}

func TestSummarize_TopPrioritiesCapAtTen(t *testing.T) {
	var records []Record
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"} {
		records = append(records, Record{BadgeName: name, ScoutDemand: 1, GapLevel: LevelMedium})
	}

	summary := Summarize(records)
	if len(summary.TopRecruitmentPriorities) != 10 {
		t.Errorf("top priorities = %d, want 10", len(summary.TopRecruitmentPriorities))
	}
}

func TestSummarize_CriticalDetail(t *testing.T) {
	summary := Summarize(sampleRecords())

	if len(summary.CriticalGapsDetail) != 2 {
		t.Fatalf("critical detail = %d entries, want 2", len(summary.CriticalGapsDetail))
	}
	detail := summary.CriticalGapsDetail[0]
	if detail.BadgeName != "Camping" || detail.ScoutDemand != 5 || !detail.IsEagle {
		t.Errorf("detail[0] = %+v", detail)
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	if summary.TotalBadgesAnalyzed != 0 {
		t.Errorf("TotalBadgesAnalyzed = %d, want 0", summary.TotalBadgesAnalyzed)
	}
	if summary.TopRecruitmentPriorities == nil || summary.CriticalGapsDetail == nil {
		t.Error("summary lists should be empty, not nil")
	}
	if summary.ScoutImpact.UniqueScoutsAffected != 0 {
		t.Errorf("UniqueScoutsAffected = %d, want 0", summary.ScoutImpact.UniqueScoutsAffected)
	}
}

func TestAffectedScouts(t *testing.T) {
	scouts := AffectedScouts(sampleRecords())

	want := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	if len(scouts) != len(want) {
		t.Fatalf("AffectedScouts() = %v, want %v", scouts, want)
	}
	for i := range want {
		if scouts[i] != want[i] {
			t.Errorf("scouts[%d] = %q, want %q", i, scouts[i], want[i])
		}
	}
}
