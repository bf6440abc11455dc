package analysis

import (
	"reflect"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name           string
		scoutCount     int
		counselorCount int
		multiplier     float64
		want           float64
	}{
		{"eagle demand no coverage", 5, 0, 1.5, 7.5},
		{"non-eagle demand no coverage", 4, 0, 1.0, 4.0},
		{"one counselor halves the score", 1, 1, 1.0, 0.5},
		{"rounded to two decimals", 1, 2, 1.0, 0.33},
		{"zero demand scores zero", 0, 0, 1.5, 0},
		{"dense coverage approaches zero", 3, 8, 1.0, 0.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.scoutCount, tt.counselorCount, tt.multiplier); got != tt.want {
				t.Errorf("Score(%d, %d, %v) = %v, want %v",
					tt.scoutCount, tt.counselorCount, tt.multiplier, got, tt.want)
			}
		})
	}
}

func TestPrioritize_EagleNoCoverageIsCritical(t *testing.T) {
	scorer := NewScorer()

	demand := map[string]Demand{
		"Camping": {ScoutCount: 5, IsEagleRequired: true, PriorityWeight: 1.5, InterestedScouts: []string{"A", "B", "C", "D", "E"}},
	}
	coverage := map[string][]CounselorRef{
		"Camping": {},
	}

	records := scorer.Prioritize(demand, coverage)
	if len(records) != 1 {
		t.Fatalf("Prioritize() returned %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.GapLevel != LevelCritical {
		t.Errorf("GapLevel = %s, want CRITICAL", rec.GapLevel)
	}
	if rec.PriorityScore != 7.5 {
		t.Errorf("PriorityScore = %v, want 7.5", rec.PriorityScore)
	}
	if rec.ScoutDemand != 5 {
		t.Errorf("ScoutDemand = %d, want 5 (pulled from demand)", rec.ScoutDemand)
	}
	if rec.GapDescription != "Eagle-required Merit Badge with no Merit Badge Counselor (MBC) coverage" {
		t.Errorf("GapDescription = %q", rec.GapDescription)
	}
}

func TestPrioritize_NonEagleHighDemandIsHigh(t *testing.T) {
	scorer := NewScorer()

	demand := map[string]Demand{
		"Golf": {ScoutCount: 4, IsEagleRequired: false, PriorityWeight: 1.0},
	}
	coverage := map[string][]CounselorRef{
		"Golf": {},
	}

	records := scorer.Prioritize(demand, coverage)

	var rec Record
	for _, r := range records {
		if r.BadgeName == "Golf" {
			rec = r
		}
	}
	if rec.BadgeName == "" {
		t.Fatal("Golf record missing")
	}
	if rec.GapLevel != LevelHigh {
		t.Errorf("GapLevel = %s, want HIGH", rec.GapLevel)
	}
	if rec.PriorityScore != 4.0 {
		t.Errorf("PriorityScore = %v, want 4.0", rec.PriorityScore)
	}
	if rec.GapDescription != "4 or more Scouts requesting non-Eagle Merit Badge with no MBC coverage" {
		t.Errorf("GapDescription = %q", rec.GapDescription)
	}
}

func TestPrioritize_LowInterestCoveredBadgeIsAdequate(t *testing.T) {
	scorer := NewScorer()

	demand := map[string]Demand{
		"Chess": {ScoutCount: 1, IsEagleRequired: false},
	}
	coverage := map[string][]CounselorRef{
		"Chess": {{Name: "Alice Walker"}},
	}

	records := scorer.Prioritize(demand, coverage)

	var rec Record
	for _, r := range records {
		if r.BadgeName == "Chess" {
			rec = r
		}
	}
	if rec.BadgeName == "" {
		t.Fatal("Chess record missing")
	}
	// Falls through every rule: covered by one counselor, not Eagle.
	if rec.GapLevel != LevelAdequate {
		t.Errorf("GapLevel = %s, want ADEQUATE", rec.GapLevel)
	}
	if rec.PriorityScore != 0.5 {
		t.Errorf("PriorityScore = %v, want 0.5", rec.PriorityScore)
	}
	if rec.GapDescription != "Adequate coverage (1 Merit Badge Counselors)" {
		t.Errorf("GapDescription = %q", rec.GapDescription)
	}
}

func TestPrioritize_SingleCounselorEagleDescription(t *testing.T) {
	scorer := NewScorer()

	coverage := map[string][]CounselorRef{
		"First Aid": {{Name: "Jon Campbell"}},
	}

	records := scorer.Prioritize(nil, coverage)
	if len(records) != 1 {
		t.Fatalf("Prioritize() returned %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.GapLevel != LevelCritical {
		t.Errorf("GapLevel = %s, want CRITICAL", rec.GapLevel)
	}
	if rec.GapDescription != "Only 1 MBC for Eagle-required Merit Badge (busy Troop Committee Chair needs help)" {
		t.Errorf("GapDescription = %q", rec.GapDescription)
	}
	if rec.ScoutDemand != 0 {
		t.Errorf("ScoutDemand = %d, want 0 (badge absent from demand)", rec.ScoutDemand)
	}
	if rec.PriorityScore != 0 {
		t.Errorf("PriorityScore = %v, want 0", rec.PriorityScore)
	}
}

func TestPrioritize_MediumForOneOrTwoScouts(t *testing.T) {
	scorer := NewScorer()

	demand := map[string]Demand{
		"Basketry": {ScoutCount: 2, IsEagleRequired: false},
	}

	records := scorer.Prioritize(demand, map[string][]CounselorRef{})

	var rec Record
	for _, r := range records {
		if r.BadgeName == "Basketry" {
			rec = r
		}
	}
	if rec.GapLevel != LevelMedium {
		t.Errorf("GapLevel = %s, want MEDIUM", rec.GapLevel)
	}
	if rec.GapDescription != "2 Scout(s) requesting non-Eagle Merit Badge with no MBC coverage" {
		t.Errorf("GapDescription = %q", rec.GapDescription)
	}
}

func TestPrioritize_AdequateCoverageWinsFirst(t *testing.T) {
	scorer := NewScorer()

	demand := map[string]Demand{
		"Camping": {ScoutCount: 9, IsEagleRequired: true, PriorityWeight: 1.5},
	}
	coverage := map[string][]CounselorRef{
		"Camping": {{Name: "A"}, {Name: "B"}, {Name: "C"}},
	}

	records := scorer.Prioritize(demand, coverage)
	if len(records) != 1 {
		t.Fatalf("Prioritize() returned %d records, want 1", len(records))
	}
	// Three counselors: adequate even for a heavily requested Eagle badge.
	if records[0].GapLevel != LevelAdequate {
		t.Errorf("GapLevel = %s, want ADEQUATE", records[0].GapLevel)
	}
}

func TestPrioritize_NoDuplicateBadges(t *testing.T) {
	scorer := NewScorer()

	demand := map[string]Demand{
		"Camping":   {ScoutCount: 5, IsEagleRequired: true, PriorityWeight: 1.5},
		"First Aid": {ScoutCount: 2, IsEagleRequired: true, PriorityWeight: 1.5},
		"Golf":      {ScoutCount: 4},
	}
	coverage := map[string][]CounselorRef{
		"Camping":   {},
		"First Aid": {{Name: "Jon Campbell"}},
		"Golf":      {},
	}

	records := scorer.Prioritize(demand, coverage)

	seen := make(map[string]int)
	for _, rec := range records {
		seen[rec.BadgeName]++
	}
	for name, count := range seen {
		if count > 1 {
			t.Errorf("badge %q appears %d times, want at most once", name, count)
		}
	}
}

func TestPrioritize_AliasedDemandDoesNotDuplicate(t *testing.T) {
	scorer := NewScorer()

	// The signup sheet spells the badge without the article; the directory
	// spells it with. Both refer to one badge and must yield one record.
	demand := map[string]Demand{
		"Citizenship in Community": {ScoutCount: 3, IsEagleRequired: true, PriorityWeight: 1.5},
	}
	coverage := map[string][]CounselorRef{
		"Citizenship in the Community": {{Name: "Jon Campbell"}},
	}

	records := scorer.Prioritize(demand, coverage)
	if len(records) != 1 {
		t.Fatalf("Prioritize() returned %d records, want 1: %+v", len(records), records)
	}
	if records[0].GapLevel != LevelCritical {
		t.Errorf("GapLevel = %s, want CRITICAL", records[0].GapLevel)
	}
}

func TestPrioritize_EaglePrecedesNonEagle(t *testing.T) {
	scorer := NewScorer()

	demand := map[string]Demand{
		"Golf":      {ScoutCount: 9},                                             // non-eagle, huge score
		"First Aid": {ScoutCount: 1, IsEagleRequired: true, PriorityWeight: 1.5}, // eagle, small score
		"Chess":     {ScoutCount: 4},                                             // non-eagle
	}
	coverage := map[string][]CounselorRef{
		"First Aid": {{Name: "Jon Campbell"}},
	}

	records := scorer.Prioritize(demand, coverage)

	lastEagle := true
	for i, rec := range records {
		if rec.IsEagleRequired && !lastEagle {
			t.Errorf("record %d (%s) is Eagle but follows a non-Eagle record", i, rec.BadgeName)
		}
		lastEagle = rec.IsEagleRequired
	}
}

func TestPrioritize_SortWithinEagleStatus(t *testing.T) {
	scorer := NewScorer(WithEagleBadges(nil))

	demand := map[string]Demand{
		"Golf":     {ScoutCount: 4},
		"Basketry": {ScoutCount: 4},
		"Chess":    {ScoutCount: 9},
	}

	records := scorer.Prioritize(demand, map[string][]CounselorRef{})

	want := []string{"Chess", "Basketry", "Golf"} // 9.0, then 4.0 ties alphabetical
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i, name := range want {
		if records[i].BadgeName != name {
			t.Errorf("records[%d] = %s, want %s", i, records[i].BadgeName, name)
		}
	}
}

func TestPrioritize_Idempotent(t *testing.T) {
	scorer := NewScorer()

	demand := map[string]Demand{
		"Camping": {ScoutCount: 5, IsEagleRequired: true, PriorityWeight: 1.5, InterestedScouts: []string{"A", "B"}},
		"Golf":    {ScoutCount: 4, InterestedScouts: []string{"C"}},
		"Chess":   {ScoutCount: 1},
	}
	coverage := map[string][]CounselorRef{
		"Camping": {},
		"Chess":   {{Name: "Alice Walker"}},
	}

	first := scorer.Prioritize(demand, coverage)
	second := scorer.Prioritize(demand, coverage)

	if !reflect.DeepEqual(first, second) {
		t.Error("Prioritize() is not deterministic across identical runs")
	}
}

func TestPrioritize_EmptyInputs(t *testing.T) {
	scorer := NewScorer(WithEagleBadges(nil))

	if records := scorer.Prioritize(nil, nil); len(records) != 0 {
		t.Errorf("Prioritize(nil, nil) returned %d records, want 0", len(records))
	}

	demand := map[string]Demand{
		"Golf": {ScoutCount: 0, InterestedScouts: []string{"ghost"}},
	}
	if records := scorer.Prioritize(demand, nil); len(records) != 0 {
		t.Errorf("zero-demand badges should be skipped, got %d records", len(records))
	}
}

func TestPrioritize_ArtifactSlicesNeverNil(t *testing.T) {
	scorer := NewScorer()

	coverage := map[string][]CounselorRef{
		"Camping": {},
	}
	records := scorer.Prioritize(nil, coverage)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].InterestedScouts == nil {
		t.Error("InterestedScouts is nil, want empty slice")
	}
	if records[0].Counselors == nil {
		t.Error("Counselors is nil, want empty slice")
	}
}

func TestPrioritize_CustomThresholds(t *testing.T) {
	scorer := NewScorer(
		WithEagleBadges([]string{"Tracking"}),
		WithAdequateCoverage(2),
		WithHighDemand(5),
		WithEagleMultiplier(2.0),
	)

	demand := map[string]Demand{
		"Golf":     {ScoutCount: 4}, // below the raised high-demand bar
		"Archery":  {ScoutCount: 6}, // above it
		"Canoeing": {ScoutCount: 9}, // two counselors now adequate
	}
	coverage := map[string][]CounselorRef{
		"Tracking": {},
		"Canoeing": {{Name: "A"}, {Name: "B"}},
	}

	records := scorer.Prioritize(demand, coverage)

	byName := make(map[string]Record)
	for _, rec := range records {
		byName[rec.BadgeName] = rec
	}

	if got := byName["Golf"].GapLevel; got != LevelMedium {
		t.Errorf("Golf = %s, want MEDIUM under high_demand=5", got)
	}
	if got := byName["Archery"].GapLevel; got != LevelHigh {
		t.Errorf("Archery = %s, want HIGH under high_demand=5", got)
	}
	if got := byName["Canoeing"].GapLevel; got != LevelAdequate {
		t.Errorf("Canoeing = %s, want ADEQUATE under adequate_coverage=2", got)
	}
	if got := byName["Tracking"].GapLevel; got != LevelCritical {
		t.Errorf("Tracking = %s, want CRITICAL for injected Eagle badge", got)
	}
}
