package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/scoutops/mbc-pipeline/internal/analysis"
	"github.com/scoutops/mbc-pipeline/internal/badge"
	"github.com/scoutops/mbc-pipeline/internal/join"
	"github.com/scoutops/mbc-pipeline/internal/storage"
)

var reportTime = time.Date(2025, 9, 20, 14, 30, 5, 0, time.UTC)

func sampleJoin() *join.Result {
	return &join.Result{
		TroopCounselors: []join.Counselor{
			{
				Name:          "Timothy Werner",
				FirstName:     "Timothy",
				LastName:      "Werner",
				Troops:        []string{"T32"},
				TroopDisplay:  "T32",
				MeritBadges:   []string{"Camping", "Golf"},
				Email:         "tim@example.com",
				Phone:         "(978) 263-4038",
				PhoneHome:     "(978) 263-4038",
				PhoneMobile:   "(508) 782-8502",
				YPTExpiration: "12/5/2026",
				Source:        "roster",
			},
			{
				Name:          "Sarah Mitchell",
				FirstName:     "Sarah",
				LastName:      "Mitchell",
				Troops:        []string{"T7012"},
				TroopDisplay:  "T7012",
				MeritBadges:   []string{"First Aid"},
				Email:         "sarah@example.com",
				Phone:         "(617) 555-0100",
				YPTExpiration: "expired",
				Source:        "roster",
			},
		},
		SupplementalCounselors: []join.Counselor{
			{
				Name:         "Diana Prince",
				FirstName:    "Diana",
				LastName:     "Prince",
				Troops:       []string{"T49"},
				TroopDisplay: "T49",
				MeritBadges:  []string{"Chess"},
				Email:        "diana@example.com",
				Source:       "supplemental",
			},
		},
		NonCounselorLeaders: []join.Leader{
			{
				Name:         "Christopher White",
				FirstName:    "Christopher",
				LastName:     "White",
				Troops:       []string{"T32", "T7012"},
				TroopDisplay: "T32, T7012",
				Positions:    map[string]string{"T32": "Scoutmaster", "T7012": "Committee Member"},
			},
			{
				Name:         "Jane Doe",
				FirstName:    "Jane",
				LastName:     "Doe",
				Troops:       []string{"T32"},
				TroopDisplay: "T32",
				Positions:    map[string]string{},
			},
		},
		TotalAdults:         4,
		MBCMatches:          2,
		SupplementalMatches: 1,
	}
}

func samplePriority() *analysis.Artifact {
	records := []analysis.Record{
		{
			BadgeName:        "Camping",
			ScoutDemand:      5,
			InterestedScouts: []string{"Aiden B", "Ben C", "Carlos D", "Dev E", "Eli F"},
			IsEagleRequired:  true,
			GapLevel:         analysis.LevelCritical,
			PriorityScore:    7.5,
		},
		{
			BadgeName:       "First Aid",
			CounselorCount:  1,
			Counselors:      []analysis.CounselorRef{{Name: "Sarah Mitchell"}},
			IsEagleRequired: true,
			GapLevel:        analysis.LevelCritical,
		},
		{
			BadgeName:        "Robotics",
			ScoutDemand:      4,
			InterestedScouts: []string{"Finn G", "Gus H", "Hank I", "Ian J"},
			GapLevel:         analysis.LevelHigh,
			PriorityScore:    4.0,
		},
		{
			BadgeName:        "Archery",
			ScoutDemand:      2,
			InterestedScouts: []string{"Jack K", "Kyle L"},
			GapLevel:         analysis.LevelMedium,
			PriorityScore:    2.0,
		},
		{
			BadgeName:      "Swimming",
			CounselorCount: 4,
			GapLevel:       analysis.LevelAdequate,
		},
	}
	return &analysis.Artifact{
		PriorityAnalysis: records,
		AnalysisSummary:  analysis.Summarize(records),
	}
}

func sampleData() *Data {
	return &Data{
		Join:          sampleJoin(),
		Priority:      samplePriority(),
		AllBadges:     []string{"Camping", "First Aid", "Swimming", "Golf", "Chess", "Basketry"},
		EagleBadges:   badge.NewSet("Camping", "First Aid", "Swimming"),
		ExcludedNames: []string{"Bad Actor"},
	}
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("storage.New failed: %v", err)
	}
	return store
}

func readReport(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(content)
}

func TestGenerate_WritesAllFiles(t *testing.T) {
	store := newTestStore(t)

	dir, err := Generate(store, sampleData(), reportTime)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if filepath.Base(dir) != "T32_T7012_MBC_Reports_20250920_143005" {
		t.Errorf("report dir = %q", filepath.Base(dir))
	}
	if strings.Contains(dir, "T49") {
		t.Error("supplemental units should not appear in the directory name")
	}

	expected := []string{
		"T32_T7012_MBC_Troop_Counselors_20250920_143005.html",
		"T32_T7012_MBC_Non_Counselors_20250920_143005.html",
		"T32_T7012_MBC_Coverage_Report_20250920_143005.html",
		"T32_T7012_MBC_Priority_Report_20250920_143005.html",
		"ypt_expirations.ics",
		"summary_report.json",
	}
	for _, name := range expected {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing report file %s: %v", name, err)
		}
	}
}

func TestGenerate_TroopCounselorsReport(t *testing.T) {
	store := newTestStore(t)

	dir, err := Generate(store, sampleData(), reportTime)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	html := readReport(t, dir, "T32_T7012_MBC_Troop_Counselors_20250920_143005.html")

	checks := []string{
		"<title>T32/T7012 Merit Badge Counselors</title>",
		"Generated on September 20, 2025 at 02:30 PM",
		"<h2>T32/T7012 Merit Badge Counselors (3)</h2>",
		"Merit Badge Counselors associated with T32 and T7012 including unit members and MBC-only registrations.",
		`<span class="eagle-badge">Camping</span>`,
		`<span class="badge">Golf</span>`,
		"tim@example.com<br>Home: (978) 263-4038<br>Mobile: (508) 782-8502",
		// No labeled numbers on file, so the primary rides along bare.
		"sarah@example.com<br>(617) 555-0100",
		"<td>12/5/2026</td>",
	}
	for _, want := range checks {
		if !strings.Contains(html, want) {
			t.Errorf("counselors report missing %q", want)
		}
	}

	// Sorted by last name: Mitchell, Prince, Werner.
	mitchell := strings.Index(html, "Sarah Mitchell")
	prince := strings.Index(html, "Diana Prince")
	werner := strings.Index(html, "Timothy Werner")
	if !(mitchell < prince && prince < werner) {
		t.Errorf("counselors out of order: mitchell=%d prince=%d werner=%d", mitchell, prince, werner)
	}
}

func TestGenerate_NonCounselorsReport(t *testing.T) {
	store := newTestStore(t)

	dir, err := Generate(store, sampleData(), reportTime)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	html := readReport(t, dir, "T32_T7012_MBC_Non_Counselors_20250920_143005.html")

	checks := []string{
		"<h2>T32/T7012 Leaders Who Are NOT Merit Badge Counselors (2)</h2>",
		"Adult members of T32 and T7012 who could potentially become Merit Badge Counselors.",
		"<td>T32: Scoutmaster; T7012: Committee Member</td>",
		"<td>Unknown</td>",
	}
	for _, want := range checks {
		if !strings.Contains(html, want) {
			t.Errorf("non-counselors report missing %q", want)
		}
	}
}

func TestGenerate_CoverageReport(t *testing.T) {
	store := newTestStore(t)

	dir, err := Generate(store, sampleData(), reportTime)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	html := readReport(t, dir, "T32_T7012_MBC_Coverage_Report_20250920_143005.html")

	checks := []string{
		"<h3>Eagle-Required Merit Badges with T32/T7012 Counselors (2 badges)</h3>",
		"<h3>Eagle-Required Merit Badges without T32/T7012 Counselors (1 badges)</h3>",
		"<h3>Non-Eagle Merit Badges with T32/T7012 Counselors (2 badges)</h3>",
		"<h3>Non-Eagle Merit Badges without T32/T7012 Counselors (1 badges)</h3>",
		"<td>Timothy Werner (T32)</td>",
		"<td>Diana Prince (T49)</td>",
		`<span class="badge eagle-badge">Swimming</span>`,
		`<span class="badge">Basketry</span>`,
	}
	for _, want := range checks {
		if !strings.Contains(html, want) {
			t.Errorf("coverage report missing %q", want)
		}
	}
}

func TestGenerate_PriorityReport(t *testing.T) {
	store := newTestStore(t)

	dir, err := Generate(store, sampleData(), reportTime)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	html := readReport(t, dir, "T32_T7012_MBC_Priority_Report_20250920_143005.html")

	checks := []string{
		"🚨 Critical Priority (2 Merit Badges)",
		"⚠️ High Priority (1 Merit Badges)",
		"🎯 Medium Priority (1 Merit Badges)",
		"<strong>🦅 Camping</strong>",
		"Aiden B, Ben C, Carlos D +2 more",
		"None currently",
		"<td>Sarah Mitchell</td>",
		"<td>None</td>",
		"2 Scout(s) interested: Jack K, Kyle L",
		"💡 How to Use This Report",
		"Scouts Impacted",
	}
	for _, want := range checks {
		if !strings.Contains(html, want) {
			t.Errorf("priority report missing %q", want)
		}
	}

	if strings.Contains(html, "Swimming") {
		t.Error("ADEQUATE records should not appear in the priority report")
	}

	// Unique scouts across critical, high, and medium gaps.
	if !strings.Contains(html, `<div class="stat-number">11</div>`) {
		t.Error("scouts impacted stat box should show 11")
	}
}

func TestGenerate_YPTCalendar(t *testing.T) {
	store := newTestStore(t)

	dir, err := Generate(store, sampleData(), reportTime)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	ics := readReport(t, dir, "ypt_expirations.ics")

	if !strings.Contains(ics, "SUMMARY:YPT expires: Timothy Werner") {
		t.Error("calendar should carry the counselor with a parseable date")
	}
	if strings.Contains(ics, "Sarah Mitchell") {
		t.Error("unparseable expirations should be skipped")
	}
	if !strings.Contains(ics, "X-WR-CALNAME:T32/T7012 YPT Expirations") {
		t.Error("calendar name should carry the troop prefix")
	}
}

func TestGenerate_SummaryReport(t *testing.T) {
	store := newTestStore(t)

	dir, err := Generate(store, sampleData(), reportTime)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var summary struct {
		GenerationTime    string   `json:"generation_time"`
		TroopsProcessed   []string `json:"troops_processed"`
		ExclusionsApplied bool     `json:"exclusions_applied"`
		ExcludedNames     []string `json:"excluded_names"`
		Statistics        struct {
			TotalAdultsProcessed   int `json:"total_adults_processed"`
			TroopCounselors        int `json:"troop_counselors"`
			SupplementalCounselors int `json:"supplemental_counselors"`
			NonCounselorLeaders    int `json:"non_counselor_leaders"`
			TotalCounselors        int `json:"total_counselors"`
		} `json:"statistics"`
	}
	if err := json.Unmarshal([]byte(readReport(t, dir, "summary_report.json")), &summary); err != nil {
		t.Fatalf("decoding summary report: %v", err)
	}

	if summary.GenerationTime != reportTime.Format(time.RFC3339) {
		t.Errorf("generation_time = %q", summary.GenerationTime)
	}
	if len(summary.TroopsProcessed) != 2 || summary.TroopsProcessed[0] != "T32" {
		t.Errorf("troops_processed = %v", summary.TroopsProcessed)
	}
	if !summary.ExclusionsApplied || len(summary.ExcludedNames) != 1 {
		t.Errorf("exclusions = %v / %v", summary.ExclusionsApplied, summary.ExcludedNames)
	}
	if summary.Statistics.TotalAdultsProcessed != 5 || summary.Statistics.TotalCounselors != 3 {
		t.Errorf("statistics = %+v", summary.Statistics)
	}
}

func TestGenerate_SkipsOptionalOutputs(t *testing.T) {
	store := newTestStore(t)

	data := sampleData()
	data.Priority = nil
	data.Join.TroopCounselors[0].YPTExpiration = ""

	dir, err := Generate(store, data, reportTime)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "T32_T7012_MBC_Priority_Report_20250920_143005.html")); !os.IsNotExist(err) {
		t.Error("priority report should be skipped without analysis data")
	}
	if _, err := os.Stat(filepath.Join(dir, "ypt_expirations.ics")); !os.IsNotExist(err) {
		t.Error("calendar should be skipped without parseable expirations")
	}
}

func TestGenerate_NoJoinData(t *testing.T) {
	store := newTestStore(t)
	if _, err := Generate(store, &Data{}, reportTime); err == nil {
		t.Fatal("expected an error without join data")
	}
}

func TestPositionsForLeader(t *testing.T) {
	tests := []struct {
		name   string
		leader join.Leader
		want   string
	}{
		{
			name:   "single troop",
			leader: join.Leader{Positions: map[string]string{"T32": "Scoutmaster"}},
			want:   "Scoutmaster",
		},
		{
			name:   "multiple troops get unit prefixes",
			leader: join.Leader{Positions: map[string]string{"T32": "Scoutmaster", "T7012": "Committee Member"}},
			want:   "T32: Scoutmaster; T7012: Committee Member",
		},
		{
			name:   "no positions",
			leader: join.Leader{Positions: map[string]string{}},
			want:   "Unknown",
		},
		{
			name:   "blank positions",
			leader: join.Leader{Positions: map[string]string{"T32": "  "}},
			want:   "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := positionsForLeader(tt.leader); got != tt.want {
				t.Errorf("positionsForLeader() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScoutsCell(t *testing.T) {
	tests := []struct {
		name   string
		scouts []string
		want   string
	}{
		{"empty", nil, "None currently"},
		{"under limit", []string{"A", "B"}, "A, B"},
		{"at limit", []string{"A", "B", "C"}, "A, B, C"},
		{"over limit", []string{"A", "B", "C", "D", "E"}, "A, B, C +2 more"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoutsCell(tt.scouts); got != tt.want {
				t.Errorf("scoutsCell() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContactCell_EscapesHTML(t *testing.T) {
	c := join.Counselor{Email: "a&b@example.com", PhoneHome: "(978) 263-4038"}
	got := contactCell(c)
	if !strings.Contains(got, "a&amp;b@example.com") {
		t.Errorf("email not escaped: %q", got)
	}
	if !strings.Contains(got, "Home: (978) 263-4038") {
		t.Errorf("labeled phone missing: %q", got)
	}
}
