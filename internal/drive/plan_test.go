package drive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/googleapi"
)

func writeReportRun(t *testing.T, reportsDir, name string, files ...string) string {
	t.Helper()
	dir := filepath.Join(reportsDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating %s: %v", dir, err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("<html></html>"), 0644); err != nil {
			t.Fatalf("writing %s: %v", f, err)
		}
	}
	return dir
}

func TestLatestReportDir(t *testing.T) {
	reportsDir := t.TempDir()
	writeReportRun(t, reportsDir, "T32_T7012_MBC_Reports_20250101_080000")
	want := writeReportRun(t, reportsDir, "T32_T7012_MBC_Reports_20250920_143005")
	writeReportRun(t, reportsDir, "T32_T7012_MBC_Reports_20250615_120000")
	writeReportRun(t, reportsDir, "notes")
	writeReportRun(t, reportsDir, "T32_MBC_Reports_badstamp")

	got, err := LatestReportDir(reportsDir)
	if err != nil {
		t.Fatalf("LatestReportDir failed: %v", err)
	}
	if got != want {
		t.Errorf("LatestReportDir = %s, want %s", got, want)
	}
}

func TestLatestReportDir_NoneFound(t *testing.T) {
	reportsDir := t.TempDir()
	writeReportRun(t, reportsDir, "scratch")

	if _, err := LatestReportDir(reportsDir); err == nil {
		t.Fatal("expected an error with no report directories")
	}
}

func TestBuildPlan(t *testing.T) {
	reportsDir := t.TempDir()
	writeReportRun(t, reportsDir, "T32_MBC_Reports_20250101_080000",
		"T32_MBC_Coverage_Report_20250101_080000.html")
	dir := writeReportRun(t, reportsDir, "T32_MBC_Reports_20250920_143005",
		"T32_MBC_Troop_Counselors_20250920_143005.html",
		"T32_MBC_Coverage_Report_20250920_143005.html",
		"summary_report.json",
		"ypt_expirations.ics")

	plan, err := BuildPlan(reportsDir)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	if plan.Dir != dir {
		t.Errorf("plan.Dir = %s, want %s", plan.Dir, dir)
	}
	if len(plan.Files) != 4 {
		t.Fatalf("plan has %d files, want 4", len(plan.Files))
	}

	remote := make(map[string]string)
	for _, f := range plan.Files {
		remote[f.LocalName] = f.RemoteName
	}
	if remote["T32_MBC_Troop_Counselors_20250920_143005.html"] != "T32_MBC_Troop_Counselors.html" {
		t.Errorf("counselors remote name = %q", remote["T32_MBC_Troop_Counselors_20250920_143005.html"])
	}
	if remote["summary_report.json"] != "summary_report.json" {
		t.Errorf("stable name changed: %q", remote["summary_report.json"])
	}
}

func TestBuildPlan_EmptyRun(t *testing.T) {
	reportsDir := t.TempDir()
	writeReportRun(t, reportsDir, "T32_MBC_Reports_20250920_143005")

	if _, err := BuildPlan(reportsDir); err == nil {
		t.Fatal("expected an error for a report run with no files")
	}
}

func TestStandardName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "timestamped html",
			in:   "T32_T7012_MBC_Priority_Report_20250920_143005.html",
			want: "T32_T7012_MBC_Priority_Report.html",
		},
		{
			name: "stable json",
			in:   "summary_report.json",
			want: "summary_report.json",
		},
		{
			name: "stable ics",
			in:   "ypt_expirations.ics",
			want: "ypt_expirations.ics",
		},
		{
			name: "timestamp not at end",
			in:   "T32_20250920_143005_notes.html",
			want: "T32_20250920_143005_notes.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := standardName(tt.in); got != tt.want {
				t.Errorf("standardName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDryRunUploader(t *testing.T) {
	reportsDir := t.TempDir()
	writeReportRun(t, reportsDir, "T32_MBC_Reports_20250920_143005",
		"T32_MBC_Coverage_Report_20250920_143005.html")

	plan, err := BuildPlan(reportsDir)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	if err := NewDryRunUploader().Upload(context.Background(), plan); err != nil {
		t.Errorf("dry run Upload failed: %v", err)
	}
}

func TestClassifyDriveErr(t *testing.T) {
	if classifyDriveErr(nil) != nil {
		t.Error("nil should stay nil")
	}

	notFound := &googleapi.Error{Code: 404}
	var perm *backoff.PermanentError
	if !errors.As(classifyDriveErr(notFound), &perm) {
		t.Error("404 should be permanent")
	}

	rateLimited := &googleapi.Error{Code: 429}
	if errors.As(classifyDriveErr(rateLimited), &perm) {
		t.Error("429 should stay retryable")
	}

	serverErr := &googleapi.Error{Code: 503}
	if errors.As(classifyDriveErr(serverErr), &perm) {
		t.Error("503 should stay retryable")
	}

	if err := classifyDriveErr(errors.New("connection reset")); errors.As(err, &perm) {
		t.Error("transport errors should stay retryable")
	}
}

func TestEscapeQuery(t *testing.T) {
	if got := escapeQuery("O'Brien Reports"); got != `O\'Brien Reports` {
		t.Errorf("escapeQuery = %q", got)
	}
}

func TestPlan_RemoteFolder(t *testing.T) {
	plan := &Plan{Dir: "/data/reports/T32_T7012_MBC_Reports_20250920_143005"}
	if got := plan.RemoteFolder(); got != "T32_T7012_MBC_Reports" {
		t.Errorf("RemoteFolder() = %q, want %q", got, "T32_T7012_MBC_Reports")
	}
}
