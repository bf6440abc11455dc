package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/scoutops/mbc-pipeline/internal/analysis"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// AnalyzeResult contains what the analyze command prints: the (possibly
// filtered) ranked records plus the run's aggregate summary and changes.
type AnalyzeResult struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Artifact    string               `json:"artifact"`
	Filter      string               `json:"filter,omitempty"`
	Records     []analysis.Record    `json:"records"`
	Summary     analysis.Summary     `json:"summary"`
	Changes     []analysis.GapChange `json:"changes,omitempty"`
}

// WriteAnalysis writes the result in the specified format. Text output goes
// through a pager when stdout is a terminal, unless noPager is set.
func WriteAnalysis(w io.Writer, result *AnalyzeResult, format OutputFormat, noPager bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		text := renderText(result)
		if w == os.Stdout && !noPager && isTerminal() {
			return writeThroughPager(text)
		}
		_, err := io.WriteString(w, text)
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as indented JSON
func writeJSON(w io.Writer, result *AnalyzeResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// renderText builds the human-readable analysis summary.
func renderText(result *AnalyzeResult) string {
	var b strings.Builder

	gs := result.Summary.GapSummary
	fmt.Fprintf(&b, "Coverage gap analysis (%d badges)\n", result.Summary.TotalBadgesAnalyzed)
	fmt.Fprintf(&b, "  CRITICAL: %d   HIGH: %d   MEDIUM: %d   LOW: %d   ADEQUATE: %d\n",
		gs.CriticalGaps, gs.HighPriorityGaps, gs.MediumPriorityGaps, gs.LowPriorityGaps, gs.AdequateCoverage)
	fmt.Fprintf(&b, "  Scouts affected: %d unique, %d badge requests\n",
		result.Summary.ScoutImpact.UniqueScoutsAffected,
		result.Summary.ScoutImpact.TotalBadgeRequestsAffected)
	if result.Filter != "" {
		fmt.Fprintf(&b, "  Showing: %s\n", result.Filter)
	}

	if len(result.Records) == 0 {
		b.WriteString("\nNo records to show.\n")
	} else {
		b.WriteString("\n")
		for _, rec := range result.Records {
			eagle := ""
			if rec.IsEagleRequired {
				eagle = " [Eagle]"
			}
			fmt.Fprintf(&b, "%-8s %6.2f  %s%s\n", rec.GapLevel, rec.PriorityScore, rec.BadgeName, eagle)
			fmt.Fprintf(&b, "         %d Scout(s) interested, %d counselor(s) — %s\n",
				rec.ScoutDemand, rec.CounselorCount, rec.GapDescription)
		}
	}

	if len(result.Changes) > 0 {
		fmt.Fprintf(&b, "\nChanges since previous run (%d):\n", len(result.Changes))
		for _, ch := range result.Changes {
			switch ch.ChangeType {
			case "new":
				fmt.Fprintf(&b, "  NEW      %s -> %s\n", ch.BadgeName, ch.NewLevel)
			case "resolved":
				fmt.Fprintf(&b, "  RESOLVED %s (was %s)\n", ch.BadgeName, ch.OldLevel)
			default:
				fmt.Fprintf(&b, "  LEVEL    %s: %s -> %s\n", ch.BadgeName, ch.OldLevel, ch.NewLevel)
			}
		}
	}

	return b.String()
}

// isTerminal returns true if stdout is connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// writeThroughPager pipes output through a pager (less -R -X by default).
// Any pager failure falls back to direct output.
func writeThroughPager(output string) error {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}

	// -R preserves ANSI colors, -X leaves output on screen after quit
	var args []string
	if pager == "less" {
		args = []string{"-R", "-X"}
	}

	cmd := exec.Command(pager, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		fmt.Print(output)
		return nil
	}

	if err := cmd.Start(); err != nil {
		fmt.Print(output)
		return nil
	}

	io.WriteString(stdin, output) // nolint:errcheck
	stdin.Close()                 // nolint:errcheck
	return cmd.Wait()
}
