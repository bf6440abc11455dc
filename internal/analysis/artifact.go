package analysis

// Artifact is the priority analysis file written after each run: the ranked
// records, their aggregate summary, and the gap transitions since the
// previous run.
type Artifact struct {
	PriorityAnalysis []Record    `json:"priority_analysis"`
	AnalysisSummary  Summary     `json:"analysis_summary"`
	Changes          []GapChange `json:"changes,omitempty"`
}

// Critical reports whether the artifact contains any CRITICAL gap. The run
// command maps this to its alerting exit code.
func (a *Artifact) Critical() bool {
	return a.AnalysisSummary.GapSummary.CriticalGaps > 0
}
