// Package report renders the committee-facing outputs of a pipeline run.
//
// The report package turns the join and priority-analysis artifacts into a
// timestamped directory of HTML reports (troop counselors, non-counselor
// leaders, badge coverage, and recruitment priorities), a YPT-expiration
// calendar, and a machine-readable summary. It only renders: exclusion rules
// are applied upstream exactly once, and the inputs arrive already filtered.
package report
