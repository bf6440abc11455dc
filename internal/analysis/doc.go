// Package analysis ranks merit badge coverage gaps for counselor recruitment.
//
// The analysis package converts per-badge Scout demand and counselor coverage
// into a ranked priority list with discrete gap levels. Eagle-required badges
// with at most one counselor are always critical, requested or not; remaining
// requested badges classify by demand against coverage. Aggregate summaries
// and run-over-run comparisons feed the reports and the CLI.
package analysis
