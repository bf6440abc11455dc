// Package cli implements the command-line interface for mbc-pipeline.
//
// The cli package provides the Cobra-based CLI with one subcommand per
// pipeline stage (counselors, roster, demand, analyze, report, sync) plus
// run, which chains them all. Stages hand data to each other through JSON
// artifacts in the data directory, so any stage can be rerun alone against
// what the previous ones left behind. Analysis output supports text and
// JSON formats, and the analyze and run commands exit with code 2 when
// critical coverage gaps exist, so cron wrappers can alert on it.
package cli
