package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoutops/mbc-pipeline/internal/logger"
)

var flagWithSync bool

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the whole pipeline end to end",
		Long: `Runs counselors, roster, demand, analyze, and report in order, each
stage consuming the artifacts the previous ones wrote. Sync runs last
when --sync is given.

Exits with code 2 when CRITICAL gaps exist, so cron wrappers can alert.`,
		RunE: runPipeline,
	}
	cmd.Flags().BoolVar(&flagWithSync, "sync", false, "Upload reports to Google Drive after rendering")
	return cmd
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, store, err := setup()
	if err != nil {
		return err
	}

	start := time.Now()

	stages := []struct {
		name string
		fn   func() error
	}{
		{"counselors", func() error {
			_, err := stageCounselors(cfg, store)
			return err
		}},
		{"roster", func() error {
			_, err := stageRoster(cfg, store)
			return err
		}},
		{"demand", func() error {
			_, err := stageDemand(cfg, store)
			return err
		}},
	}
	for _, stage := range stages {
		stageStart := time.Now()
		if err := stage.fn(); err != nil {
			return fmt.Errorf("%s stage: %w", stage.name, err)
		}
		logger.RecordTiming("stage_"+stage.name, time.Since(stageStart))
	}

	stageStart := time.Now()
	artifact, _, err := stageAnalyze(cfg, store)
	if err != nil {
		return fmt.Errorf("analyze stage: %w", err)
	}
	logger.RecordTiming("stage_analyze", time.Since(stageStart))

	stageStart = time.Now()
	reportDir, err := stageReport(cfg, store)
	if err != nil {
		return fmt.Errorf("report stage: %w", err)
	}
	logger.RecordTiming("stage_report", time.Since(stageStart))

	if flagWithSync {
		stageStart = time.Now()
		if err := stageSync(cmd.Context(), cfg, store, false); err != nil {
			return fmt.Errorf("sync stage: %w", err)
		}
		logger.RecordTiming("stage_sync", time.Since(stageStart))
	}

	logger.RecordTiming("pipeline", time.Since(start))
	logger.Info("pipeline complete", logger.Fields{
		"reports":  reportDir,
		"critical": artifact.AnalysisSummary.GapSummary.CriticalGaps,
		"metrics":  logger.MetricsSnapshot(),
	})

	fmt.Println(reportDir)

	if artifact.Critical() {
		os.Exit(ExitCriticalGaps)
	}
	os.Exit(ExitSuccess)
	return nil
}
