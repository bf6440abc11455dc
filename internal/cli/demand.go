package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoutops/mbc-pipeline/internal/config"
	"github.com/scoutops/mbc-pipeline/internal/demand"
	"github.com/scoutops/mbc-pipeline/internal/logger"
	"github.com/scoutops/mbc-pipeline/internal/storage"
)

// demandPrefix names timestamped demand artifacts.
const demandPrefix = "scout_demand_analysis"

var flagSignupFile string

func newDemandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demand",
		Short: "Parse the Scout interest signup CSV into the demand artifact",
		Long: `Parses the newest Scout interest signup export (or a specific file)
into per-badge demand with summary metrics, and writes a timestamped
demand artifact.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := setup()
			if err != nil {
				return err
			}
			_, err = stageDemand(cfg, store)
			return err
		},
	}
	cmd.Flags().StringVar(&flagSignupFile, "signup-file", "", "Signup CSV path (default: newest match in input dir)")
	return cmd
}

func stageDemand(cfg *config.Config, store *storage.Store) (*demand.Analysis, error) {
	path := flagSignupFile
	if path == "" {
		var err error
		path, err = demand.DetectLatest(cfg.InputDir(), cfg.SignupGlob)
		if err != nil {
			return nil, fmt.Errorf("locating signup file: %w", err)
		}
	}

	proc := demand.NewProcessor(cfg.EagleBadges, cfg.BadgeAliases, cfg.HighDemand)
	analysis, warnings, err := proc.Process(path)
	if err != nil {
		return nil, fmt.Errorf("processing signup file: %w", err)
	}
	for _, w := range warnings {
		logger.Warn("signup row skipped", logger.Fields{"detail": w.String()})
	}

	artifactPath, err := store.SaveTimestamped(demandPrefix, analysis)
	if err != nil {
		return nil, fmt.Errorf("saving demand artifact: %w", err)
	}

	logger.Info("demand analysis written", logger.Fields{
		"badges":        analysis.DemandSummary.TotalBadgesRequested,
		"requests":      analysis.DemandSummary.TotalScoutRequests,
		"unique_scouts": analysis.DemandSummary.UniqueScoutsParticipating,
		"source":        path,
		"artifact":      artifactPath,
	})
	logger.SetGauge("demand_badges", float64(analysis.DemandSummary.TotalBadgesRequested))
	return analysis, nil
}
