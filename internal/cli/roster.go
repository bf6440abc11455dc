package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoutops/mbc-pipeline/internal/config"
	"github.com/scoutops/mbc-pipeline/internal/join"
	"github.com/scoutops/mbc-pipeline/internal/logger"
	"github.com/scoutops/mbc-pipeline/internal/roster"
	"github.com/scoutops/mbc-pipeline/internal/storage"
)

// joinArtifact is the stable name of the roster/counselor join artifact.
const joinArtifact = "roster_mbc_join.json"

var flagRosterDir string

func newRosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Join roster adults against the counselor directory",
		Long: `Auto-detects the newest roster export per unit, extracts adult
leaders, partitions them into counselors and non-counselors against the
counselor directory, folds in the supplemental MBC list, and writes the
join artifact.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := setup()
			if err != nil {
				return err
			}
			_, err = stageRoster(cfg, store)
			return err
		},
	}
	cmd.Flags().StringVar(&flagRosterDir, "roster-dir", "", "Directory of roster exports (overrides config)")
	return cmd
}

func stageRoster(cfg *config.Config, store *storage.Store) (*join.Result, error) {
	rosterDir := cfg.RosterSearchDir()
	if flagRosterDir != "" {
		rosterDir = flagRosterDir
	}

	members, warnings, err := roster.ProcessDir(rosterDir)
	if err != nil {
		return nil, fmt.Errorf("processing rosters: %w", err)
	}
	for _, w := range warnings {
		logger.Warn("roster skipped", logger.Fields{"detail": w.String()})
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("no roster adults found in %s", rosterDir)
	}

	dir, err := loadDirectory(store)
	if err != nil {
		return nil, err
	}

	supplemental, supWarnings, err := join.LoadSupplemental(cfg.InputPath(cfg.SupplementalFile))
	if err != nil {
		return nil, fmt.Errorf("loading supplemental counselors: %w", err)
	}
	for _, w := range supWarnings {
		logger.Warn("supplemental line skipped", logger.Fields{"detail": w.String()})
	}

	result := join.Join(members, dir.Counselors, supplemental)
	path, err := store.SaveJSON(joinArtifact, result)
	if err != nil {
		return nil, fmt.Errorf("saving join artifact: %w", err)
	}

	logger.Info("roster join written", logger.Fields{
		"adults":           result.TotalAdults,
		"troop_counselors": len(result.TroopCounselors),
		"supplemental":     len(result.SupplementalCounselors),
		"non_counselors":   len(result.NonCounselorLeaders),
		"artifact":         path,
	})
	logger.SetGauge("roster_adults", float64(result.TotalAdults))
	logger.SetGauge("mbc_matches", float64(result.MBCMatches))
	return result, nil
}
