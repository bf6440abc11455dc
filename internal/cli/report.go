package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoutops/mbc-pipeline/internal/analysis"
	"github.com/scoutops/mbc-pipeline/internal/badge"
	"github.com/scoutops/mbc-pipeline/internal/config"
	"github.com/scoutops/mbc-pipeline/internal/join"
	"github.com/scoutops/mbc-pipeline/internal/logger"
	"github.com/scoutops/mbc-pipeline/internal/matcher"
	"github.com/scoutops/mbc-pipeline/internal/report"
	"github.com/scoutops/mbc-pipeline/internal/storage"
)

var (
	flagDataFile     string
	flagPriorityFile string
	flagSkipPriority bool
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render HTML reports and the YPT calendar for the newest artifacts",
		Long: `Renders the troop counselor, non-counselor, coverage, and priority
reports plus a YPT-expiration calendar and a summary JSON into a
timestamped directory under reports/.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := setup()
			if err != nil {
				return err
			}
			dir, err := stageReport(cfg, store)
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagDataFile, "data-file", "", "Join artifact name (default: "+joinArtifact+")")
	cmd.Flags().StringVar(&flagPriorityFile, "priority-file", "", "Priority artifact name (default: newest)")
	cmd.Flags().BoolVar(&flagSkipPriority, "skip-priority", false, "Render without the priority report")
	return cmd
}

func stageReport(cfg *config.Config, store *storage.Store) (string, error) {
	joinResult, err := loadJoin(store, flagDataFile)
	if err != nil {
		return "", err
	}

	// The analyze stage filtered coverage; the people lists in the join
	// artifact are still unfiltered, so the same ruleset is applied to
	// them here before anything renders.
	rules, err := matcher.LoadRules(cfg.InputPath(cfg.ExclusionFile))
	if err != nil {
		return "", fmt.Errorf("loading exclusion rules: %w", err)
	}
	filtered, dropped := joinResult.WithoutExcluded(rules)
	if dropped > 0 {
		logger.Info("excluded counselors hidden from reports", logger.Fields{"count": dropped})
	}

	var priority *analysis.Artifact
	if !flagSkipPriority {
		priority, err = loadPriority(store, flagPriorityFile)
		if err != nil {
			return "", err
		}
	}

	allBadges, err := badgeUniverse(cfg, filtered)
	if err != nil {
		return "", err
	}

	data := &report.Data{
		Join:          filtered,
		Priority:      priority,
		AllBadges:     allBadges,
		EagleBadges:   badge.NewSet(cfg.EagleBadges...),
		ExcludedNames: rules.FullNames(),
	}

	dir, err := report.Generate(store, data, time.Now())
	if err != nil {
		return "", fmt.Errorf("generating reports: %w", err)
	}

	logger.Info("reports written", logger.Fields{"dir": dir})
	return dir, nil
}

// loadPriority reads the newest priority artifact, or a specific one when
// name is set. No artifact yet just means the priority report is skipped.
func loadPriority(store *storage.Store, name string) (*analysis.Artifact, error) {
	var artifact analysis.Artifact
	if name != "" {
		if err := store.LoadJSON(name, &artifact); err != nil {
			return nil, fmt.Errorf("loading priority artifact: %w", err)
		}
		return &artifact, nil
	}
	if _, err := store.LoadLatest(priorityPrefix, &artifact); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("no priority artifact found, skipping priority report", nil)
			return nil, nil
		}
		return nil, fmt.Errorf("loading priority artifact: %w", err)
	}
	return &artifact, nil
}

// badgeUniverse loads the configured all-badges file for the coverage
// report. Without one, the universe degrades to the badges the unit's
// counselors actually hold plus the Eagle set, so the report still
// partitions covered from uncovered.
func badgeUniverse(cfg *config.Config, j *join.Result) ([]string, error) {
	badges, err := badge.LoadAll(cfg.InputPath(cfg.AllBadgesFile))
	if err == nil {
		return badges, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading badge universe: %w", err)
	}

	seen := make(map[string]struct{})
	var universe []string
	add := func(name string) {
		name = badge.Canonical(name, cfg.BadgeAliases)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		universe = append(universe, name)
	}
	for _, c := range j.AllCounselors() {
		for _, b := range c.MeritBadges {
			add(b)
		}
	}
	for _, b := range cfg.EagleBadges {
		add(b)
	}
	return universe, nil
}
