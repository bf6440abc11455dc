package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoutops/mbc-pipeline/internal/analysis"
	"github.com/scoutops/mbc-pipeline/internal/config"
	"github.com/scoutops/mbc-pipeline/internal/demand"
	"github.com/scoutops/mbc-pipeline/internal/filter"
	"github.com/scoutops/mbc-pipeline/internal/join"
	"github.com/scoutops/mbc-pipeline/internal/logger"
	"github.com/scoutops/mbc-pipeline/internal/matcher"
	"github.com/scoutops/mbc-pipeline/internal/storage"
)

// priorityPrefix names timestamped priority analysis artifacts.
const priorityPrefix = "coverage_priority_analysis"

var (
	flagDemandFile    string
	flagMBCFile       string
	flagExclusionFile string
	flagFormat        string
	flagLevel         string
	flagEagleOnly     bool
	flagBadge         []string
	flagTop           int
	flagNoPager       bool
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score coverage gaps and write the priority analysis artifact",
		Long: `Applies exclusion rules to the joined counselor data, builds per-badge
coverage, runs the two-pass gap classification against Scout demand, diffs
against the previous run, and writes a timestamped priority artifact.

Exits with code 2 when CRITICAL gaps exist, so cron wrappers can alert.`,
		RunE: runAnalyze,
	}
	cmd.Flags().StringVar(&flagDemandFile, "demand-file", "", "Demand artifact name (default: newest)")
	cmd.Flags().StringVar(&flagMBCFile, "mbc-file", "", "Join artifact name (default: "+joinArtifact+")")
	cmd.Flags().StringVar(&flagExclusionFile, "exclusion-file", "", "Exclusion rules file (overrides config)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagLevel, "level", "", "Show only these gap levels (comma-separated)")
	cmd.Flags().BoolVar(&flagEagleOnly, "eagle-only", false, "Show only Eagle-required badges")
	cmd.Flags().StringSliceVar(&flagBadge, "badge", nil, "Show only badges matching these substrings")
	cmd.Flags().IntVar(&flagTop, "top", 0, "Show only the first N ranked records")
	cmd.Flags().BoolVar(&flagNoPager, "no-pager", false, "Never pipe text output through a pager")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, store, err := setup()
	if err != nil {
		return err
	}

	format := OutputFormat(flagFormat)
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	display, err := displayFilter()
	if err != nil {
		return err
	}

	artifact, artifactFile, err := stageAnalyze(cfg, store)
	if err != nil {
		return err
	}

	result := &AnalyzeResult{
		GeneratedAt: time.Now().UTC(),
		Artifact:    artifactFile,
		Records:     display.Apply(artifact.PriorityAnalysis),
		Summary:     artifact.AnalysisSummary,
		Changes:     artifact.Changes,
	}
	if !display.IsEmpty() {
		result.Filter = display.String()
	}

	if err := WriteAnalysis(os.Stdout, result, format, flagNoPager); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if artifact.Critical() {
		os.Exit(ExitCriticalGaps)
	}
	os.Exit(ExitSuccess)
	return nil
}

// displayFilter builds the presentation filter from the analyze flags. It
// narrows what is printed, never what is saved.
func displayFilter() (*filter.Filter, error) {
	f := filter.NewFilter()
	if flagLevel != "" {
		levels, err := filter.ParseLevels(flagLevel)
		if err != nil {
			return nil, err
		}
		f.Levels = levels
	}
	f.EagleOnly = flagEagleOnly
	f.Badges = append(f.Badges, flagBadge...)
	f.Top = flagTop
	return f, nil
}

func stageAnalyze(cfg *config.Config, store *storage.Store) (*analysis.Artifact, string, error) {
	joinResult, err := loadJoin(store, flagMBCFile)
	if err != nil {
		return nil, "", err
	}

	demandMap, err := loadDemand(store, flagDemandFile)
	if err != nil {
		return nil, "", err
	}

	exclusionPath := cfg.InputPath(cfg.ExclusionFile)
	if flagExclusionFile != "" {
		exclusionPath = flagExclusionFile
	}
	rules, err := matcher.LoadRules(exclusionPath)
	if err != nil {
		return nil, "", fmt.Errorf("loading exclusion rules: %w", err)
	}

	certified, excluded, restricted := applyExclusions(joinResult, rules)
	if rules.Len() > 0 {
		logger.Info("exclusion rules applied", logger.Fields{
			"rules":      rules.Len(),
			"excluded":   excluded,
			"restricted": restricted,
		})
	}

	scorer := analysis.NewScorer(
		analysis.WithEagleBadges(cfg.EagleBadges),
		analysis.WithBadgeAliases(cfg.BadgeAliases),
		analysis.WithAdequateCoverage(cfg.AdequateCoverage),
		analysis.WithHighDemand(cfg.HighDemand),
		analysis.WithEagleMultiplier(cfg.EagleMultiplier),
	)

	coverage := scorer.BuildCoverage(certified)
	records := scorer.Prioritize(demandMap, coverage)
	summary := analysis.Summarize(records)

	// Diff against the previous artifact before this run replaces it as
	// the newest one.
	var changes []analysis.GapChange
	var previous analysis.Artifact
	if _, err := store.LoadLatest(priorityPrefix, &previous); err == nil {
		changes = analysis.CompareRuns(previous.PriorityAnalysis, records)
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn("previous analysis unreadable, skipping diff", logger.Fields{"error": err.Error()})
	}

	artifact := &analysis.Artifact{
		PriorityAnalysis: records,
		AnalysisSummary:  summary,
		Changes:          changes,
	}

	path, err := store.SaveTimestamped(priorityPrefix, artifact)
	if err != nil {
		return nil, "", fmt.Errorf("saving priority analysis: %w", err)
	}

	logger.Info("priority analysis written", logger.Fields{
		"badges":   len(records),
		"critical": summary.GapSummary.CriticalGaps,
		"high":     summary.GapSummary.HighPriorityGaps,
		"changes":  len(changes),
		"artifact": path,
	})
	logger.SetGauge("critical_gaps", float64(summary.GapSummary.CriticalGaps))
	return artifact, path, nil
}

// loadJoin reads the join artifact, or a specific one when name is set.
func loadJoin(store *storage.Store, name string) (*join.Result, error) {
	if name == "" {
		name = joinArtifact
	}
	var result join.Result
	if err := store.LoadJSON(name, &result); err != nil {
		return nil, fmt.Errorf("loading join artifact (run \"roster\" first): %w", err)
	}
	return &result, nil
}

// loadDemand reads the newest demand artifact, or a specific one when name
// is set. A missing artifact degrades to empty demand: the critical pass
// still surfaces uncovered Eagle badges without any signup data.
func loadDemand(store *storage.Store, name string) (map[string]analysis.Demand, error) {
	var a demand.Analysis
	if name != "" {
		if err := store.LoadJSON(name, &a); err != nil {
			return nil, fmt.Errorf("loading demand artifact: %w", err)
		}
	} else if _, err := store.LoadLatest(demandPrefix, &a); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("no demand artifact found, scoring coverage only", nil)
			return map[string]analysis.Demand{}, nil
		}
		return nil, fmt.Errorf("loading demand artifact: %w", err)
	}

	demandMap := make(map[string]analysis.Demand, len(a.BadgeDemand))
	for badgeName, d := range a.BadgeDemand {
		demandMap[badgeName] = analysis.Demand{
			ScoutCount:       d.ScoutCount,
			InterestedScouts: d.InterestedScouts,
			IsEagleRequired:  d.IsEagleRequired,
			PriorityWeight:   d.PriorityWeight,
		}
	}
	return demandMap, nil
}

// applyExclusions runs the exclusion policy over every joined counselor,
// exactly once per run. Scoring downstream consumes the filtered list and
// never sees the rules again.
func applyExclusions(j *join.Result, rules *matcher.Ruleset) (certified []analysis.Certified, excluded, restricted int) {
	for _, c := range j.AllCounselors() {
		badges, decision := rules.FilterBadges(c.Name, c.MeritBadges)
		switch decision {
		case matcher.Exclude:
			excluded++
			continue
		case matcher.Restrict:
			restricted++
		}
		certified = append(certified, analysis.Certified{
			Ref: analysis.CounselorRef{
				Name:  c.Name,
				Email: c.Email,
				Phone: c.Phone,
				Troop: c.TroopDisplay,
			},
			Badges: badges,
		})
	}
	return certified, excluded, restricted
}
