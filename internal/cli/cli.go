package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scoutops/mbc-pipeline/internal/config"
	"github.com/scoutops/mbc-pipeline/internal/crypto"
	"github.com/scoutops/mbc-pipeline/internal/logger"
	"github.com/scoutops/mbc-pipeline/internal/storage"
)

const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitCriticalGaps = 2
)

var (
	flagConfig    string
	flagDataDir   string
	flagVerbose   bool
	flagLogFormat string
)

// NewRootCmd creates the root command with one subcommand per pipeline stage.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mbc-pipeline",
		Short: "Merit Badge Counselor coverage pipeline",
		Long: `Processes unit roster exports, counselor listing pages, and Scout
interest signups into coverage-gap analysis and committee reports.

Stages run independently and hand data to each other through JSON
artifacts in the data directory; "run" chains them all.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (YAML); MBC_CONFIG also works")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (overrides config)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: console or json (overrides config)")

	cmd.AddCommand(newCounselorsCmd())
	cmd.AddCommand(newRosterCmd())
	cmd.AddCommand(newDemandCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newRunCmd())

	return cmd
}

// setup resolves config, initializes logging, and opens the data directory.
// Every subcommand starts here.
func setup() (*config.Config, *storage.Store, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}

	level := logger.Level(cfg.LogLevel)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.Init(level, cfg.LogFormat)

	var enc *crypto.Encryptor
	if cfg.SealPassphrase != "" {
		enc = crypto.NewEncryptor(cfg.SealPassphrase)
	}

	store, err := storage.New(cfg.DataDir, enc)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return cfg, store, nil
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
