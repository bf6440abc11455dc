package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoutops/mbc-pipeline/internal/config"
	"github.com/scoutops/mbc-pipeline/internal/counselor"
	"github.com/scoutops/mbc-pipeline/internal/logger"
	"github.com/scoutops/mbc-pipeline/internal/storage"
)

// directoryArtifact is the stable name of the counselor directory artifact.
// It goes through the sealed path because it carries contact details.
const directoryArtifact = "mbc_counselors.json"

var flagPagesDir string

func newCounselorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counselors",
		Short: "Parse saved counselor listing pages into the directory artifact",
		Long: `Extracts Merit Badge Counselor records from saved ScoutBook listing
pages (HTML exports) and writes the counselor directory artifact.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := setup()
			if err != nil {
				return err
			}
			_, err = stageCounselors(cfg, store)
			return err
		},
	}
	cmd.Flags().StringVar(&flagPagesDir, "pages-dir", "", "Directory of saved listing pages (overrides config)")
	return cmd
}

func stageCounselors(cfg *config.Config, store *storage.Store) (*counselor.Directory, error) {
	pagesDir := cfg.PagesSearchDir()
	if flagPagesDir != "" {
		pagesDir = flagPagesDir
	}

	records, err := counselor.ParseDir(pagesDir)
	if err != nil {
		return nil, fmt.Errorf("parsing counselor pages: %w", err)
	}

	dir := counselor.NewDirectory(records, pagesDir)
	path, err := store.SaveSealed(directoryArtifact, &dir)
	if err != nil {
		return nil, fmt.Errorf("saving counselor directory: %w", err)
	}

	logger.Info("counselor directory written", logger.Fields{
		"counselors": len(dir.Counselors),
		"source":     pagesDir,
		"artifact":   path,
	})
	logger.SetGauge("counselors_extracted", float64(len(dir.Counselors)))
	return &dir, nil
}

// loadDirectory reads the counselor directory artifact written by the
// counselors stage.
func loadDirectory(store *storage.Store) (*counselor.Directory, error) {
	var dir counselor.Directory
	if err := store.LoadSealed(directoryArtifact, &dir); err != nil {
		return nil, fmt.Errorf("loading counselor directory (run \"counselors\" first): %w", err)
	}
	return &dir, nil
}
