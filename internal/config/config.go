// Package config defines pipeline configuration and its loading order.
//
// Configuration is layered with koanf: compiled defaults, then an optional
// YAML file, then MBC_-prefixed environment variables. The Eagle badge list
// and the badge alias map live here rather than in code that consumes them,
// so a council with different requirements can override both without a
// rebuild.
package config

import (
	"path/filepath"

	"github.com/scoutops/mbc-pipeline/internal/badge"
)

// Config contains pipeline configuration.
type Config struct {
	// DataDir is the root of the working tree. The pipeline reads inputs
	// from input/ and writes artifacts to processed/ and reports/.
	DataDir string `koanf:"data_dir"`

	// RosterDir overrides where roster HTML exports are searched.
	// Empty means the input directory.
	RosterDir string `koanf:"roster_dir"`

	// PagesDir overrides where saved counselor listing pages are searched.
	// Empty means counselor_pages under the input directory, keeping listing
	// pages apart from roster exports, which are also .html files.
	PagesDir string `koanf:"pages_dir"`

	// SignupGlob matches the Scout interest signup CSV export inside the
	// input directory. The newest match wins.
	SignupGlob string `koanf:"signup_glob"`

	// SupplementalFile lists MBC-only registrations ("Name, Unit" lines)
	// that do not appear on any roster. Relative paths resolve against
	// the input directory.
	SupplementalFile string `koanf:"supplemental_file"`

	// ExclusionFile holds full and selective exclusion rules applied at
	// the analyze stage. Relative paths resolve against the input directory.
	ExclusionFile string `koanf:"exclusion_file"`

	// AllBadgesFile holds the full badge universe for the coverage report.
	// Relative paths resolve against the input directory.
	AllBadgesFile string `koanf:"all_badges_file"`

	// EagleBadges is the injected Eagle-required badge list.
	EagleBadges []string `koanf:"eagle_badges"`

	// BadgeAliases maps signup-sheet badge spellings to directory spellings.
	BadgeAliases map[string]string `koanf:"badge_aliases"`

	// AdequateCoverage is the counselor count at which a badge is
	// considered adequately covered.
	AdequateCoverage int `koanf:"adequate_coverage"`

	// HighDemand is the Scout count at which an uncovered non-Eagle badge
	// escalates from MEDIUM to HIGH.
	HighDemand int `koanf:"high_demand"`

	// EagleMultiplier weights priority scores for Eagle-required badges.
	EagleMultiplier float64 `koanf:"eagle_multiplier"`

	// DriveFolderID is the Google Drive folder that receives report uploads.
	DriveFolderID string `koanf:"drive_folder_id"`

	// DriveCredentials is the path to a service-account JSON key file.
	DriveCredentials string `koanf:"drive_credentials"`

	// SealPassphrase, when set, encrypts the counselor directory artifact
	// at rest. Set it through MBC_SEAL_PASSPHRASE rather than a file.
	SealPassphrase string `koanf:"seal_passphrase"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoder: console or json.
	LogFormat string `koanf:"log_format"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		DataDir:          "data",
		SignupGlob:       "Scout Requested Merit Badges*.csv",
		SupplementalFile: "unit_associated_mbcs.txt",
		ExclusionFile:    "mbc_exclusions.txt",
		AllBadgesFile:    "all_merit_badges.txt",
		EagleBadges:      badge.DefaultEagleBadges(),
		BadgeAliases:     badge.DefaultAliases(),
		AdequateCoverage: 3,
		HighDemand:       3,
		EagleMultiplier:  1.5,
		LogLevel:         "info",
		LogFormat:        "console",
	}
}

// InputDir returns the directory holding roster, signup, and rule inputs.
func (c *Config) InputDir() string {
	return filepath.Join(c.DataDir, "input")
}

// ProcessedDir returns the directory holding pipeline JSON artifacts.
func (c *Config) ProcessedDir() string {
	return filepath.Join(c.DataDir, "processed")
}

// ReportsDir returns the directory holding generated report directories.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.DataDir, "reports")
}

// RosterSearchDir returns where roster exports are looked for.
func (c *Config) RosterSearchDir() string {
	if c.RosterDir != "" {
		return c.RosterDir
	}
	return c.InputDir()
}

// PagesSearchDir returns where counselor listing pages are looked for.
func (c *Config) PagesSearchDir() string {
	if c.PagesDir != "" {
		return c.PagesDir
	}
	return filepath.Join(c.InputDir(), "counselor_pages")
}

// InputPath resolves a configured input file against the input directory.
// Absolute paths pass through unchanged.
func (c *Config) InputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.InputDir(), name)
}
