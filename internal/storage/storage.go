package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/scoutops/mbc-pipeline/internal/crypto"
)

// timestampLayout names timestamped artifacts, e.g.
// scout_demand_analysis_20260314_091500.json.
const timestampLayout = "20060102_150405"

// Store manages the pipeline data directory:
//
//	input/     saved counselor pages, rosters, signup sheets, rule files
//	processed/ JSON artifacts produced by pipeline stages
//	reports/   rendered report bundles
type Store struct {
	dataDir string
	enc     *crypto.Encryptor
}

// New creates the data directory layout. A nil encryptor means artifacts
// are written unsealed.
func New(dataDir string, enc *crypto.Encryptor) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	for _, dir := range []string{dataDir, filepath.Join(dataDir, "input"), filepath.Join(dataDir, "processed"), filepath.Join(dataDir, "reports")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	return &Store{
		dataDir: dataDir,
		enc:     enc,
	}, nil
}

// InputDir returns the directory holding raw pipeline inputs.
func (s *Store) InputDir() string {
	return filepath.Join(s.dataDir, "input")
}

// ProcessedDir returns the directory holding JSON artifacts.
func (s *Store) ProcessedDir() string {
	return filepath.Join(s.dataDir, "processed")
}

// ReportsDir returns the directory holding rendered reports.
func (s *Store) ReportsDir() string {
	return filepath.Join(s.dataDir, "reports")
}

// SaveJSON writes v as indented JSON under processed/ and returns the path.
func (s *Store) SaveJSON(name string, v interface{}) (string, error) {
	path := filepath.Join(s.ProcessedDir(), name)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

// SaveTimestamped writes v under processed/ as {prefix}_{timestamp}.json and
// returns the path.
func (s *Store) SaveTimestamped(prefix string, v interface{}) (string, error) {
	name := fmt.Sprintf("%s_%s.json", prefix, time.Now().Format(timestampLayout))
	return s.SaveJSON(name, v)
}

// LoadJSON reads processed/{name} into v.
func (s *Store) LoadJSON(name string, v interface{}) error {
	path := filepath.Join(s.ProcessedDir(), name)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// LoadLatest decodes the newest processed/{prefix}_*.json artifact into v
// and returns its filename. os.IsNotExist reports a missing artifact.
func (s *Store) LoadLatest(prefix string, v interface{}) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.ProcessedDir(), prefix+"_*.json"))
	if err != nil {
		return "", fmt.Errorf("listing %s artifacts: %w", prefix, err)
	}
	if len(matches) == 0 {
		return "", os.ErrNotExist
	}

	sort.Slice(matches, func(i, j int) bool {
		return modTime(matches[i]).After(modTime(matches[j]))
	})
	newest := matches[0]

	data, err := os.ReadFile(newest)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filepath.Base(newest), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return "", fmt.Errorf("parsing %s: %w", filepath.Base(newest), err)
	}
	return filepath.Base(newest), nil
}

// SaveSealed writes v under processed/, encrypting the JSON when an
// encryptor is configured. The counselor directory carries contact details
// and goes through this path.
func (s *Store) SaveSealed(name string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}

	sealed, err := s.enc.Encrypt(string(data))
	if err != nil {
		return "", fmt.Errorf("sealing %s: %w", name, err)
	}

	path := filepath.Join(s.ProcessedDir(), name)
	if err := os.WriteFile(path, []byte(sealed), 0600); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

// LoadSealed reads processed/{name}, opening the envelope when an encryptor
// is configured. Unsealed artifacts load either way.
func (s *Store) LoadSealed(name string, v interface{}) error {
	path := filepath.Join(s.ProcessedDir(), name)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	opened, err := s.enc.Decrypt(string(data))
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}

	if !json.Valid([]byte(opened)) {
		if s.enc == nil {
			return fmt.Errorf("%s is sealed; configure the seal passphrase to read it", name)
		}
		return fmt.Errorf("%s cannot be opened; wrong seal passphrase", name)
	}
	if err := json.Unmarshal([]byte(opened), v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// WriteReport writes rendered report content under reports/{subdir}.
// An empty subdir writes directly into reports/.
func (s *Store) WriteReport(subdir, name string, data []byte) (string, error) {
	dir := s.ReportsDir()
	if subdir != "" {
		dir = filepath.Join(dir, subdir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating report directory: %w", err)
		}
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
