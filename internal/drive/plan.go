package drive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Report directories and timestamped report files share a run stamp,
// e.g. T32_T7012_MBC_Reports_20250920_143005.
var (
	reportDirPattern = regexp.MustCompile(`_MBC_Reports_(\d{8}_\d{6})$`)
	timestampSuffix  = regexp.MustCompile(`_\d{8}_\d{6}(\.[A-Za-z0-9]+)$`)
)

// File pairs a local report file with the name it keeps on Drive.
type File struct {
	LocalName  string
	RemoteName string
}

// Plan lists the files of one report run in upload order.
type Plan struct {
	Dir   string
	Files []File
}

// LatestReportDir returns the newest report run under reportsDir, ranked by
// the timestamp embedded in the directory name. Directories that do not
// match the report naming scheme are ignored.
func LatestReportDir(reportsDir string) (string, error) {
	entries, err := os.ReadDir(reportsDir)
	if err != nil {
		return "", fmt.Errorf("reading reports directory: %w", err)
	}

	var latestName string
	var latestStamp time.Time
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		match := reportDirPattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		stamp, err := time.Parse("20060102_150405", match[1])
		if err != nil {
			continue
		}
		if latestName == "" || stamp.After(latestStamp) {
			latestName = entry.Name()
			latestStamp = stamp
		}
	}

	if latestName == "" {
		return "", fmt.Errorf("no report directories found in %s", reportsDir)
	}
	return filepath.Join(reportsDir, latestName), nil
}

// BuildPlan finds the newest report run and maps each of its files to a
// standardized remote name.
func BuildPlan(reportsDir string) (*Plan, error) {
	dir, err := LatestReportDir(reportsDir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading report directory: %w", err)
	}

	plan := &Plan{Dir: dir}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		plan.Files = append(plan.Files, File{
			LocalName:  entry.Name(),
			RemoteName: standardName(entry.Name()),
		})
	}

	if len(plan.Files) == 0 {
		return nil, fmt.Errorf("no report files found in %s", dir)
	}
	return plan, nil
}

// standardName strips the run timestamp from a report filename, so
// "T32_MBC_Coverage_Report_20250920_143005.html" uploads as
// "T32_MBC_Coverage_Report.html". Stable names pass through unchanged.
func standardName(name string) string {
	return timestampSuffix.ReplaceAllString(name, "$1")
}

// RemoteFolder returns the stable Drive folder name for this run's files:
// the report directory name with its run stamp removed. Successive runs land
// in the same folder, so standardized names replace the previous upload.
func (p *Plan) RemoteFolder() string {
	return reportDirPattern.ReplaceAllString(filepath.Base(p.Dir), "_MBC_Reports")
}
