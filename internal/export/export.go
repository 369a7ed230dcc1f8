// Package export writes observation data as markdown files, for sharing or
// archiving outside the dashboard.
package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"lunarlog/internal/model"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteReport writes the grouped report index plus one page per log under
// toDir. Existing files stop the export unless Overwrite is set.
func WriteReport(toDir string, projects []model.Project, logs []model.ObservationLog, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	logsDir := filepath.Join(toDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(toDir, "report.md")
	if err := writeFile(indexPath, []byte(RenderReportMarkdown(projects, logs)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	written := []string{indexPath}
	for _, l := range logs {
		if strings.TrimSpace(l.ID) == "" {
			continue
		}
		p := filepath.Join(logsDir, l.ID+".md")
		if err := writeFile(p, []byte(RenderLogMarkdown(l)), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
