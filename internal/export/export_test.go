package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lunarlog/internal/model"
)

func TestRenderLogMarkdown_MissingRelationsRenderNA(t *testing.T) {
	t.Parallel()

	l := model.ObservationLog{
		ID:              "log-1",
		Title:           "Solo observation",
		LogType:         model.LogBehavioral,
		GravityReading:  1.62,
		ObservationDate: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
	}

	md := RenderLogMarkdown(l)
	if !strings.Contains(md, "# Solo observation") {
		t.Fatalf("missing title heading:\n%s", md)
	}
	if !strings.Contains(md, "- Project: N/A") {
		t.Fatalf("missing N/A project line:\n%s", md)
	}
	if !strings.Contains(md, "- Observer: N/A") {
		t.Fatalf("missing N/A observer line:\n%s", md)
	}
	if !strings.Contains(md, "1.62 m/s²") {
		t.Fatalf("missing gravity line:\n%s", md)
	}
}

func TestRenderReportMarkdown_GroupsByProjectWithOrphansLast(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	projects := []model.Project{
		{ID: "p-1", Name: "Zeta Crater", Status: model.StatusActive},
		{ID: "p-2", Name: "Apex Station", Status: model.StatusPlanning},
	}
	logs := []model.ObservationLog{
		{ID: "l-1", Title: "In Zeta", ObservationDate: now, Project: &projects[0]},
		{ID: "l-2", Title: "In Apex", ObservationDate: now, Project: &projects[1]},
		{ID: "l-3", Title: "Orphan", ObservationDate: now},
	}

	md := RenderReportMarkdown(projects, logs)
	apex := strings.Index(md, "## Apex Station")
	zeta := strings.Index(md, "## Zeta Crater")
	na := strings.Index(md, "## N/A")
	if apex < 0 || zeta < 0 || na < 0 {
		t.Fatalf("missing group headings:\n%s", md)
	}
	if !(apex < zeta && zeta < na) {
		t.Fatalf("expected sorted groups with N/A last (apex=%d zeta=%d na=%d)", apex, zeta, na)
	}
	if !strings.Contains(md, "2 projects, 3 logs.") {
		t.Fatalf("missing summary line:\n%s", md)
	}
}

func TestWriteReport_RefusesOverwriteWithoutFlag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logs := []model.ObservationLog{{ID: "l-1", Title: "One", ObservationDate: time.Now()}}

	res, err := WriteReport(dir, nil, logs, WriteOptions{})
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	if len(res.Written) != 2 {
		t.Fatalf("expected report + 1 log page, got %v", res.Written)
	}
	if _, err := os.Stat(filepath.Join(dir, "logs", "l-1.md")); err != nil {
		t.Fatalf("missing log page: %v", err)
	}

	if _, err := WriteReport(dir, nil, logs, WriteOptions{}); err == nil {
		t.Fatalf("expected exists error without overwrite")
	}
	if _, err := WriteReport(dir, nil, logs, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}
