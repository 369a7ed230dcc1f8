package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"lunarlog/internal/model"
)

// RenderLogMarkdown renders a single observation log as a standalone page.
// Missing relations render as N/A; a log whose project was deleted is still a
// valid log.
func RenderLogMarkdown(l model.ObservationLog) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(l.Title))
	writeLn("")
	writeLn("- Type: " + string(l.LogType))
	writeLn(fmt.Sprintf("- Gravity: %g m/s²", l.GravityReading))
	writeLn("- Project: " + l.Project.DisplayName())
	writeLn("- Observer: " + l.Observer.DisplayName())
	writeLn("- Observed: " + l.ObservationDate.UTC().Format("2006-01-02 15:04 MST"))
	if l.SubjectPhoto != nil && l.SubjectPhoto.URL != "" {
		writeLn("- Photo: " + l.SubjectPhoto.URL)
	}

	if d := strings.TrimSpace(l.Details); d != "" {
		writeLn("")
		writeLn(d)
	}
	return buf.String()
}

// RenderReportMarkdown renders the index page: every log grouped under its
// project, most recent observation first within each group. Logs without a
// resolvable project collect under an N/A group at the end.
func RenderReportMarkdown(projects []model.Project, logs []model.ObservationLog) string {
	grouped := make(map[string][]model.ObservationLog)
	for _, l := range logs {
		grouped[l.Project.DisplayName()] = append(grouped[l.Project.DisplayName()], l)
	}
	for _, group := range grouped {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].ObservationDate.After(group[j].ObservationDate)
		})
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		if name != model.NotApplicable {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := grouped[model.NotApplicable]; ok {
		names = append(names, model.NotApplicable)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# Observation Report")
	writeLn("")
	writeLn(fmt.Sprintf("%d projects, %d logs.", len(projects), len(logs)))
	for _, name := range names {
		writeLn("")
		writeLn("## " + name)
		writeLn("")
		for _, l := range grouped[name] {
			writeLn(fmt.Sprintf("- %s — %s, %g m/s² (%s, by %s)",
				l.ObservationDate.UTC().Format("2006-01-02"),
				strings.TrimSpace(l.Title),
				l.GravityReading,
				l.LogType,
				l.Observer.DisplayName()))
		}
	}
	return buf.String()
}
