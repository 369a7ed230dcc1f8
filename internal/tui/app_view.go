package tui

import (
	"fmt"
	"math"
	"strings"

	"lunarlog/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	switch m.view {
	case viewBooting:
		return "\n  " + m.spin.View() + " Contacting lunar base…\n"
	case viewLogin:
		return m.viewLogin()
	case viewDashboard:
		if m.modal == modalPickPhoto {
			return m.viewPhotoPicker()
		}
		return m.viewDashboard()
	default:
		return ""
	}
}

func (m appModel) connectivityBadge() string {
	if m.online {
		return lipgloss.NewStyle().Foreground(colorOnline).Render("● System Online")
	}
	return lipgloss.NewStyle().Foreground(colorOffline).Render("○ Connection Lost")
}

func (m appModel) viewLogin() string {
	var b strings.Builder
	b.WriteString(styleHeader().Render("Lunar Primate Research") + "  " + m.connectivityBadge() + "\n\n")
	if !m.online {
		b.WriteString(styleMuted().Render("Backend unreachable; cached data is shown once you log in. ctrl+r to retry.") + "\n\n")
	}
	b.WriteString("  Email:    " + m.emailInput.View() + "\n")
	b.WriteString("  Password: " + m.passwordInput.View() + "\n\n")
	if m.loggingIn {
		b.WriteString("  " + m.spin.View() + " logging in…\n")
	}
	if m.loginErr != "" {
		b.WriteString("  " + styleError().Render(m.loginErr) + "\n")
	}
	b.WriteString("\n" + styleMuted().Render("enter: login  tab: switch field  ctrl+c: quit"))
	return b.String()
}

func (m appModel) viewPhotoPicker() string {
	title := styleHeader().Render("Select a subject photo") +
		styleMuted().Render("  (PNG, JPG, GIF up to 10MB)")
	return title + "\n\n" + m.photoPicker.View() + "\n\n" +
		styleMuted().Render("enter: select  esc: cancel")
}

func (m appModel) viewDashboard() string {
	who := ""
	if m.user != nil {
		who = fmt.Sprintf("Welcome, %s (%s)", m.user.Name, m.user.Role)
	}
	header := styleHeader().Render("Lunar Research Dashboard") + "  " +
		styleMuted().Render(who) + "  " + m.connectivityBadge()

	var sections []string
	sections = append(sections, header)
	if m.projectFormVisible() {
		sections = append(sections, m.renderProjectForm())
	}
	sections = append(sections, m.renderLogForm())
	sections = append(sections, m.renderCollections())

	footer := styleMuted().Render("tab: focus  enter: expand form  r: reload  ctrl+l: logout  q: quit")
	if m.statusLine != "" {
		footer = styleError().Render(m.statusLine) + "\n" + footer
	}
	sections = append(sections, footer)

	return strings.Join(sections, "\n\n")
}

func focusMarker(active bool) string {
	if active {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("› ")
	}
	return "  "
}

func fieldLabel(name string, focused bool) string {
	st := lipgloss.NewStyle()
	if focused {
		st = st.Foreground(colorAccent).Bold(true)
	}
	return focusMarker(focused) + st.Render(name+":")
}

func renderChoices[T ~string](options []T, selectedIdx int) string {
	parts := make([]string, 0, len(options))
	for i, o := range options {
		if i == selectedIdx {
			parts = append(parts, lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorAccent).
				Padding(0, 1).
				Render(string(o)))
			continue
		}
		parts = append(parts, styleMuted().Padding(0, 1).Render(string(o)))
	}
	return strings.Join(parts, " ")
}

func (m appModel) renderProjectForm() string {
	f := m.projectForm
	focused := m.focus == focusProjectForm
	if f.phase == formCollapsed {
		return focusMarker(focused) + "▸ New Project " + styleMuted().Render("(enter to expand)")
	}

	var b strings.Builder
	b.WriteString(focusMarker(focused) + styleHeader().Render("▾ New Project") + "\n")
	b.WriteString(fieldLabel("Name", f.focus == pfName) + " " + f.name.View() + "\n")
	b.WriteString(fieldLabel("Description", f.focus == pfDescription) + "\n" + f.desc.View() + "\n")
	b.WriteString(fieldLabel("Status", f.focus == pfStatus) + " " + renderChoices(model.AllProjectStatuses(), f.statusIdx) + "\n")
	if f.phase == formSubmitting {
		b.WriteString(m.spin.View() + " creating project…\n")
	}
	if f.errMsg != "" {
		b.WriteString(styleError().Render(f.errMsg) + "\n")
	}
	b.WriteString(styleMuted().Render("ctrl+s: add project  tab: next field  esc: close"))
	return stylePane().Render(b.String())
}

func (m appModel) renderLogForm() string {
	f := m.logForm
	focused := m.focus == focusLogForm
	if f.phase == formCollapsed {
		return focusMarker(focused) + "▸ New Observation Log " + styleMuted().Render("(enter to expand)")
	}

	var b strings.Builder
	b.WriteString(focusMarker(focused) + styleHeader().Render("▾ New Observation Log") + "\n")
	b.WriteString(fieldLabel("Title", f.focus == lfTitle) + " " + f.title.View() + "\n")
	b.WriteString(fieldLabel("Details", f.focus == lfDetails) + "\n" + f.details.View() + "\n")
	b.WriteString(fieldLabel("Log Type", f.focus == lfType) + " " + renderChoices(model.AllLogTypes(), f.typeIdx) + "\n")

	projectLine := f.project.label()
	if f.project.loading {
		projectLine += "  " + styleMuted().Render("(refreshing…)")
	}
	b.WriteString(fieldLabel("Project", f.focus == lfProject) + " ◂ " + projectLine + " ▸\n")

	b.WriteString(fieldLabel("Gravity m/s²", f.focus == lfGravity) + " " + f.gravity.View() +
		"  " + styleMuted().Render(formatReading(f.reading)) + "\n")
	b.WriteString(fieldLabel("Subject Photo", f.focus == lfPhoto) + " " + f.photo.summary() +
		"  " + styleMuted().Render("(enter: pick, x: clear)") + "\n")
	if f.phase == formSubmitting {
		b.WriteString(m.spin.View() + " submitting log…\n")
	}
	if f.errMsg != "" {
		b.WriteString(styleError().Render(f.errMsg) + "\n")
	}
	b.WriteString(styleMuted().Render("ctrl+s: submit log  tab: next field  esc: close"))
	return stylePane().Render(b.String())
}

// formatReading renders the parsed gravity value; the NaN sentinel (unparsable
// entry) renders as empty rather than propagating.
func formatReading(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("= %g", v)
}

func (m appModel) renderCollections() string {
	paneH := m.height - 14
	if paneH < 6 {
		paneH = 6
	}
	detailW := m.width - m.projectsList.Width() - m.logsList.Width() - 10
	if detailW < 24 {
		detailW = 24
	}

	projects := stylePane().Render(m.projectsList.View())
	logs := stylePane().Render(m.logsList.View())
	detail := stylePane().Width(detailW).Render(m.renderLogDetail(detailW - 4))
	return lipgloss.JoinHorizontal(lipgloss.Top, projects, logs, detail)
}

func (m appModel) renderLogDetail(width int) string {
	it, ok := m.logsList.SelectedItem().(logItem)
	if !ok {
		return styleMuted().Render("No log selected.")
	}
	l := it.log

	var b strings.Builder
	b.WriteString(styleHeader().Render(l.Title) + "\n")
	b.WriteString(styleMuted().Render(fmt.Sprintf("Type: %s   Gravity: %g m/s²", l.LogType, l.GravityReading)) + "\n")
	b.WriteString(styleMuted().Render("Project: "+l.Project.DisplayName()) + "\n")
	b.WriteString(styleMuted().Render("By: "+l.Observer.DisplayName()) + "\n")
	b.WriteString(styleMuted().Render("Observed: "+l.ObservationDate.Local().Format("2006-01-02 15:04")) + "\n")
	if l.SubjectPhoto != nil && l.SubjectPhoto.Thumbnail != "" {
		b.WriteString(styleMuted().Render("Photo: "+l.SubjectPhoto.Thumbnail) + "\n")
	}
	if l.Details != "" {
		b.WriteString("\n" + renderMarkdown(l.Details, width))
	}
	return b.String()
}
