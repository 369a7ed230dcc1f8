package tui

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"lunarlog/internal/api"
	"lunarlog/internal/model"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Each creation form is an independent draft with a small state machine:
//
//	collapsed -> expanded -> submitting -> collapsed (success)
//	                                    -> expanded + error (failure)
//
// Collapsing never clears the draft; only a successful submit resets it.
type formPhase int

const (
	formCollapsed formPhase = iota
	formExpanded
	formSubmitting
)

type formKind int

const (
	formProject formKind = iota
	formLog
)

type createDoneMsg struct {
	kind formKind
	err  error
}

// projectForm fields, in tab order.
const (
	pfName = iota
	pfDescription
	pfStatus
	pfFieldCount
)

type projectForm struct {
	phase     formPhase
	focus     int
	name      textinput.Model
	desc      textarea.Model
	statusIdx int
	errMsg    string
}

func newProjectForm() projectForm {
	f := projectForm{}
	f.name = textinput.New()
	f.name.Placeholder = "Project name"
	f.name.CharLimit = 120
	f.name.Width = 40
	f.desc = textarea.New()
	f.desc.Placeholder = "Description"
	f.desc.SetWidth(48)
	f.desc.SetHeight(3)
	f.desc.ShowLineNumbers = false
	f.statusIdx = 0 // Planning
	return f
}

func (f *projectForm) status() model.ProjectStatus {
	return model.AllProjectStatuses()[f.statusIdx]
}

func (f *projectForm) cycleStatus(delta int) {
	n := len(model.AllProjectStatuses())
	f.statusIdx = (f.statusIdx + delta + n) % n
}

func (f *projectForm) reset() {
	*f = newProjectForm()
}

func (f *projectForm) setFocus(i int) {
	f.focus = i
	f.name.Blur()
	f.desc.Blur()
	switch i {
	case pfName:
		f.name.Focus()
	case pfDescription:
		f.desc.Focus()
	}
}

// input builds the write payload; the lead scientist is always the acting
// session user.
func (f *projectForm) input(userID string) api.CreateProjectInput {
	return api.CreateProjectInput{
		Name:            strings.TrimSpace(f.name.Value()),
		Description:     strings.TrimSpace(f.desc.Value()),
		Status:          f.status(),
		LeadScientistID: userID,
	}
}

// logForm fields, in tab order.
const (
	lfTitle = iota
	lfDetails
	lfType
	lfProject
	lfGravity
	lfPhoto
	lfFieldCount
)

const defaultGravity = 9.8

type logForm struct {
	phase   formPhase
	focus   int
	title   textinput.Model
	details textarea.Model
	typeIdx int
	project picker
	gravity textinput.Model
	// reading mirrors the gravity input, parsed at every mutation; NaN marks
	// input that does not parse and renders as empty.
	reading float64
	photo   attachment
	errMsg  string
}

func newLogForm() logForm {
	f := logForm{}
	f.title = textinput.New()
	f.title.Placeholder = "Log title"
	f.title.CharLimit = 160
	f.title.Width = 40
	f.details = textarea.New()
	f.details.Placeholder = "Details of observation (markdown ok)"
	f.details.SetWidth(48)
	f.details.SetHeight(4)
	f.details.ShowLineNumbers = false
	f.typeIdx = 0 // Behavioral
	f.project = picker{entity: model.EntityProject}
	f.gravity = textinput.New()
	f.gravity.Placeholder = "m/s²"
	f.gravity.CharLimit = 16
	f.gravity.Width = 10
	f.gravity.SetValue(strconv.FormatFloat(defaultGravity, 'f', -1, 64))
	f.reading = defaultGravity
	return f
}

func (f *logForm) logType() model.LogType {
	return model.AllLogTypes()[f.typeIdx]
}

func (f *logForm) cycleType(delta int) {
	n := len(model.AllLogTypes())
	f.typeIdx = (f.typeIdx + delta + n) % n
}

func (f *logForm) reset() {
	next := newLogForm()
	next.project.candidates = f.project.candidates // keep the list usable until the next resolve
	*f = next
}

func (f *logForm) setFocus(i int) {
	f.focus = i
	f.title.Blur()
	f.details.Blur()
	f.gravity.Blur()
	switch i {
	case lfTitle:
		f.title.Focus()
	case lfDetails:
		f.details.Focus()
	case lfGravity:
		f.gravity.Focus()
	}
}

// parseReading converts free-text numeric entry at the point of mutation.
// Unparsable input yields NaN, which renders as an empty reading instead of
// crashing or reaching the wire.
func parseReading(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (f *logForm) syncReading() {
	f.reading = parseReading(f.gravity.Value())
}

// input builds the write payload with the implicit fields attached: observer is
// the acting session user and the observation timestamp is "now".
func (f *logForm) input(userID string, now time.Time) api.CreateLogInput {
	reading := f.reading
	if math.IsNaN(reading) {
		reading = 0
	}
	return api.CreateLogInput{
		Title:           strings.TrimSpace(f.title.Value()),
		Details:         strings.TrimSpace(f.details.Value()),
		LogType:         f.logType(),
		GravityReading:  reading,
		ObservationDate: now,
		ProjectID:       f.project.selectedID,
		ObserverID:      userID,
	}
}

func createProjectCmd(client *api.Client, input api.CreateProjectInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_, err := client.CreateProject(ctx, input)
		return createDoneMsg{kind: formProject, err: err}
	}
}

func createLogCmd(client *api.Client, input api.CreateLogInput, photo *api.PhotoUpload) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, err := client.CreateLog(ctx, input, photo)
		return createDoneMsg{kind: formLog, err: err}
	}
}
