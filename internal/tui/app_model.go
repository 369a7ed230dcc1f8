package tui

import (
	"os"
	"strings"

	"lunarlog/internal/api"
	"lunarlog/internal/model"
	"lunarlog/internal/store"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type appModel struct {
	client *api.Client
	cfg    *store.Config
	cache  *store.Cache

	user   *model.User
	online bool

	width  int
	height int

	view  view
	focus focusArea

	// Login screen.
	emailInput    textinput.Model
	passwordInput textinput.Model
	loginFocus    int
	loggingIn     bool
	loginErr      string

	// Published read state. Only the collection loader writes these, and each
	// write is a full replacement, so display code can read freely.
	projects []model.Project
	logs     []model.ObservationLog

	projectsList list.Model
	logsList     list.Model

	loadingProjects bool
	loadingLogs     bool
	spin            spinner.Model
	statusLine      string

	projectForm projectForm
	logForm     logForm

	modal       modalKind
	photoPicker filepicker.Model

	debugLogPath string
}

func newAppModel(client *api.Client, cfg *store.Config, cache *store.Cache) appModel {
	m := appModel{
		client: client,
		cfg:    cfg,
		cache:  cache,
		view:   viewBooting,
		focus:  focusLogs,
	}
	m.debugLogPath = strings.TrimSpace(os.Getenv("LUNARLOG_TUI_DEBUG_LOG"))

	// The saved session user gates UI immediately; /session/me confirms it.
	if cfg.User != nil {
		u := *cfg.User
		m.user = &u
	}

	m.emailInput = textinput.New()
	m.emailInput.Placeholder = "email"
	m.emailInput.CharLimit = 120
	m.emailInput.Width = 36
	m.emailInput.Focus()
	m.passwordInput = textinput.New()
	m.passwordInput.Placeholder = "password"
	m.passwordInput.CharLimit = 120
	m.passwordInput.Width = 36
	m.passwordInput.EchoMode = textinput.EchoPassword

	m.projectsList = newList("Projects", "project", []list.Item{})
	m.logsList = newList("Observation Logs", "log", []list.Item{})

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot

	m.projectForm = newProjectForm()
	m.logForm = newLogForm()

	m.seedFromCache(cache)
	m.refreshProjectsList()
	m.refreshLogsList()
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(healthCmd(m.client), m.spin.Tick)
}

func (m *appModel) refreshProjectsList() {
	items := make([]list.Item, 0, len(m.projects))
	for _, p := range m.projects {
		items = append(items, projectItem{project: p})
	}
	m.projectsList.SetItems(items)
}

func (m *appModel) refreshLogsList() {
	items := make([]list.Item, 0, len(m.logs))
	for _, l := range m.logs {
		items = append(items, logItem{log: l})
	}
	m.logsList.SetItems(items)
}

// projectFormVisible gates the project-creation control on role. This is
// presentation only; the backend enforces authorization on the write.
func (m appModel) projectFormVisible() bool {
	return m.user != nil && m.user.Role == model.RoleLeadScientist
}

func (m *appModel) resizeLists() {
	h := m.height - 14
	if h < 6 {
		h = 6
	}
	w := m.width / 3
	if w < 28 {
		w = 28
	}
	m.projectsList.SetSize(w, h)
	m.logsList.SetSize(w, h)
}

// Run starts the interactive dashboard.
func Run(client *api.Client, cfg *store.Config) error {
	applyColorProfilePreference()
	cache, err := store.OpenCache()
	if err != nil {
		cache = nil // degraded: no offline snapshots, dashboard still works
	}
	if cache != nil {
		defer cache.Close()
	}
	m := newAppModel(client, cfg, cache)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
