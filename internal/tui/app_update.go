package tui

import (
	"context"
	"os"
	"strings"
	"time"

	"lunarlog/internal/store"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		if m.modal == modalPickPhoto {
			m.photoPicker.Height = photoPickerHeight(m.height)
		}
		return m, nil

	case spinner.TickMsg:
		if m.anythingPending() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case healthMsg:
		m.online = msg.online
		if m.view == viewBooting {
			if m.online {
				return m, sessionCmd(m.client)
			}
			// Backend unreachable: no session recovery is attempted; fall back
			// to the unauthenticated view with the previous (cached) data kept.
			m.view = viewLogin
		}
		return m, nil

	case sessionMsg:
		if m.view != viewBooting && m.view != viewDashboard {
			return m, nil
		}
		if msg.err != nil {
			m.view = viewLogin
			return m, nil
		}
		user := msg.user
		m.user = &user
		m.persistSessionUser()
		m.view = viewDashboard
		reload := m.startReload()
		return m, reload

	case loginDoneMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.loginErr = msg.err.Error()
			return m, nil
		}
		user := msg.resp.User
		m.user = &user
		m.loginErr = ""
		m.cfg.Token = msg.resp.Token
		m.cfg.BackendURL = m.client.BaseURL()
		m.persistSessionUser()
		m.view = viewDashboard
		reload := m.startReload()
		return m, reload

	case projectsLoadedMsg:
		m.loadingProjects = false
		if msg.err != nil {
			m.statusLine = "projects: " + msg.err.Error()
			return m, nil
		}
		m.projects = msg.projects
		m.refreshProjectsList()
		m.snapshotProjects()
		return m, nil

	case logsLoadedMsg:
		m.loadingLogs = false
		if msg.err != nil {
			m.statusLine = "logs: " + msg.err.Error()
			return m, nil
		}
		m.logs = msg.logs
		m.refreshLogsList()
		m.snapshotLogs()
		return m, nil

	case candidatesMsg:
		m.logForm.project.apply(msg)
		return m, nil

	case photoPayloadMsg:
		preview := m.logForm.photo.applyPayload(msg)
		return m, preview

	case photoPreviewMsg:
		m.logForm.photo.applyPreview(msg)
		return m, nil

	case createDoneMsg:
		return m.applyCreateDone(msg)
	}

	if m.modal == modalPickPhoto {
		return m.updatePhotoPicker(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		m.debugLogf("key view=%d focus=%d str=%q", m.view, m.focus, key.String())
		switch m.view {
		case viewLogin:
			return m.updateLogin(key)
		case viewDashboard:
			return m.updateDashboard(key)
		}
	}
	return m, nil
}

func (m appModel) anythingPending() bool {
	return m.view == viewBooting || m.loggingIn ||
		m.loadingProjects || m.loadingLogs ||
		m.projectForm.phase == formSubmitting || m.logForm.phase == formSubmitting
}

// startReload kicks the collection loader and marks both collections pending.
func (m *appModel) startReload() tea.Cmd {
	m.loadingProjects = true
	m.loadingLogs = true
	return loadCollectionsCmd(m.client)
}

func (m *appModel) persistSessionUser() {
	if m.user != nil {
		u := *m.user
		m.cfg.User = &u
	}
	_ = store.SaveConfig(m.cfg)
}

func (m appModel) applyCreateDone(msg createDoneMsg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case formProject:
		if msg.err != nil {
			// Draft untouched; the backend's message is shown verbatim and the
			// form stays open for correction and resubmission.
			m.projectForm.phase = formExpanded
			m.projectForm.errMsg = msg.err.Error()
			return m, nil
		}
		m.projectForm.reset()
		m.statusLine = "project created"
	case formLog:
		if msg.err != nil {
			m.logForm.phase = formExpanded
			m.logForm.errMsg = msg.err.Error()
			return m, nil
		}
		m.logForm.reset()
		m.statusLine = "observation log created"
	}
	// Read-after-write: re-derive truth from the backend rather than patching
	// the published collections locally.
	reload := m.startReload()
	return m, reload
}

func (m appModel) updatePhotoPicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "ctrl+c":
			m.modal = modalNone
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.photoPicker, cmd = m.photoPicker.Update(msg)
	if ok, path := m.photoPicker.DidSelectFile(msg); ok {
		m.modal = modalNone
		return m, capturePhotoCmd(path)
	}
	return m, cmd
}

func (m appModel) updateLogin(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+r":
		// Re-probe connectivity without restarting.
		return m, healthCmd(m.client)
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.emailInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.emailInput.Blur()
			m.passwordInput.Focus()
		}
		return m, nil
	case "enter":
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()
		if m.loginFocus == 0 && password == "" {
			m.loginFocus = 1
			m.emailInput.Blur()
			m.passwordInput.Focus()
			return m, nil
		}
		if email == "" {
			m.loginErr = "email is required"
			return m, nil
		}
		m.loggingIn = true
		m.loginErr = ""
		return m, tea.Batch(loginCmd(m.client, email, password), m.spin.Tick)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.emailInput, cmd = m.emailInput.Update(key)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(key)
	}
	return m, cmd
}

func (m appModel) updateDashboard(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An expanded form captures the keyboard until collapsed or submitted.
	if m.focus == focusProjectForm && m.projectForm.phase != formCollapsed {
		return m.updateProjectForm(key)
	}
	if m.focus == focusLogForm && m.logForm.phase != formCollapsed {
		return m.updateLogForm(key)
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.focus = m.nextFocus(m.focus, 1)
		return m, nil
	case "shift+tab":
		m.focus = m.nextFocus(m.focus, -1)
		return m, nil
	case "r":
		cmd := m.startReload()
		return m, cmd
	case "ctrl+l":
		return m.logout()
	case "enter", " ":
		switch m.focus {
		case focusLogForm:
			return m.expandLogForm()
		case focusProjectForm:
			if m.projectFormVisible() {
				m.projectForm.phase = formExpanded
				m.projectForm.setFocus(pfName)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusProjects:
		m.projectsList, cmd = m.projectsList.Update(key)
	case focusLogs:
		m.logsList, cmd = m.logsList.Update(key)
	}
	return m, cmd
}

// nextFocus cycles panes, skipping the project form for non-lead users.
func (m appModel) nextFocus(cur focusArea, dir int) focusArea {
	order := []focusArea{focusLogs, focusProjects, focusLogForm}
	if m.projectFormVisible() {
		order = append(order, focusProjectForm)
	}
	idx := 0
	for i, f := range order {
		if f == cur {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(order)) % len(order)
	return order[idx]
}

func (m appModel) logout() (tea.Model, tea.Cmd) {
	client := m.client
	m.cfg.ClearSession()
	_ = store.SaveConfig(m.cfg)
	m.user = nil
	m.view = viewLogin
	m.loginErr = ""
	// Best-effort server-side logout; the local session is already gone.
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Logout(ctx)
		return nil
	}
}

func (m appModel) expandLogForm() (tea.Model, tea.Cmd) {
	m.logForm.phase = formExpanded
	m.logForm.setFocus(lfTitle)
	m.logForm.project.loading = true
	return m, resolveCmd(m.client, m.logForm.project.entity)
}

func (m appModel) updateProjectForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.projectForm
	if f.phase == formSubmitting {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		// Collapse keeps the draft; only a successful submit clears it.
		f.phase = formCollapsed
		return m, nil
	case "tab":
		f.setFocus((f.focus + 1) % pfFieldCount)
		return m, nil
	case "shift+tab":
		f.setFocus((f.focus - 1 + pfFieldCount) % pfFieldCount)
		return m, nil
	case "ctrl+s":
		if strings.TrimSpace(f.name.Value()) == "" {
			f.errMsg = "project name is required"
			return m, nil
		}
		f.phase = formSubmitting
		f.errMsg = ""
		return m, tea.Batch(createProjectCmd(m.client, f.input(m.user.ID)), m.spin.Tick)
	}

	if f.focus == pfStatus {
		switch key.String() {
		case "left", "h":
			f.cycleStatus(-1)
			return m, nil
		case "right", "l", " ":
			f.cycleStatus(1)
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case pfName:
		f.name, cmd = f.name.Update(key)
	case pfDescription:
		f.desc, cmd = f.desc.Update(key)
	}
	return m, cmd
}

func (m appModel) updateLogForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.logForm
	if f.phase == formSubmitting {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		f.phase = formCollapsed
		return m, nil
	case "tab":
		f.setFocus((f.focus + 1) % lfFieldCount)
		return m, nil
	case "shift+tab":
		f.setFocus((f.focus - 1 + lfFieldCount) % lfFieldCount)
		return m, nil
	case "ctrl+s":
		if strings.TrimSpace(f.title.Value()) == "" {
			f.errMsg = "log title is required"
			return m, nil
		}
		f.phase = formSubmitting
		f.errMsg = ""
		input := f.input(m.user.ID, time.Now().UTC())
		return m, tea.Batch(createLogCmd(m.client, input, f.photo.upload()), m.spin.Tick)
	}

	switch f.focus {
	case lfType:
		switch key.String() {
		case "left", "h":
			f.cycleType(-1)
		case "right", "l", " ":
			f.cycleType(1)
		}
		return m, nil
	case lfProject:
		switch key.String() {
		case "left", "h":
			f.project.selectPrev()
		case "right", "l", " ":
			f.project.selectNext()
		default:
			return m, nil
		}
		// Selection changed: re-resolve so the candidate list stays fresh.
		f.project.loading = true
		return m, resolveCmd(m.client, f.project.entity)
	case lfPhoto:
		switch key.String() {
		case "enter":
			cmd := m.openPhotoPicker()
			return m, cmd
		case "x", "delete", "backspace":
			f.photo.clear()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case lfTitle:
		f.title, cmd = f.title.Update(key)
	case lfDetails:
		f.details, cmd = f.details.Update(key)
	case lfGravity:
		f.gravity, cmd = f.gravity.Update(key)
		// Numeric entry is parsed at the point of mutation, not at submit.
		f.syncReading()
	}
	return m, cmd
}

func photoPickerHeight(screenH int) int {
	h := screenH - 12
	if h < 8 {
		h = 8
	}
	if h > 18 {
		h = 18
	}
	return h
}

func (m *appModel) openPhotoPicker() tea.Cmd {
	fp := filepicker.New()
	// Accepted types are advertised in the modal title, not enforced here;
	// validation belongs to the backend.
	fp.AllowedTypes = nil
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.ShowHidden = false
	fp.ShowSize = true
	fp.AutoHeight = false
	fp.Height = photoPickerHeight(m.height)
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}
	m.photoPicker = fp
	m.modal = modalPickPhoto
	return fp.Init()
}
