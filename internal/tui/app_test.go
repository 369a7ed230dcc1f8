package tui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lunarlog/internal/api"
	"lunarlog/internal/model"
	"lunarlog/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T, backendURL string, role model.Role) appModel {
	t.Helper()
	t.Setenv("LUNARLOG_CONFIG_DIR", t.TempDir())

	client, err := api.New(backendURL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	cfg := &store.Config{
		BackendURL: backendURL,
		Token:      "tok",
		User:       &model.User{ID: "u-1", Name: "Dana", Role: role},
	}
	m := newAppModel(client, cfg, nil)
	m.view = viewDashboard
	m.online = true
	m.width = 120
	m.height = 40
	m.resizeLists()
	return m
}

func asApp(t *testing.T, m tea.Model) appModel {
	t.Helper()
	app, ok := m.(appModel)
	if !ok {
		t.Fatalf("expected appModel, got %T", m)
	}
	return app
}

// drainCmd executes a command tree and returns the produced messages.
func drainCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drainCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestDashboard_ResearcherHasNoProjectForm(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1", model.RoleResearcher)

	if m.projectFormVisible() {
		t.Fatalf("researcher must not see the project form")
	}
	out := m.viewDashboard()
	if strings.Contains(out, "New Project") {
		t.Fatalf("project form rendered for researcher")
	}
	if !strings.Contains(out, "New Observation Log") {
		t.Fatalf("log form missing from dashboard")
	}

	// Focus cycling never lands on the hidden form.
	f := focusLogs
	for i := 0; i < 6; i++ {
		f = m.nextFocus(f, 1)
		if f == focusProjectForm {
			t.Fatalf("focus cycled onto hidden project form")
		}
	}
}

func TestDashboard_LeadScientistSeesProjectForm(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1", model.RoleLeadScientist)

	if !m.projectFormVisible() {
		t.Fatalf("lead scientist must see the project form")
	}
	if !strings.Contains(m.viewDashboard(), "New Project") {
		t.Fatalf("project form not rendered for lead scientist")
	}

	f := focusLogs
	seen := false
	for i := 0; i < 4; i++ {
		f = m.nextFocus(f, 1)
		seen = seen || f == focusProjectForm
	}
	if !seen {
		t.Fatalf("focus cycle should include the project form")
	}
}

func TestLogDetail_MissingRelationsRenderNA(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1", model.RoleResearcher)
	m.logs = []model.ObservationLog{{
		ID:              "l-1",
		Title:           "Solo observation",
		LogType:         model.LogBehavioral,
		GravityReading:  1.62,
		ObservationDate: time.Now(),
		// Project and Observer left nil: deleted or never linked.
	}}
	m.refreshLogsList()

	out := m.renderLogDetail(60)
	if !strings.Contains(out, "Project: "+model.NotApplicable) {
		t.Fatalf("expected Project: N/A, got:\n%s", out)
	}
	if !strings.Contains(out, "By: "+model.NotApplicable) {
		t.Fatalf("expected By: N/A, got:\n%s", out)
	}
}

func TestLoadError_KeepsPublishedCollections(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1", model.RoleResearcher)
	m.logs = []model.ObservationLog{{ID: "l-1", Title: "kept"}}
	m.refreshLogsList()
	m.loadingLogs = true

	next, _ := m.Update(logsLoadedMsg{err: errors.New("backend gone")})
	m2 := asApp(t, next)

	if m2.loadingLogs {
		t.Fatalf("loading flag should clear on error")
	}
	if len(m2.logs) != 1 || m2.logs[0].Title != "kept" {
		t.Fatalf("published logs must survive a failed load, got %v", m2.logs)
	}
	if !strings.Contains(m2.statusLine, "backend gone") {
		t.Fatalf("expected error in status line, got %q", m2.statusLine)
	}
}

func TestCreateDone_ErrorKeepsDraftAndShowsMessageVerbatim(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1", model.RoleResearcher)
	m.logForm.phase = formSubmitting
	m.logForm.title.SetValue("my draft")

	next, cmd := m.Update(createDoneMsg{kind: formLog, err: errors.New("Gravity reading out of range")})
	m2 := asApp(t, next)

	if m2.logForm.phase != formExpanded {
		t.Fatalf("form must reopen on failure, phase=%d", m2.logForm.phase)
	}
	if m2.logForm.errMsg != "Gravity reading out of range" {
		t.Fatalf("backend message must be shown verbatim, got %q", m2.logForm.errMsg)
	}
	if m2.logForm.title.Value() != "my draft" {
		t.Fatalf("draft must survive a failed submit")
	}
	if cmd != nil {
		t.Fatalf("no reload on failed create")
	}
}

func TestCreateDone_SuccessResetsFormAndReloads(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1", model.RoleResearcher)
	m.logForm.phase = formSubmitting
	m.logForm.title.SetValue("done soon")

	next, cmd := m.Update(createDoneMsg{kind: formLog})
	m2 := asApp(t, next)

	if m2.logForm.phase != formCollapsed {
		t.Fatalf("form must collapse on success, phase=%d", m2.logForm.phase)
	}
	if m2.logForm.title.Value() != "" {
		t.Fatalf("draft must clear on success")
	}
	if !m2.loadingProjects || !m2.loadingLogs {
		t.Fatalf("success must trigger a full reload")
	}
	if cmd == nil {
		t.Fatalf("expected reload command")
	}
}

func TestBoot_OfflineFallsBackToLogin(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1", model.RoleResearcher)
	m.view = viewBooting

	next, cmd := m.Update(healthMsg{online: false})
	m2 := asApp(t, next)

	if m2.view != viewLogin {
		t.Fatalf("offline boot must land on login, got view=%d", m2.view)
	}
	// No session recovery is attempted while unreachable.
	if cmd != nil {
		t.Fatalf("expected no follow-up command while offline")
	}
}

func TestSessionRecovery_EntersDashboardAndReloads(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1", model.RoleResearcher)
	m.view = viewBooting

	next, cmd := m.Update(sessionMsg{user: model.User{ID: "u-9", Name: "Riley", Role: model.RoleLeadScientist}})
	m2 := asApp(t, next)

	if m2.view != viewDashboard {
		t.Fatalf("expected dashboard after session recovery")
	}
	if m2.user == nil || m2.user.ID != "u-9" {
		t.Fatalf("expected confirmed session user, got %+v", m2.user)
	}
	if m2.cfg.User == nil || m2.cfg.User.ID != "u-9" {
		t.Fatalf("confirmed user must be persisted to config")
	}
	if cmd == nil || !m2.loadingProjects || !m2.loadingLogs {
		t.Fatalf("expected collection reload after recovery")
	}
}

func TestPhotoPickerModal_OpensAndCancels(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1", model.RoleResearcher)
	m.focus = focusLogForm
	m.logForm.phase = formExpanded
	m.logForm.setFocus(lfPhoto)

	next, _ := m.updateLogForm(tea.KeyMsg{Type: tea.KeyEnter})
	m2 := asApp(t, next)
	if m2.modal != modalPickPhoto {
		t.Fatalf("expected photo picker modal")
	}

	next, _ = m2.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m3 := asApp(t, next)
	if m3.modal != modalNone {
		t.Fatalf("esc must close the modal")
	}
	if m3.logForm.phase != formExpanded {
		t.Fatalf("cancel must return to the open form")
	}
}

func TestSubmitLog_SendsSessionObserverThenReloads(t *testing.T) {
	var posted struct {
		ObserverID     string  `json:"observerId"`
		Title          string  `json:"title"`
		GravityReading float64 `json:"gravityReading"`
	}
	lists := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/collections/ObservationLog":
			if err := json.NewDecoder(r.Body).Decode(&posted); err != nil {
				t.Errorf("decode create body: %v", err)
			}
			w.Write([]byte(`{"id":"l-new"}`))
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/collections/"):
			lists++
			w.Write([]byte(`{"data":[{"id":"p-1","name":"Apex Station"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := newTestModel(t, srv.URL, model.RoleResearcher)
	m.focus = focusLogForm

	// Expanding resolves the project candidates.
	next, cmd := m.updateDashboard(tea.KeyMsg{Type: tea.KeyEnter})
	m = asApp(t, next)
	for _, msg := range drainCmd(cmd) {
		next, _ = m.Update(msg)
		m = asApp(t, next)
	}
	if len(m.logForm.project.candidates) != 1 {
		t.Fatalf("expected resolved candidates, got %v", m.logForm.project.candidates)
	}

	m.logForm.title.SetValue("Lunar gravity check")
	m.logForm.gravity.SetValue("1.62")
	m.logForm.syncReading()
	m.logForm.project.selectedID = "p-1"

	next, cmd = m.updateLogForm(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = asApp(t, next)
	if m.logForm.phase != formSubmitting {
		t.Fatalf("expected submitting phase")
	}

	var done *createDoneMsg
	for _, msg := range drainCmd(cmd) {
		if d, ok := msg.(createDoneMsg); ok {
			done = &d
		}
	}
	if done == nil {
		t.Fatalf("expected createDoneMsg")
	}
	if done.err != nil {
		t.Fatalf("create failed: %v", done.err)
	}

	if posted.ObserverID != "u-1" {
		t.Fatalf("observer must be the session user, got %q", posted.ObserverID)
	}
	if posted.Title != "Lunar gravity check" || posted.GravityReading != 1.62 {
		t.Fatalf("unexpected payload %+v", posted)
	}

	// Completion triggers the read-after-write reload of both collections.
	listsBefore := lists
	next, cmd = m.Update(*done)
	m = asApp(t, next)
	if m.logForm.phase != formCollapsed {
		t.Fatalf("form must collapse after success")
	}
	drainCmd(cmd)
	if lists-listsBefore < 2 {
		t.Fatalf("expected both collections refetched, got %d requests", lists-listsBefore)
	}
}
