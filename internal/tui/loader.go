package tui

import (
	"context"
	"time"

	"lunarlog/internal/api"
	"lunarlog/internal/model"
	"lunarlog/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type healthMsg struct{ online bool }

type sessionMsg struct {
	user model.User
	err  error
}

type loginDoneMsg struct {
	resp api.LoginResponse
	err  error
}

type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

type logsLoadedMsg struct {
	logs []model.ObservationLog
	err  error
}

func healthCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return healthMsg{online: client.Health(ctx) == nil}
	}
}

func sessionCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		user, err := client.Me(ctx)
		return sessionMsg{user: user, err: err}
	}
}

func loginCmd(client *api.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		resp, err := client.Login(ctx, email, password)
		return loginDoneMsg{resp: resp, err: err}
	}
}

// loadCollectionsCmd is the read side: two independent requests, each with its
// relationships embedded server-side. A failed request leaves the previously
// published collection untouched; a successful one replaces it wholesale.
// Overlapping loads are not de-duplicated: the later completion wins.
func loadCollectionsCmd(client *api.Client) tea.Cmd {
	return tea.Batch(loadProjectsCmd(client), loadLogsCmd(client))
}

func loadProjectsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		projects, err := client.ListProjects(ctx)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func loadLogsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logs, err := client.ListLogs(ctx)
		return logsLoadedMsg{logs: logs, err: err}
	}
}

// snapshotProjects/snapshotLogs persist the freshly published read state so the
// next start against an unreachable backend can show it. Best effort; a cache
// failure never disturbs the dashboard.
func (m *appModel) snapshotProjects() {
	if m.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.cache.SaveProjects(ctx, m.client.BaseURL(), m.projects)
}

func (m *appModel) snapshotLogs() {
	if m.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.cache.SaveLogs(ctx, m.client.BaseURL(), m.logs)
}

// seedFromCache pre-populates the read state from the last successful load.
func (m *appModel) seedFromCache(cache *store.Cache) {
	if cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if projects, ts, err := cache.LoadProjects(ctx, m.client.BaseURL()); err == nil && !ts.IsZero() {
		m.projects = projects
	}
	if logs, ts, err := cache.LoadLogs(ctx, m.client.BaseURL()); err == nil && !ts.IsZero() {
		m.logs = logs
	}
}
