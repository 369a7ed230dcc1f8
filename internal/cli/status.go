package cli

import (
	"time"

	"lunarlog/internal/store"

	"github.com/spf13/cobra"
)

// statusReport is the `lunarlog status` output shape.
type statusReport struct {
	BackendURL    string     `json:"backendUrl"`
	Online        bool       `json:"online"`
	LoggedIn      bool       `json:"loggedIn"`
	User          any        `json:"user,omitempty"`
	ProjectsCache *cacheInfo `json:"projectsCache,omitempty"`
	LogsCache     *cacheInfo `json:"logsCache,omitempty"`
}

type cacheInfo struct {
	Records int       `json:"records"`
	SavedAt time.Time `json:"savedAt"`
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backend connectivity, session, and cache freshness",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := newClient(app)
			if err != nil {
				return err
			}

			report := statusReport{
				BackendURL: client.BaseURL(),
				Online:     client.Health(cmd.Context()) == nil,
				LoggedIn:   cfg.Token != "",
			}
			if cfg.User != nil {
				report.User = cfg.User
			}

			if cache, err := store.OpenCache(); err == nil {
				defer cache.Close()
				if projects, ts, err := cache.LoadProjects(cmd.Context(), client.BaseURL()); err == nil && !ts.IsZero() {
					report.ProjectsCache = &cacheInfo{Records: len(projects), SavedAt: ts}
				}
				if logs, ts, err := cache.LoadLogs(cmd.Context(), client.BaseURL()); err == nil && !ts.IsZero() {
					report.LogsCache = &cacheInfo{Records: len(logs), SavedAt: ts}
				}
			}

			return writeOut(cmd, app, report)
		},
	}
}
