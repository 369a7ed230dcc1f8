package cli

import (
	"fmt"
	"os"
	"strings"

	"lunarlog/internal/api"
	"lunarlog/internal/format"
	"lunarlog/internal/store"
	"lunarlog/internal/tui"

	"github.com/spf13/cobra"
)

// DefaultBackendURL is used when neither --backend, the environment, nor the
// saved config names a backend.
const DefaultBackendURL = "http://localhost:1111"

type App struct {
	BackendURL string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "lunarlog",
		Short:        "Lunar research dashboard CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  lunarlog

  # Scriptable commands
  lunarlog login --email researcher@moon.example
  lunarlog logs list
  lunarlog logs create --title "Crater walk" --type Behavioral --gravity 1.62
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive dashboard TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runDashboard(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.BackendURL, "backend", envOr("LUNARLOG_BACKEND", ""), "Backend base URL (default: saved config, then "+DefaultBackendURL+")")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newLogsCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runDashboard(app *App) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	client, err := api.New(resolveBackend(app, cfg), api.WithToken(cfg.Token))
	if err != nil {
		return err
	}
	return tui.Run(client, cfg)
}

// resolveBackend picks the backend URL: flag/env first, then saved config,
// then the default.
func resolveBackend(app *App, cfg *store.Config) string {
	if v := strings.TrimSpace(app.BackendURL); v != "" {
		return v
	}
	if v := strings.TrimSpace(cfg.BackendURL); v != "" {
		return v
	}
	return DefaultBackendURL
}

// newClient builds an authenticated client from the saved session.
func newClient(app *App) (*api.Client, *store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := api.New(resolveBackend(app, cfg), api.WithToken(cfg.Token))
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
