package cli

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lunarlog/internal/api"
	"lunarlog/internal/export"
	"lunarlog/internal/model"

	"github.com/spf13/cobra"
)

func newLogsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List and create observation logs",
	}
	cmd.AddCommand(newLogsListCmd(app))
	cmd.AddCommand(newLogsCreateCmd(app))
	cmd.AddCommand(newLogsExportCmd(app))
	return cmd
}

func newLogsExportCmd(app *App) *cobra.Command {
	var toDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export logs as markdown files, grouped by project",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return err
			}
			projects, err := client.ListProjects(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			logs, err := client.ListLogs(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := export.WriteReport(toDir, projects, logs, export.WriteOptions{Overwrite: overwrite})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, res)
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newLogsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List observation logs (observer and project embedded, most recent first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return err
			}
			logs, err := client.ListLogs(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, logs)
		},
	}
}

func newLogsCreateCmd(app *App) *cobra.Command {
	var title, details, logType, projectID, gravity, photoPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record an observation log",
		RunE: func(cmd *cobra.Command, args []string) error {
			title = strings.TrimSpace(title)
			if title == "" {
				return errors.New("--title is required")
			}
			lt := model.LogType(logType)
			if !lt.Valid() {
				return fmt.Errorf("invalid --type %q (one of %v)", logType, model.AllLogTypes())
			}
			reading, err := strconv.ParseFloat(strings.TrimSpace(gravity), 64)
			if err != nil {
				return fmt.Errorf("invalid --gravity %q: %w", gravity, err)
			}

			var photo *api.PhotoUpload
			if p := strings.TrimSpace(photoPath); p != "" {
				data, err := os.ReadFile(p)
				if err != nil {
					return fmt.Errorf("read photo: %w", err)
				}
				photo = &api.PhotoUpload{
					Filename:    filepath.Base(p),
					ContentType: mime.TypeByExtension(filepath.Ext(p)),
					Data:        data,
				}
			}

			client, cfg, err := newClient(app)
			if err != nil {
				return err
			}
			if cfg.User == nil {
				return errors.New("no saved session; run `lunarlog login` first")
			}

			// Observer and observation time are implicit: always the acting
			// session user, always "now".
			created, err := client.CreateLog(cmd.Context(), api.CreateLogInput{
				Title:           title,
				Details:         details,
				LogType:         lt,
				GravityReading:  reading,
				ObservationDate: time.Now().UTC(),
				ProjectID:       strings.TrimSpace(projectID),
				ObserverID:      cfg.User.ID,
			}, photo)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, created)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Log title")
	cmd.Flags().StringVar(&details, "details", "", "Details of the observation")
	cmd.Flags().StringVar(&logType, "type", string(model.LogBehavioral), "Log type")
	cmd.Flags().StringVar(&projectID, "project-id", "", "Related project id (optional)")
	cmd.Flags().StringVar(&gravity, "gravity", "9.8", "Gravity reading in m/s²")
	cmd.Flags().StringVar(&photoPath, "photo", "", "Path to a subject photo (optional)")
	return cmd
}
