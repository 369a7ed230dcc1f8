package cli

import (
	"errors"
	"fmt"
	"strings"

	"lunarlog/internal/api"
	"lunarlog/internal/model"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List and create research projects",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsCreateCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects (lead scientist embedded, newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return err
			}
			projects, err := client.ListProjects(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, projects)
		},
	}
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var name, description, status string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project (requires the LeadScientist role)",
		RunE: func(cmd *cobra.Command, args []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return errors.New("--name is required")
			}
			st := model.ProjectStatus(status)
			if !st.Valid() {
				return fmt.Errorf("invalid --status %q (one of %v)", status, model.AllProjectStatuses())
			}

			client, cfg, err := newClient(app)
			if err != nil {
				return err
			}
			if cfg.User == nil {
				return errors.New("no saved session; run `lunarlog login` first")
			}
			// Role gating here is a courtesy warning only; the backend is the
			// authorization boundary and rejects non-lead creators.
			if cfg.User.Role != model.RoleLeadScientist {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: current role is %s; the backend will likely reject this\n", cfg.User.Role)
			}

			created, err := client.CreateProject(cmd.Context(), api.CreateProjectInput{
				Name:            name,
				Description:     description,
				Status:          st,
				LeadScientistID: cfg.User.ID,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, created)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&status, "status", string(model.StatusPlanning), "Project status")
	return cmd
}
