package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"lunarlog/internal/store"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the backend and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return errors.New("--email is required")
			}
			secret := strings.TrimSpace(password)
			if secret == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				b, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				secret = string(b)
			}

			client, cfg, err := newClient(app)
			if err != nil {
				return err
			}
			resp, err := client.Login(cmd.Context(), email, secret)
			if err != nil {
				return writeErr(cmd, err)
			}

			cfg.BackendURL = client.BaseURL()
			cfg.Token = resp.Token
			user := resp.User
			cfg.User = &user
			if err := store.SaveConfig(cfg); err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"user": resp.User})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (supply to avoid prompt)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the backend session and forget it locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := newClient(app)
			if err != nil {
				return err
			}
			// Forget the session locally even when the backend call fails;
			// a stale server-side session is the backend's problem.
			logoutErr := client.Logout(cmd.Context())
			cfg.ClearSession()
			if err := store.SaveConfig(cfg); err != nil {
				return err
			}
			if logoutErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: backend logout failed: %v\n", logoutErr)
			}
			return writeOut(cmd, app, map[string]any{"loggedOut": true})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := newClient(app)
			if err != nil {
				return err
			}
			user, err := client.Me(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			// Keep the cached identity fresh; the TUI gates the project form
			// on it before the first round trip.
			cfg.User = &user
			_ = store.SaveConfig(cfg)
			return writeOut(cmd, app, user)
		},
	}
}
