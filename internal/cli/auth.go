package cli

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PpairNode/LibStock/internal/api"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the server and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("LIBSTOCK_PASSWORD")
			}
			if password == "" {
				// Allow piping the password instead of exposing it in ps.
				r := bufio.NewReader(cmd.InOrStdin())
				line, err := r.ReadString('\n')
				if err != nil && line == "" {
					return writeErr(cmd, errors.New("password required (use --password or pipe it on stdin)"))
				}
				password = strings.TrimRight(line, "\r\n")
			}

			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.Login(cmd.Context(), username, password); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"username": username, "logged_in": true}})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username")
	cmd.Flags().StringVar(&password, "password", "", "Account password (LIBSTOCK_PASSWORD or stdin when omitted)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored cookie",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.Logout(cmd.Context()); err != nil && !api.IsUnauthorized(err) {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"logged_in": false}})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			username, err := client.CheckSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"username": username}})
		},
	}
}
