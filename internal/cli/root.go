package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/PpairNode/LibStock/internal/api"
	"github.com/PpairNode/LibStock/internal/config"
	"github.com/PpairNode/LibStock/internal/format"
	"github.com/PpairNode/LibStock/internal/logging"
	"github.com/PpairNode/LibStock/internal/tui"
)

type App struct {
	APIURL     string
	Dir        string
	PrettyJSON bool
	Format     string
	Timeout    time.Duration
	LogLevel   string
	LogFile    string
}

func NewRootCmd() *cobra.Command {
	cfg := config.Load()
	app := &App{}

	cmd := &cobra.Command{
		Use:          "libstock",
		Short:        "LibStock inventory CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  libstock

  # Scriptable commands
  libstock containers list
  libstock items list --container <container-id> --search dune

  # Move whole containers between accounts
  libstock export run --container <container-id> --images
  libstock import archive.json --strategy rename
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", cfg.APIURL, "Base URL of the LibStock server")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", cfg.DataDir, "Directory for session and view preferences")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("LIBSTOCK_FORMAT", "json"), "Output format (json)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", cfg.Timeout, "Request timeout")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", cfg.LogFile, "Append JSON logs to this file")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newContainersCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newImagesCmd(app))
	cmd.AddCommand(newSummaryCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))

	return cmd
}

func runTUI(app *App) error {
	log, cleanup, err := logging.New(app.LogLevel, app.LogFile, false)
	if err != nil {
		return err
	}
	defer cleanup()

	client, err := app.client(api.WithLogger(log))
	if err != nil {
		return err
	}
	return tui.Run(client, app.Dir, log)
}

// client builds the gateway for one command invocation. Session state lives
// under the data dir, so consecutive invocations share the login.
func (app *App) client(opts ...api.Option) (*api.Client, error) {
	sessionFile := (&config.Config{DataDir: app.Dir}).SessionFile()
	base := []api.Option{
		api.WithSessionFile(sessionFile),
		api.WithTimeout(app.Timeout),
	}
	return api.New(app.APIURL, append(base, opts...)...)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
