package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newContainersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "containers",
		Short: "Container commands",
	}
	cmd.AddCommand(newContainersListCmd(app))
	cmd.AddCommand(newContainersAddCmd(app))
	cmd.AddCommand(newContainersRenameCmd(app))
	cmd.AddCommand(newContainersDeleteCmd(app))
	return cmd
}

func newContainersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			containers, err := client.ListContainers(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": containers})
		},
	}
}

func newContainersAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a container",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := client.CreateContainer(cmd.Context(), strings.TrimSpace(name))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Container name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newContainersRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <container-id>",
		Short: "Rename a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.RenameContainer(cmd.Context(), args[0], strings.TrimSpace(name)); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "name": name}})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New container name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newContainersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <container-id>",
		Short: "Delete a container and everything inside it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.DeleteContainer(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}
