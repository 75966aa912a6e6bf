package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(app *App) *cobra.Command {
	var containerID string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Category commands",
	}
	cmd.PersistentFlags().StringVar(&containerID, "container", "", "Container id")
	_ = cmd.MarkPersistentFlagRequired("container")

	cmd.AddCommand(newCategoriesListCmd(app, &containerID))
	cmd.AddCommand(newCategoriesAddCmd(app, &containerID))
	cmd.AddCommand(newCategoriesRenameCmd(app, &containerID))
	cmd.AddCommand(newCategoriesDeleteCmd(app, &containerID))
	return cmd
}

func newCategoriesListCmd(app *App, containerID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories of a container",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			categories, err := client.ListCategories(cmd.Context(), *containerID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": categories})
		},
	}
}

func newCategoriesAddCmd(app *App, containerID *string) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := client.CreateCategory(cmd.Context(), *containerID, strings.TrimSpace(name))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesRenameCmd(app *App, containerID *string) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <category-id>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.RenameCategory(cmd.Context(), *containerID, args[0], strings.TrimSpace(name)); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "name": name}})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New category name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesDeleteCmd(app *App, containerID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category (its items stay, uncategorized)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.DeleteCategory(cmd.Context(), *containerID, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}
