package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/PpairNode/LibStock/internal/filter"
	"github.com/PpairNode/LibStock/internal/imaging"
	"github.com/PpairNode/LibStock/internal/model"
)

func newItemsCmd(app *App) *cobra.Command {
	var containerID string

	cmd := &cobra.Command{
		Use:   "items",
		Short: "Item commands",
	}
	cmd.PersistentFlags().StringVar(&containerID, "container", "", "Container id")
	_ = cmd.MarkPersistentFlagRequired("container")

	cmd.AddCommand(newItemsListCmd(app, &containerID))
	cmd.AddCommand(newItemsGetCmd(app, &containerID))
	cmd.AddCommand(newItemsAddCmd(app, &containerID))
	cmd.AddCommand(newItemsUpdateCmd(app, &containerID))
	cmd.AddCommand(newItemsDeleteCmd(app, &containerID))
	return cmd
}

// itemFlags mirrors the editable item fields. Each flag maps to one field;
// applyTo only touches fields whose flag was set, so updates keep everything
// else untouched.
type itemFlags struct {
	name        string
	serie       string
	description string
	value       string
	dateCreated string
	location    string
	creator     string
	owner       string
	tags        string
	comment     string
	condition   string
	number      int
	edition     string
	categoryID  string
	imageFile   string
	imagePath   string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Item name")
	cmd.Flags().StringVar(&f.serie, "serie", "", "Series the item belongs to")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.value, "value", "", "Monetary value")
	cmd.Flags().StringVar(&f.dateCreated, "date-created", "", "Creation or release date")
	cmd.Flags().StringVar(&f.location, "location", "", "Physical location")
	cmd.Flags().StringVar(&f.creator, "creator", "", "Creator (author, maker, brand)")
	cmd.Flags().StringVar(&f.owner, "owner", "", "Owner")
	cmd.Flags().StringVar(&f.tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&f.comment, "comment", "", "Free-form comment")
	cmd.Flags().StringVar(&f.condition, "condition", "", "Condition (New, Very Good, Good, Used, Damaged, Heavily Damaged)")
	cmd.Flags().IntVar(&f.number, "number", 0, "Count of identical copies")
	cmd.Flags().StringVar(&f.edition, "edition", "", "Edition")
	cmd.Flags().StringVar(&f.categoryID, "category", "", "Category id within the container")
	cmd.Flags().StringVar(&f.imageFile, "image", "", "Local image file to stage and attach")
	cmd.Flags().StringVar(&f.imagePath, "image-path", "", "Reuse an already uploaded image reference")
	cmd.MarkFlagsMutuallyExclusive("image", "image-path")
}

func (f *itemFlags) applyTo(cmd *cobra.Command, it *model.Item) error {
	set := cmd.Flags().Changed
	if set("name") {
		it.Name = strings.TrimSpace(f.name)
	}
	if set("serie") {
		it.Serie = f.serie
	}
	if set("description") {
		it.Description = f.description
	}
	if set("value") {
		it.Value = model.ParseAmount(f.value)
	}
	if set("date-created") {
		it.DateCreated = f.dateCreated
	}
	if set("location") {
		it.Location = f.location
	}
	if set("creator") {
		it.Creator = f.creator
	}
	if set("owner") {
		it.Owner = f.owner
	}
	if set("tags") {
		it.Tags = model.NormalizeTags(f.tags)
	}
	if set("comment") {
		it.Comment = f.comment
	}
	if set("condition") {
		c, err := model.ParseCondition(f.condition)
		if err != nil {
			return err
		}
		it.Condition = c
	}
	if set("number") {
		it.Number = f.number
	}
	if set("edition") {
		it.Edition = f.edition
	}
	if set("category") {
		it.CategoryID = f.categoryID
	}
	if set("image") {
		staged, err := imaging.StageFile(f.imageFile)
		if err != nil {
			return err
		}
		existing, _ := it.Image.Path()
		it.Image = imaging.Resolve(existing, staged)
	}
	if set("image-path") {
		it.Image = model.ImagePath(f.imagePath)
	}
	return nil
}

func newItemsListCmd(app *App, containerID *string) *cobra.Command {
	var category, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items of a container",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			items, err := client.ListItems(cmd.Context(), *containerID)
			if err != nil {
				return writeErr(cmd, err)
			}
			visible := filter.Visible(items, category, search)
			return writeOut(cmd, app, map[string]any{
				"data": visible,
				"meta": map[string]any{
					"visible": len(visible),
					"total":   len(items),
					"value":   filter.Total(visible),
				},
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category name (exact match)")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text search")
	return cmd
}

func newItemsGetCmd(app *App, containerID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <item-id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := client.GetItem(cmd.Context(), *containerID, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
}

func newItemsAddCmd(app *App, containerID *string) *cobra.Command {
	flags := &itemFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			var it model.Item
			if err := flags.applyTo(cmd, &it); err != nil {
				return writeErr(cmd, err)
			}

			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := client.CreateItem(cmd.Context(), *containerID, it)
			if err != nil {
				return writeErr(cmd, err)
			}
			it.ID = id
			it.ContainerID = *containerID
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemsUpdateCmd(app *App, containerID *string) *cobra.Command {
	flags := &itemFlags{}

	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Update an item (only the given flags change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := client.GetItem(cmd.Context(), *containerID, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := flags.applyTo(cmd, &it); err != nil {
				return writeErr(cmd, err)
			}
			if err := client.UpdateItem(cmd.Context(), *containerID, args[0], it); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}

	flags.register(cmd)
	return cmd
}

func newItemsDeleteCmd(app *App, containerID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.DeleteItem(cmd.Context(), *containerID, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}
