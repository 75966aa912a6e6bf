package cli

import (
	"github.com/spf13/cobra"

	"github.com/PpairNode/LibStock/internal/api"
	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/transfer"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export containers to an archive file",
	}
	cmd.AddCommand(newExportPreviewCmd(app))
	cmd.AddCommand(newExportRunCmd(app))
	cmd.AddCommand(newExportInspectCmd(app))
	return cmd
}

func buildSelection(cmd *cobra.Command, client *api.Client, ids []string, all, includeImages bool) (*transfer.ExportSelection, error) {
	sel := &transfer.ExportSelection{IncludeImages: includeImages}
	if all {
		containers, err := client.ListContainers(cmd.Context())
		if err != nil {
			return nil, err
		}
		sel.SelectAll(containers)
		return sel, nil
	}
	for _, id := range ids {
		sel.Toggle(id)
	}
	return sel, nil
}

func newExportPreviewCmd(app *App) *cobra.Command {
	var ids []string
	var all bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show server-side size estimates for an export",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			sel, err := buildSelection(cmd, client, ids, all, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := transfer.NewPreviewer(client, nil)
			if err := p.Load(cmd.Context(), sel); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": p.Entries(),
				"meta": map[string]any{"total_size_mb": p.TotalSizeMB()},
			})
		},
	}

	cmd.Flags().StringArrayVar(&ids, "container", nil, "Container id (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "Select every container")
	cmd.MarkFlagsMutuallyExclusive("container", "all")
	cmd.MarkFlagsOneRequired("container", "all")
	return cmd
}

func newExportRunCmd(app *App) *cobra.Command {
	var ids []string
	var all bool
	var includeImages bool
	var outDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download the selected containers as an archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			sel, err := buildSelection(cmd, client, ids, all, includeImages)
			if err != nil {
				return writeErr(cmd, err)
			}
			e := transfer.NewExporter(client, nil)
			path, err := e.Run(cmd.Context(), sel, outDir)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": path}})
		},
	}

	cmd.Flags().StringArrayVar(&ids, "container", nil, "Container id (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "Select every container")
	cmd.Flags().BoolVar(&includeImages, "images", false, "Embed image payloads in the archive")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write the archive into")
	cmd.MarkFlagsMutuallyExclusive("container", "all")
	cmd.MarkFlagsOneRequired("container", "all")
	return cmd
}

func newExportInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive.json>",
		Short: "Validate a local archive and summarize its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := transfer.ReadExportDocument(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			type row struct {
				Name       string `json:"name"`
				Categories int    `json:"categories_count"`
				Items      int    `json:"items_count"`
			}
			rows := make([]row, 0, len(doc.Containers))
			for _, c := range doc.Containers {
				rows = append(rows, row{Name: c.Name, Categories: len(c.Categories), Items: len(c.Items)})
			}
			return writeOut(cmd, app, map[string]any{
				"data": rows,
				"meta": map[string]any{"version": doc.Version, "export_date": doc.ExportDate},
			})
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "import <archive.json>",
		Short: "Import containers from an archive file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := model.ParseImportStrategy(strategy)
			if err != nil {
				return writeErr(cmd, err)
			}
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			rows, err := transfer.NewImporter(client, nil).Run(cmd.Context(), args[0], st)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", string(model.StrategySkip), "Name conflict strategy (skip|rename|replace)")
	return cmd
}
