package cli

import (
	"github.com/spf13/cobra"

	"github.com/PpairNode/LibStock/internal/filter"
)

func newSummaryCmd(app *App) *cobra.Command {
	var containerID string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Item counts and value totals, per container or per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()

			// Scoped to one container: break it down by category.
			if containerID != "" {
				items, err := client.ListItems(ctx, containerID)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data": filter.Summary(items),
					"meta": map[string]any{
						"items": len(items),
						"total": filter.Total(items),
					},
				})
			}

			containers, err := client.ListContainers(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			type row struct {
				ID    string  `json:"id"`
				Name  string  `json:"name"`
				Items int     `json:"items"`
				Total float64 `json:"total"`
			}
			rows := make([]row, 0, len(containers))
			var grand float64
			for _, c := range containers {
				items, err := client.ListItems(ctx, c.ID)
				if err != nil {
					return writeErr(cmd, err)
				}
				total := filter.Total(items)
				grand += total
				rows = append(rows, row{ID: c.ID, Name: c.Name, Items: len(items), Total: total})
			}
			return writeOut(cmd, app, map[string]any{
				"data": rows,
				"meta": map[string]any{"total": grand},
			})
		},
	}

	cmd.Flags().StringVar(&containerID, "container", "", "Limit to one container and group by category")
	return cmd
}
