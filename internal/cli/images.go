package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/PpairNode/LibStock/internal/imaging"
)

func newImagesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Image commands",
	}
	cmd.AddCommand(newImagesPreviewCmd(app))
	cmd.AddCommand(newImagesUploadCmd(app))
	return cmd
}

// newImagesPreviewCmd stages a file locally and prints the displayable data
// URL, without contacting the server. Lets scripts and terminal image
// protocols check what would be attached before an item submit.
func newImagesPreviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file>",
		Short: "Validate an image locally and print its data URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			staged, err := imaging.StageFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"content_type": staged.ContentType,
				"extension":    staged.Extension,
				"size":         staged.Size,
				"data_url":     staged.DataURL(),
			}})
		},
	}
}

// newImagesUploadCmd uploads a local image through the server's upload
// endpoint. The returned path can be reused across items via
// `items add --image-path`.
func newImagesUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image and print its stored path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			staged, err := imaging.StageFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			client, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			data, err := staged.Bytes()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := client.UploadImage(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"image_path": path,
				"url":        client.MediaURL(path),
			}})
		},
	}
}
