package cli

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"led-inspect/internal/domain/entity"
)

func imagesCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Manage product reference images",
	}
	cmd.AddCommand(
		imagesUploadCommand(rt),
		imagesDeleteCommand(rt),
		imagesSetPrimaryCommand(rt),
	)
	return cmd
}

func imagesUploadCommand(rt *Runtime) *cobra.Command {
	var primary bool

	cmd := &cobra.Command{
		Use:   "upload <product-id> <file>",
		Short: "Upload a reference image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID("product id", args[0])
			if err != nil {
				return err
			}

			file, err := readImageFile(args[1])
			if err != nil {
				return err
			}

			services, err := rt.services(nil)
			if err != nil {
				return err
			}

			res, err := services.CatalogService.AddReferenceImage(cmd.Context(), productID, file, primary)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (image #%d)\n", res.Message, res.Image.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&primary, "primary", false, "Make the uploaded image the primary reference")
	return cmd
}

func imagesDeleteCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <product-id> <image-id>",
		Short: "Delete a reference image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, imageID, err := parseImageArgs(args)
			if err != nil {
				return err
			}

			services, err := rt.services(nil)
			if err != nil {
				return err
			}

			res, err := services.CatalogService.RemoveReferenceImage(cmd.Context(), productID, imageID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}

func imagesSetPrimaryCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "set-primary <product-id> <image-id>",
		Short: "Make a reference image primary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, imageID, err := parseImageArgs(args)
			if err != nil {
				return err
			}

			services, err := rt.services(nil)
			if err != nil {
				return err
			}

			res, err := services.CatalogService.MakePrimary(cmd.Context(), productID, imageID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}

func parseImageArgs(args []string) (int64, int64, error) {
	productID, err := parseID("product id", args[0])
	if err != nil {
		return 0, 0, err
	}
	imageID, err := parseID("image id", args[1])
	if err != nil {
		return 0, 0, err
	}
	return productID, imageID, nil
}

// readImageFile читает файл с диска. Слишком большой файл не читается:
// возвращаются только метаданные, и проверка размера отклонит его.
func readImageFile(path string) (entity.ImageFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return entity.ImageFile{}, err
	}
	if info.IsDir() {
		return entity.ImageFile{}, fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	contentType := mime.TypeByExtension(filepath.Ext(name))

	if info.Size() > entity.MaxImageSize {
		return entity.ImageFile{Name: name, ContentType: contentType, Size: info.Size()}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return entity.ImageFile{}, err
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return entity.NewImageFile(name, contentType, data), nil
}
