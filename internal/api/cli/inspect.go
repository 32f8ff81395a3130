package cli

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"led-inspect/internal/domain/entity"
)

func inspectCommand(rt *Runtime) *cobra.Command {
	var saveDir string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Send a board photo for analysis and print the verdict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := readImageFile(args[0])
			if err != nil {
				return err
			}

			services, err := rt.services(NewConsole(cmd.OutOrStdout(), rt.Config.BaseURL))
			if err != nil {
				return err
			}

			if _, err := services.InspectionService.SubmitImage(cmd.Context(), consoleChatID, file); err != nil {
				return err
			}

			if saveDir == "" {
				return nil
			}
			view, err := services.InspectionService.View(cmd.Context(), consoleChatID)
			if err != nil {
				return err
			}
			return savePreviews(saveDir, map[string]*entity.ImagePreview{
				"analyzed_": view.AnalyzedImage,
				"defects_":  view.DefectImage,
			})
		},
	}

	cmd.Flags().StringVar(&saveDir, "save-dir", "", "Directory to save the analyzed and defect images to")
	return cmd
}

func selectCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "select <product-id>",
		Short: "Print the inspection page address for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID("product id", args[0])
			if err != nil {
				return err
			}

			services, err := rt.services(NewConsole(cmd.OutOrStdout(), rt.Config.BaseURL))
			if err != nil {
				return err
			}

			_, err = services.InspectionService.SelectProduct(cmd.Context(), consoleChatID, productID)
			return err
		},
	}
}

// savePreviews пишет картинки результата в dir, имя файла получает префикс
func savePreviews(dir string, previews map[string]*entity.ImagePreview) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for prefix, p := range previews {
		if p == nil || len(p.Data) == 0 {
			continue
		}
		name := previewName(prefix, p.Ref)
		if err := os.WriteFile(filepath.Join(dir, name), p.Data, 0o644); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}
	return nil
}

// previewName берёт последний сегмент пути ссылки без query
func previewName(prefix, ref string) string {
	name := ""
	if u, err := url.Parse(ref); err == nil {
		name = path.Base(u.Path)
	}
	if name == "" || name == "." || name == "/" {
		name = "image"
	}
	return prefix + name
}
