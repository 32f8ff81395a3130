// Package cli команды ledinspect для терминала.
package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"led-inspect/config"
	"led-inspect/internal/container"
	"led-inspect/internal/domain/port"
)

// consoleChatID зритель в терминале один
const consoleChatID int64 = 0

// Factory собирает сервисы приложения для заданного презентера
type Factory func(cfg *config.Config, presenter port.Presenter, logger *slog.Logger) (*container.Container, error)

// Runtime общее окружение всех команд
type Runtime struct {
	Config      *config.Config
	Logger      *slog.Logger
	NewServices Factory
}

func (rt *Runtime) services(presenter port.Presenter) (*container.Container, error) {
	factory := rt.NewServices
	if factory == nil {
		factory = container.FromConfig
	}
	return factory(rt.Config, presenter, rt.Logger)
}

// RootCommand создаёт корневую команду со всеми подкомандами
func RootCommand(rt *Runtime) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ledinspect",
		Short:         "LED board inspection client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Флаги перекрывают значения из окружения
	rootCmd.PersistentFlags().StringVar(&rt.Config.BaseURL, "base-url", rt.Config.BaseURL, "Inspection server address")
	rootCmd.PersistentFlags().Int64Var(&rt.Config.DefaultProductID, "product", rt.Config.DefaultProductID, "Product to inspect against")
	rootCmd.PersistentFlags().DurationVar(&rt.Config.AnalysisTimeout, "timeout", rt.Config.AnalysisTimeout, "How long to wait for the analysis")

	rootCmd.AddCommand(
		botCommand(rt),
		productsCommand(rt),
		imagesCommand(rt),
		inspectCommand(rt),
		selectCommand(rt),
	)

	return rootCmd
}

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return id, nil
}
