package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"led-inspect/internal/api/telegram"
)

var errNoToken = errors.New("TELEGRAM_TOKEN is required")

func botCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram inspection bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.Config.TelegramToken == "" {
				return errNoToken
			}

			api, err := telegram.NewBotAPI(rt.Config.TelegramToken, rt.Logger)
			if err != nil {
				return err
			}

			services, err := rt.services(telegram.NewPresenter(api, rt.Config.BaseURL))
			if err != nil {
				return err
			}

			rt.Logger.Info("bot is running", "base_url", rt.Config.BaseURL)
			return telegram.NewBot(api, services, rt.Logger).Run(cmd.Context())
		},
	}
}
