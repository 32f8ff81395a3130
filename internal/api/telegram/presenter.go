package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"led-inspect/internal/domain/entity"
	"led-inspect/internal/domain/port"
)

const (
	callbackNewInspection = "new"
	callbackDismiss       = "dismiss"
	callbackSelectPrefix  = "select:"
)

// Sender часть BotAPI, через которую презентер отправляет сообщения
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Presenter показывает экран проверки сообщениями в чате
type Presenter struct {
	sender  Sender
	baseURL string
}

// NewPresenter создаёт презентер. baseURL нужен для ссылок на страницы сервера.
func NewPresenter(sender Sender, baseURL string) *Presenter {
	return &Presenter{
		sender:  sender,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Present отправляет сообщения, соответствующие представлению
func (p *Presenter) Present(ctx context.Context, chatID int64, view entity.View) error {
	for _, c := range Render(chatID, view) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := p.sender.Send(c); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// Navigate отправляет ссылку на страницу проверки продукта
func (p *Presenter) Navigate(ctx context.Context, chatID int64, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := fmt.Sprintf("%s\n%s%s", msgProductSelected, p.baseURL, target)
	if _, err := p.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send navigation: %w", err)
	}
	return nil
}

// Render превращает представление в набор сообщений Telegram.
// Подсветка при перетаскивании в чате не показывается.
func Render(chatID int64, view entity.View) []tgbotapi.Chattable {
	var out []tgbotapi.Chattable

	switch {
	case view.LoadingVisible:
		out = append(out, tgbotapi.NewMessage(chatID, msgProcessing))

	case view.ResultVisible:
		msg := tgbotapi.NewMessage(chatID, resultText(view))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🔄 New inspection", callbackNewInspection),
			),
		)
		out = append(out, msg)

		if photo, ok := previewPhoto(chatID, view.AnalyzedImage, "Analyzed image"); ok {
			out = append(out, photo)
		}
		if photo, ok := previewPhoto(chatID, view.DefectImage, "Defects"); ok {
			out = append(out, photo)
		}

	case view.UploadVisible && !view.ErrorVisible:
		out = append(out, tgbotapi.NewMessage(chatID, msgAwaitingPhoto))
	}

	if view.ErrorVisible {
		msg := tgbotapi.NewMessage(chatID, "⚠️ Error: "+view.Error)
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✖ Dismiss", callbackDismiss),
			),
		)
		out = append(out, msg)
	}

	return out
}

func resultText(view entity.View) string {
	var b strings.Builder

	icon := "❌"
	if view.Tone == entity.ToneSuccess {
		icon = "✅"
	}
	b.WriteString(icon + " " + view.Banner + "\n\n")

	if len(view.Defects) == 0 {
		b.WriteString(view.EmptyDefects)
		return b.String()
	}
	for _, d := range view.Defects {
		b.WriteString("• " + d + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func previewPhoto(chatID int64, preview *entity.ImagePreview, caption string) (tgbotapi.PhotoConfig, bool) {
	if preview == nil || len(preview.Data) == 0 {
		return tgbotapi.PhotoConfig{}, false
	}
	name := preview.Ref
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "image.jpg"
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: preview.Data})
	photo.Caption = caption
	return photo, true
}

// Проверка реализации интерфейса
var _ port.Presenter = (*Presenter)(nil)
