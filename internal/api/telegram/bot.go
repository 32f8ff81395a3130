package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"led-inspect/internal/container"
	"led-inspect/internal/domain/entity"
	"led-inspect/internal/infrastructure/httpclient"
	"led-inspect/internal/logging"
)

const (
	msgStart = `👋 Hi! I check LED boards for defects.

1️⃣ Pick a product: /products
2️⃣ Send a photo of the board
3️⃣ Get the verdict and the marked-up image

📋 Commands:
/products — list products
/product <id> — select a product
/check — start a new inspection
/help — help
/cancel — cancel the current inspection`

	msgHelp = `ℹ️ How to use the bot:

1️⃣ Select a product with /products or /product <id>
2️⃣ Send a photo (JPEG, PNG or GIF up to 10MB), as a photo or as a file
3️⃣ The server compares it with the product's reference image

💡 Tips:
• Shoot under even lighting
• Keep the whole board in frame
• Make sure the photo is sharp`

	msgAwaitingPhoto   = "📸 Send a photo of the board to inspect."
	msgCancelled       = "❌ Inspection cancelled. Send /check to start again."
	msgSendPhoto       = "📸 Please send a photo of the board."
	msgUnknownCommand  = "❓ Unknown command. Use /help."
	msgProcessing      = "⏳ Analyzing image..."
	msgBusy            = "⏳ The previous image is still being analyzed, please wait."
	msgNoProducts      = "No active products found."
	msgProductUsage    = "Usage: /product <id>"
	msgProductSelected = "✅ Product selected. Inspection page:"
	msgDownloadError   = "⚠️ Failed to download the image from Telegram. Please try again."
)

// botAPI часть tgbotapi.BotAPI, которой пользуется бот
type botAPI interface {
	Sender
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot представляет Telegram-бота
type Bot struct {
	api        botAPI
	services   *container.Container
	httpClient *http.Client
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// NewBotAPI авторизуется в Telegram
func NewBotAPI(token string, logger *slog.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logging.Component(logger, "telegram").Info("authorized", "account", api.Self.UserName)
	return api, nil
}

// NewBot создаёт нового бота
func NewBot(api botAPI, services *container.Container, logger *slog.Logger) *Bot {
	return &Bot{
		api:        api,
		services:   services,
		httpClient: httpclient.New(),
		logger:     logging.Component(logger, "telegram"),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			// Анализ длится до минуты, поэтому каждое обновление в своей горутине
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото и картинок, отправленных файлом
	if len(msg.Photo) > 0 || msg.Document != nil {
		b.handleImage(ctx, msg)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	inspection := b.services.InspectionService

	switch msg.Command() {
	case "start":
		if b.resetQuietly(ctx, chatID) {
			b.sendMessage(chatID, msgStart)
		}

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "products":
		b.listProducts(ctx, chatID)

	case "product":
		b.selectProduct(ctx, chatID, msg.CommandArguments())

	case "check":
		b.resetInspection(ctx, chatID)

	case "cancel":
		if b.resetQuietly(ctx, chatID) {
			b.sendMessage(chatID, msgCancelled)
		}

	case "dismiss":
		if err := inspection.DismissError(ctx, chatID); err != nil {
			b.replyError(chatID, err)
		}

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleCallback обрабатывает нажатия на кнопки
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", "error", err)
	}
	if query.Message == nil || query.Message.Chat == nil {
		return
	}
	chatID := query.Message.Chat.ID

	switch data := query.Data; {
	case data == callbackNewInspection:
		b.resetInspection(ctx, chatID)
	case data == callbackDismiss:
		if err := b.services.InspectionService.DismissError(ctx, chatID); err != nil {
			b.replyError(chatID, err)
		}
	case strings.HasPrefix(data, callbackSelectPrefix):
		b.selectProduct(ctx, chatID, strings.TrimPrefix(data, callbackSelectPrefix))
	default:
		b.logger.Warn("unknown callback", "data", data)
	}
}

// handleImage скачивает картинку и отправляет её на анализ
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	fileID, file := imageMeta(msg)

	// Тип и размер проверяются до скачивания: невалидный файл уходит
	// в контроллер без данных, и тот показывает ошибку без сетевых вызовов
	if entity.ValidateImage(file.ContentType, file.Size) == nil {
		data, err := b.downloadFile(ctx, fileID)
		if err != nil {
			b.logger.Error("error downloading image", "chat_id", chatID, "error", err)
			b.sendMessage(chatID, msgDownloadError)
			return
		}
		file.Data = data
		file.Size = int64(len(data))
	}

	_, err := b.services.InspectionService.SubmitImage(ctx, chatID, file)
	switch {
	case errors.Is(err, entity.ErrAnalysisInProgress):
		b.sendMessage(chatID, msgBusy)
	case err != nil:
		// Ошибку пользователь уже видит в баннере
		b.logger.Debug("inspection ended with error", "chat_id", chatID, "error", err)
	}
}

// imageMeta достаёт идентификатор и метаданные картинки из сообщения
func imageMeta(msg *tgbotapi.Message) (string, entity.ImageFile) {
	if msg.Document != nil {
		name := msg.Document.FileName
		if name == "" {
			name = "document"
		}
		return msg.Document.FileID, entity.ImageFile{
			Name:        name,
			ContentType: msg.Document.MimeType,
			Size:        int64(msg.Document.FileSize),
		}
	}

	// Берём фото с максимальным разрешением, Telegram всегда отдаёт JPEG
	photo := msg.Photo[len(msg.Photo)-1]
	return photo.FileID, entity.ImageFile{
		Name:        photo.FileUniqueID + ".jpg",
		ContentType: "image/jpeg",
		Size:        int64(photo.FileSize),
	}
}

func (b *Bot) listProducts(ctx context.Context, chatID int64) {
	products, err := b.services.CatalogService.ActiveProducts(ctx)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	if len(products) == 0 {
		b.sendMessage(chatID, msgNoProducts)
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(products))
	for _, p := range products {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.Title(), callbackSelectPrefix+strconv.FormatInt(p.ID, 10)),
		))
	}

	msg := tgbotapi.NewMessage(chatID, "📋 Select a product:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

func (b *Bot) selectProduct(ctx context.Context, chatID int64, arg string) {
	productID, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || productID <= 0 {
		b.sendMessage(chatID, msgProductUsage)
		return
	}

	product, err := b.services.CatalogService.Product(ctx, productID)
	if err != nil {
		b.replyError(chatID, err)
		return
	}

	if _, err := b.services.InspectionService.SelectProduct(ctx, chatID, product.ID); err != nil {
		b.replyError(chatID, err)
		return
	}
	b.sendMessage(chatID, productCard(product))
}

// productCard краткая карточка продукта
func productCard(p *entity.Product) string {
	var sb strings.Builder
	sb.WriteString("🔎 " + p.Title())
	if p.Description != "" {
		sb.WriteString("\n" + p.Description)
	}
	sb.WriteString(fmt.Sprintf("\nReference images: %d", len(p.Images)))
	if img, ok := entity.PrimaryImage(p.Images); ok {
		sb.WriteString(fmt.Sprintf(" (primary #%d)", img.ID))
	} else {
		sb.WriteString(" (no primary image, analysis will fail)")
	}
	if len(p.Inspections) > 0 {
		approved := 0
		for _, insp := range p.Inspections {
			if insp.Approved {
				approved++
			}
		}
		sb.WriteString(fmt.Sprintf("\nInspections: %d (%d approved)", len(p.Inspections), approved))
	}
	sb.WriteString("\n\n" + msgAwaitingPhoto)
	return sb.String()
}

func (b *Bot) resetInspection(ctx context.Context, chatID int64) {
	if err := b.services.InspectionService.NewInspection(ctx, chatID); err != nil {
		b.replyError(chatID, err)
	}
}

// resetQuietly сбрасывает сессию без показа экрана: ответ на команду
// заменяет сообщение об ожидании фото
func (b *Bot) resetQuietly(ctx context.Context, chatID int64) bool {
	if _, err := b.services.SessionService.Update(ctx, chatID, (*entity.Session).Reset); err != nil {
		b.replyError(chatID, err)
		return false
	}
	return true
}

func (b *Bot) replyError(chatID int64, err error) {
	if errors.Is(err, entity.ErrAnalysisInProgress) {
		b.sendMessage(chatID, msgBusy)
		return
	}
	b.logger.Error("command failed", "chat_id", chatID, "error", err)
	b.sendMessage(chatID, "⚠️ "+err.Error())
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp) {
		return nil, fmt.Errorf("download file: %s", httpclient.StatusText(resp))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, entity.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Error("error sending message", "error", err)
	}
}
