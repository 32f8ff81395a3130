package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	app "led-inspect/internal/application"
	"led-inspect/internal/container"
	"led-inspect/internal/domain/entity"
	"led-inspect/internal/domain/port"
	"led-inspect/internal/infrastructure/storage"
	"led-inspect/internal/logging"
)

const fileURL = "https://api.telegram.org/file/bottoken/photos/file_1.jpg"

// fakeAPI записывает всё, что бот отправил в Telegram.
type fakeAPI struct {
	mu        sync.Mutex
	sent      []tgbotapi.Chattable
	requests  []tgbotapi.Chattable
	fileCalls int
	sendErr   error
	updates   chan tgbotapi.Update
	stopped   bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetFileDirectURL(string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fileCalls++
	return fileURL, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) Texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			texts = append(texts, msg.Text)
		}
	}
	return texts
}

func (f *fakeAPI) Photos() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.sent {
		if _, ok := c.(tgbotapi.PhotoConfig); ok {
			n++
		}
	}
	return n
}

func (f *fakeAPI) FileCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fileCalls
}

// stubCatalog каталог из фиксированного списка продуктов
type stubCatalog struct {
	products []entity.Product
}

func (c *stubCatalog) ListProducts(context.Context) ([]entity.Product, error) {
	return c.products, nil
}

func (c *stubCatalog) GetProduct(_ context.Context, productID int64) (*entity.Product, error) {
	for _, p := range c.products {
		if p.ID == productID {
			return &p, nil
		}
	}
	return nil, errors.New("failed to fetch product: Not Found")
}

func (c *stubCatalog) UploadImage(context.Context, int64, entity.ImageFile, bool) (*port.UploadResult, error) {
	return nil, errors.New("not used")
}

func (c *stubCatalog) DeleteImage(context.Context, int64, int64) (*port.OperationResult, error) {
	return nil, errors.New("not used")
}

func (c *stubCatalog) SetPrimaryImage(context.Context, int64, int64) (*port.OperationResult, error) {
	return nil, errors.New("not used")
}

// stubAnalyzer запоминает последний файл и отдаёт заданный результат
type stubAnalyzer struct {
	mu     sync.Mutex
	calls  int
	file   entity.ImageFile
	result *entity.InspectionResult
}

func (a *stubAnalyzer) Analyze(_ context.Context, _ int64, file entity.ImageFile) (*entity.InspectionResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.file = file
	return a.result, nil
}

type botFixture struct {
	bot      *Bot
	api      *fakeAPI
	analyzer *stubAnalyzer
	mock     *httpmock.MockTransport
}

func newBotFixture(t *testing.T) *botFixture {
	t.Helper()

	api := newFakeAPI()
	analyzer := &stubAnalyzer{result: &entity.InspectionResult{Approved: true}}
	catalog := &stubCatalog{products: []entity.Product{
		{ID: 1, Name: "Strip A", Code: "LED-01", Active: true, Images: []entity.ReferenceImage{{ID: 11, IsPrimary: true}}},
		{ID: 2, Name: "Old strip", Active: false},
	}}

	services := container.New(catalog, storage.NewMemorySessionRepository(), analyzer, nil,
		NewPresenter(api, "http://localhost:5000"),
		app.ControllerConfig{DefaultProductID: 1, Logger: logging.Discard()})

	mock := httpmock.NewMockTransport()
	bot := NewBot(api, services, logging.Discard())
	bot.httpClient = &http.Client{Transport: mock}

	return &botFixture{bot: bot, api: api, analyzer: analyzer, mock: mock}
}

func command(chatID int64, text string) *tgbotapi.Message {
	name := strings.SplitN(text, " ", 2)[0]
	return &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func TestBot_StartCommand(t *testing.T) {
	f := newBotFixture(t)

	f.bot.handleMessage(context.Background(), command(1, "/start"))

	require.Equal(t, []string{msgStart}, f.api.Texts())
}

func TestBot_CancelSendsSingleReply(t *testing.T) {
	f := newBotFixture(t)
	f.mock.RegisterResponder(http.MethodGet, fileURL, httpmock.NewBytesResponder(200, []byte("png")))
	ctx := context.Background()

	f.bot.handleMessage(ctx, &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 1},
		Document: &tgbotapi.Document{FileID: "doc", FileName: "board.png", MimeType: "image/png", FileSize: 3},
	})
	sentBefore := len(f.api.Texts())

	f.bot.handleMessage(ctx, command(1, "/cancel"))

	require.Equal(t, []string{msgCancelled}, f.api.Texts()[sentBefore:])

	view, err := f.bot.services.InspectionService.View(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, entity.ViewIdle, view.State)
	require.Equal(t, 1, view.InputGen)
}

func TestBot_UnknownCommandAndText(t *testing.T) {
	f := newBotFixture(t)

	f.bot.handleMessage(context.Background(), command(1, "/foo"))
	f.bot.handleMessage(context.Background(), &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: "hello"})

	require.Equal(t, []string{msgUnknownCommand, msgSendPhoto}, f.api.Texts())
}

func TestBot_ProductsListsOnlyActive(t *testing.T) {
	f := newBotFixture(t)

	f.bot.handleMessage(context.Background(), command(1, "/products"))

	require.Len(t, f.api.sent, 1)
	msg := f.api.sent[0].(tgbotapi.MessageConfig)
	markup := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Equal(t, "#1 Strip A (LED-01)", markup.InlineKeyboard[0][0].Text)
	require.Equal(t, "select:1", *markup.InlineKeyboard[0][0].CallbackData)
}

func TestBot_ProductCommand(t *testing.T) {
	f := newBotFixture(t)

	f.bot.handleMessage(context.Background(), command(1, "/product 1"))

	texts := f.api.Texts()
	require.Len(t, texts, 2)
	require.Equal(t, msgProductSelected+"\nhttp://localhost:5000/inspection/inspect?product_id=1", texts[0])
	require.Contains(t, texts[1], "Strip A")
	require.Contains(t, texts[1], "primary #11")
}

func TestBot_ProductCommandBadArgument(t *testing.T) {
	f := newBotFixture(t)

	f.bot.handleMessage(context.Background(), command(1, "/product abc"))

	require.Equal(t, []string{msgProductUsage}, f.api.Texts())
}

func TestBot_SelectCallback(t *testing.T) {
	f := newBotFixture(t)

	f.bot.handleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		Data:    "select:1",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}},
	})

	require.Len(t, f.api.requests, 1)
	require.Len(t, f.api.Texts(), 2)

	view, err := f.bot.services.InspectionService.View(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, entity.ViewIdle, view.State)
}

func TestBot_PhotoIsDownloadedAndAnalyzed(t *testing.T) {
	f := newBotFixture(t)
	f.mock.RegisterResponder(http.MethodGet, fileURL, httpmock.NewBytesResponder(200, []byte("jpeg-bytes")))

	f.bot.handleMessage(context.Background(), &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 1},
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", FileUniqueID: "s", FileSize: 100},
			{FileID: "large", FileUniqueID: "l", FileSize: 1000},
		},
	})

	require.Equal(t, 1, f.analyzer.calls)
	require.Equal(t, "image/jpeg", f.analyzer.file.ContentType)
	require.Equal(t, "l.jpg", f.analyzer.file.Name)
	require.Equal(t, []byte("jpeg-bytes"), f.analyzer.file.Data)

	texts := f.api.Texts()
	require.Equal(t, msgProcessing, texts[0])
	require.Contains(t, texts[1], "APPROVED")
}

func TestBot_InvalidDocumentIsNotDownloaded(t *testing.T) {
	f := newBotFixture(t)

	f.bot.handleMessage(context.Background(), &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 1},
		Document: &tgbotapi.Document{FileID: "doc", FileName: "report.pdf", MimeType: "application/pdf", FileSize: 100},
	})

	require.Zero(t, f.api.FileCalls())
	require.Zero(t, f.analyzer.calls)
	require.Equal(t, []string{"⚠️ Error: " + entity.ErrNotAnImage.Error()}, f.api.Texts())
}

func TestBot_OversizedDocumentIsNotDownloaded(t *testing.T) {
	f := newBotFixture(t)

	f.bot.handleMessage(context.Background(), &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 1},
		Document: &tgbotapi.Document{FileID: "doc", FileName: "big.png", MimeType: "image/png", FileSize: int(entity.MaxImageSize) + 1},
	})

	require.Zero(t, f.api.FileCalls())
	require.Zero(t, f.analyzer.calls)
}

func TestBot_DownloadError(t *testing.T) {
	f := newBotFixture(t)
	f.mock.RegisterResponder(http.MethodGet, fileURL, httpmock.NewStringResponder(404, "not found"))

	f.bot.handleMessage(context.Background(), &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 1},
		Document: &tgbotapi.Document{FileID: "doc", FileName: "board.png", MimeType: "image/png", FileSize: 100},
	})

	require.Zero(t, f.analyzer.calls)
	require.Equal(t, []string{msgDownloadError}, f.api.Texts())
}

func TestBot_NewInspectionCallback(t *testing.T) {
	f := newBotFixture(t)
	f.mock.RegisterResponder(http.MethodGet, fileURL, httpmock.NewBytesResponder(200, []byte("png")))
	ctx := context.Background()

	f.bot.handleMessage(ctx, &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 1},
		Document: &tgbotapi.Document{FileID: "doc", FileName: "board.png", MimeType: "image/png", FileSize: 3},
	})
	view, err := f.bot.services.InspectionService.View(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, entity.ViewResultShown, view.State)

	f.bot.handleCallback(ctx, &tgbotapi.CallbackQuery{
		ID:      "cb-2",
		Data:    callbackNewInspection,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}},
	})

	view, err = f.bot.services.InspectionService.View(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, entity.ViewIdle, view.State)
	require.Equal(t, 1, view.InputGen)
}

func TestBot_RunStopsOnCancel(t *testing.T) {
	f := newBotFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.bot.Run(ctx) }()

	f.api.updates <- tgbotapi.Update{Message: command(1, "/help")}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not stop")
	}

	f.api.mu.Lock()
	defer f.api.mu.Unlock()
	require.True(t, f.api.stopped)
	require.Len(t, f.api.sent, 1)
}
