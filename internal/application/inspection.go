package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"led-inspect/internal/domain/entity"
	"led-inspect/internal/domain/port"
	"led-inspect/internal/logging"
)

// DefaultAnalysisTimeout сколько ждать ответа анализа
const DefaultAnalysisTimeout = 60 * time.Second

var (
	ErrAnalysisTimeout    = errors.New("analysis timed out")
	ErrProductNotSelected = errors.New("product is not selected")
	ErrAnalyzerMissing    = errors.New("analyzer is not configured")
)

// ControllerConfig параметры контроллера проверки
type ControllerConfig struct {
	DefaultProductID int64         // продукт страницы, если зритель ничего не выбрал
	AnalysisTimeout  time.Duration // 0 означает DefaultAnalysisTimeout
	Logger           *slog.Logger
}

// InspectionController ведёт сценарий загрузка → анализ → результат.
type InspectionController struct {
	sessions  *SessionService
	analyzer  port.Analyzer
	images    port.ImageLoader
	presenter port.Presenter
	logger    *slog.Logger

	defaultProductID int64
	timeout          time.Duration
}

// NewInspectionController создаёт контроллер. Все зависимости передаются явно.
func NewInspectionController(sessions *SessionService, analyzer port.Analyzer, images port.ImageLoader, presenter port.Presenter, cfg ControllerConfig) *InspectionController {
	timeout := cfg.AnalysisTimeout
	if timeout <= 0 {
		timeout = DefaultAnalysisTimeout
	}
	return &InspectionController{
		sessions:         sessions,
		analyzer:         analyzer,
		images:           images,
		presenter:        presenter,
		logger:           logging.Component(cfg.Logger, "inspection"),
		defaultProductID: cfg.DefaultProductID,
		timeout:          timeout,
	}
}

// SelectProduct запоминает продукт и ведёт зрителя на страницу его проверки.
// Пустой выбор ничего не делает.
func (c *InspectionController) SelectProduct(ctx context.Context, chatID, productID int64) (string, error) {
	if productID <= 0 {
		return "", nil
	}

	_, err := c.sessions.Update(ctx, chatID, func(s *entity.Session) error {
		s.SelectProduct(productID)
		return nil
	})
	if err != nil {
		return "", err
	}

	target := entity.InspectPath(productID)
	if c.presenter != nil {
		if err := c.presenter.Navigate(ctx, chatID, target); err != nil {
			c.logger.Warn("failed to navigate", "chat_id", chatID, "target", target, "error", err)
		}
	}
	return target, nil
}

// SubmitImage принимает файл из диалога выбора или перетаскивания и проводит анализ.
func (c *InspectionController) SubmitImage(ctx context.Context, chatID int64, file entity.ImageFile) (*entity.InspectionResult, error) {
	productID, err := c.beginUpload(ctx, chatID, file)
	if err != nil {
		return nil, err
	}

	c.logger.Info("sending image for analysis",
		"chat_id", chatID,
		"product_id", productID,
		"file", file.Name,
		"content_type", file.ContentType,
		"size", file.Size)

	// Дедлайн ограничивает только запрос анализа
	analyzeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	result, err := c.analyze(analyzeCtx, productID, file)
	timedOut := errors.Is(analyzeCtx.Err(), context.DeadlineExceeded)
	cancel()

	if timedOut {
		// Ответ, пришедший после дедлайна, не обрабатываем
		result = nil
		if err == nil {
			err = context.DeadlineExceeded
		}
		err = fmt.Errorf("%w: %w", ErrAnalysisTimeout, err)
	}
	if err != nil {
		return nil, c.failUpload(ctx, chatID, err, timedOut)
	}

	// Картинки грузятся со своим дедлайном, иначе зависший сервер картинок
	// оставит сессию в Uploading
	preloadCtx, cancelPreload := context.WithTimeout(ctx, c.timeout)
	analyzed, marked, loadErr := c.preload(preloadCtx, result)
	cancelPreload()

	view, err := c.sessions.Update(ctx, chatID, func(s *entity.Session) error {
		if err := s.ShowResult(result); err != nil {
			return err
		}
		s.Analyzed = analyzed
		s.Marked = marked
		if loadErr != "" {
			s.ShowError(loadErr)
		}
		return nil
	})
	if err != nil {
		c.logger.Error("failed to show result", "chat_id", chatID, "error", err)
		return nil, err
	}

	c.logger.Info("analysis finished",
		"chat_id", chatID,
		"product_id", productID,
		"approved", result.Approved,
		"defects", result.DefectCount())

	c.present(ctx, chatID, view)
	return result, nil
}

// NewInspection убирает результат и снова показывает зону загрузки.
func (c *InspectionController) NewInspection(ctx context.Context, chatID int64) error {
	view, err := c.sessions.Update(ctx, chatID, func(s *entity.Session) error {
		return s.Reset()
	})
	if err != nil {
		return err
	}
	c.present(ctx, chatID, view)
	return nil
}

// DismissError закрывает баннер ошибки.
func (c *InspectionController) DismissError(ctx context.Context, chatID int64) error {
	view, err := c.sessions.Update(ctx, chatID, func(s *entity.Session) error {
		s.ClearError()
		return nil
	})
	if err != nil {
		return err
	}
	c.present(ctx, chatID, view)
	return nil
}

// DragEnter подсвечивает зону загрузки.
func (c *InspectionController) DragEnter(ctx context.Context, chatID int64) error {
	return c.highlight(ctx, chatID, true)
}

// DragOver держит подсветку, пока файл над зоной.
func (c *InspectionController) DragOver(ctx context.Context, chatID int64) error {
	return c.highlight(ctx, chatID, true)
}

// DragLeave снимает подсветку.
func (c *InspectionController) DragLeave(ctx context.Context, chatID int64) error {
	return c.highlight(ctx, chatID, false)
}

// Drop снимает подсветку и отправляет брошенный файл. Пустой бросок игнорируется.
func (c *InspectionController) Drop(ctx context.Context, chatID int64, files []entity.ImageFile) (*entity.InspectionResult, error) {
	if err := c.highlight(ctx, chatID, false); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	return c.SubmitImage(ctx, chatID, files[0])
}

// View возвращает текущее представление экрана.
func (c *InspectionController) View(ctx context.Context, chatID int64) (entity.View, error) {
	return c.sessions.View(ctx, chatID)
}

func (c *InspectionController) beginUpload(ctx context.Context, chatID int64, file entity.ImageFile) (int64, error) {
	var productID int64

	view, err := c.sessions.Update(ctx, chatID, func(s *entity.Session) error {
		if s.State == entity.ViewUploading {
			return entity.ErrAnalysisInProgress
		}
		s.ClearError()

		if err := file.Validate(); err != nil {
			s.ShowError(err.Error())
			return err
		}

		productID = s.ProductID
		if productID <= 0 {
			productID = c.defaultProductID
		}
		if productID <= 0 {
			s.ShowError(MsgProductNotSelected)
			return ErrProductNotSelected
		}

		return s.BeginUpload()
	})

	switch {
	case errors.Is(err, entity.ErrAnalysisInProgress):
		c.logger.Warn("image rejected, analysis already running", "chat_id", chatID)
		return 0, err
	case err != nil:
		c.logger.Error("image rejected", "chat_id", chatID, "file", file.Name, "error", err)
		c.present(ctx, chatID, view)
		return 0, err
	}

	c.present(ctx, chatID, view)
	return productID, nil
}

func (c *InspectionController) analyze(ctx context.Context, productID int64, file entity.ImageFile) (*entity.InspectionResult, error) {
	if c.analyzer == nil {
		return nil, ErrAnalyzerMissing
	}
	return c.analyzer.Analyze(ctx, productID, file)
}

func (c *InspectionController) failUpload(ctx context.Context, chatID int64, cause error, timedOut bool) error {
	c.logger.Error("analysis failed", "chat_id", chatID, "timed_out", timedOut, "error", cause)

	msg := MsgAnalysisTimeout
	if !timedOut {
		msg = cause.Error()
		if strings.TrimSpace(msg) == "" {
			msg = MsgAnalysisFailed
		}
	}

	view, err := c.sessions.Update(ctx, chatID, func(s *entity.Session) error {
		return s.FailUpload(msg)
	})
	if err != nil {
		c.logger.Error("failed to reset session after error", "chat_id", chatID, "error", err)
	} else {
		c.present(ctx, chatID, view)
	}
	return cause
}

// preload загружает обе картинки результата параллельно.
// Возвращает текст ошибки для баннера, если какая-то не загрузилась.
func (c *InspectionController) preload(ctx context.Context, result *entity.InspectionResult) (*entity.ImagePreview, *entity.ImagePreview, string) {
	if c.images == nil {
		return nil, nil, ""
	}

	var (
		wg                  sync.WaitGroup
		analyzed, marked    *entity.ImagePreview
		analyzedErr, defErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		analyzed, analyzedErr = c.images.Load(ctx, result.AnalyzedImage)
	}()
	go func() {
		defer wg.Done()
		marked, defErr = c.images.Load(ctx, result.DefectImage)
	}()
	wg.Wait()

	var msgs []string
	if analyzedErr != nil {
		c.logger.Error("failed to load analyzed image", "ref", result.AnalyzedImage, "error", analyzedErr)
		msgs = append(msgs, MsgAnalyzedImageError)
	}
	if defErr != nil {
		c.logger.Error("failed to load defect image", "ref", result.DefectImage, "error", defErr)
		msgs = append(msgs, MsgDefectImageError)
	}
	return analyzed, marked, strings.Join(msgs, " ")
}

func (c *InspectionController) highlight(ctx context.Context, chatID int64, on bool) error {
	view, err := c.sessions.Update(ctx, chatID, func(s *entity.Session) error {
		s.SetHighlight(on)
		return nil
	})
	if err != nil {
		return err
	}
	c.present(ctx, chatID, view)
	return nil
}

func (c *InspectionController) present(ctx context.Context, chatID int64, view entity.View) {
	if c.presenter == nil {
		return
	}
	if err := c.presenter.Present(ctx, chatID, view); err != nil {
		c.logger.Error("failed to present view", "chat_id", chatID, "state", view.State, "error", err)
	}
}
