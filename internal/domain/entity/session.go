package entity

import "errors"

// ViewState состояние экрана проверки
type ViewState string

const (
	ViewIdle        ViewState = "idle"         // Ожидание картинки, зона загрузки видна
	ViewUploading   ViewState = "uploading"    // Идёт анализ, виден индикатор загрузки
	ViewResultShown ViewState = "result_shown" // Показан результат проверки
)

var (
	ErrAnalysisInProgress = errors.New("an analysis is already in progress")
	ErrUnexpectedState    = errors.New("unexpected view state")
)

// Session состояние экрана проверки для одного чата/терминала
type Session struct {
	ChatID    int64     // идентификатор зрителя (Telegram chat ID или 0 для CLI)
	State     ViewState // текущее состояние сценария
	ProductID int64     // выбранный продукт, 0 если не выбран

	Result   *InspectionResult
	Analyzed *ImagePreview // загруженное фото после анализа
	Marked   *ImagePreview // загруженное фото с дефектами

	Error     string // текст баннера ошибки, пусто если баннер скрыт
	Highlight bool   // подсветка зоны при перетаскивании, на сценарий не влияет
	InputGen  int    // увеличивается при сбросе поля выбора файла
}

// NewSession создаёт сессию в начальном состоянии
func NewSession(chatID int64) *Session {
	return &Session{
		ChatID: chatID,
		State:  ViewIdle,
	}
}

// BeginUpload переводит сессию в состояние анализа.
func (s *Session) BeginUpload() error {
	if s.State == ViewUploading {
		return ErrAnalysisInProgress
	}
	s.State = ViewUploading
	s.clearResult()
	return nil
}

// FailUpload возвращает сессию к загрузке и показывает ошибку.
func (s *Session) FailUpload(message string) error {
	if s.State != ViewUploading {
		return ErrUnexpectedState
	}
	s.State = ViewIdle
	s.Error = message
	return nil
}

// ShowResult показывает результат анализа.
func (s *Session) ShowResult(result *InspectionResult) error {
	if s.State != ViewUploading {
		return ErrUnexpectedState
	}
	s.State = ViewResultShown
	s.Result = result
	return nil
}

// Reset начинает новую проверку: результат убирается, поле выбора файла сбрасывается.
func (s *Session) Reset() error {
	if s.State == ViewUploading {
		return ErrAnalysisInProgress
	}
	s.State = ViewIdle
	s.clearResult()
	s.Error = ""
	s.InputGen++
	return nil
}

// ShowError показывает баннер ошибки
func (s *Session) ShowError(message string) {
	s.Error = message
}

// ClearError скрывает баннер ошибки
func (s *Session) ClearError() {
	s.Error = ""
}

// SetHighlight включает или выключает подсветку зоны загрузки
func (s *Session) SetHighlight(on bool) {
	s.Highlight = on
}

// SelectProduct запоминает выбранный продукт
func (s *Session) SelectProduct(productID int64) {
	s.ProductID = productID
}

func (s *Session) clearResult() {
	s.Result = nil
	s.Analyzed = nil
	s.Marked = nil
}
