// Package analysis отправляет снимки платы на серверный анализ.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"led-inspect/internal/domain/entity"
	"led-inspect/internal/domain/port"
	"led-inspect/internal/infrastructure/httpclient"
	"led-inspect/internal/logging"
)

const analyzePath = "/inspection/analyze"

// ServerError сервер ответил кодом вне диапазона 2xx.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Endpoint адаптер POST /inspection/analyze
type Endpoint struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option настройка адаптера
type Option func(*Endpoint)

// WithHTTPClient подменяет http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(e *Endpoint) {
		e.httpClient = hc
	}
}

// WithLogger задаёт логгер адаптера.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Endpoint) {
		e.logger = logging.Component(logger, "analysis")
	}
}

// NewEndpoint создаёт адаптер для сервера с адресом baseURL.
func NewEndpoint(baseURL string, opts ...Option) (*Endpoint, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	e := &Endpoint{
		url:        strings.TrimRight(u.String(), "/") + analyzePath,
		httpClient: httpclient.New(),
		logger:     logging.Component(nil, "analysis"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Analyze отправляет снимок и возвращает вердикт. Срок ожидания задаёт ctx:
// после его истечения запрос обрывается, а ответ уже не читается.
func (e *Endpoint) Analyze(ctx context.Context, productID int64, file entity.ImageFile) (*entity.InspectionResult, error) {
	body, contentType, err := httpclient.ImageForm(file,
		httpclient.FormField{Name: "product_id", Value: strconv.FormatInt(productID, 10)})
	if err != nil {
		return nil, fmt.Errorf("encode analysis form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, body)
	if err != nil {
		return nil, fmt.Errorf("create analysis request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	requestID := httpclient.Decorate(req)

	e.logger.Debug("sending image for analysis",
		"request_id", requestID,
		"product_id", productID,
		"file", file.Name,
		"content_type", file.ContentType,
		"size", file.Size)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Error("analysis request failed",
			"request_id", requestID,
			"product_id", productID,
			"error", err)
		return nil, fmt.Errorf("analyze image: %w", err)
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp) {
		msg := httpclient.ErrorField(resp.Body)
		if msg == "" {
			msg = fmt.Sprintf("Error %d: %s", resp.StatusCode, httpclient.StatusText(resp))
		}
		e.logger.Error("analysis rejected by server",
			"request_id", requestID,
			"product_id", productID,
			"status", resp.StatusCode,
			"error", msg)
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}

	var result entity.InspectionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		e.logger.Error("failed to decode analysis result",
			"request_id", requestID,
			"product_id", productID,
			"error", err)
		return nil, fmt.Errorf("decode analysis result: %w", err)
	}
	if result.Defects == nil {
		result.Defects = []entity.Defect{}
	}

	e.logger.Info("analysis completed",
		"request_id", requestID,
		"product_id", productID,
		"approved", result.Approved,
		"defects", len(result.Defects),
		"analyzed_image", result.AnalyzedImage,
		"defect_image", result.DefectImage)

	return &result, nil
}

// Проверка реализации интерфейса
var _ port.Analyzer = (*Endpoint)(nil)
