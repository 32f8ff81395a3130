// Package vision предзагружает картинки результата анализа.
package vision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"led-inspect/internal/domain/entity"
	"led-inspect/internal/domain/port"
	"led-inspect/internal/infrastructure/httpclient"
	"led-inspect/internal/logging"
)

// MaxPreviewSize предел размера картинки результата
const MaxPreviewSize = 32 * 1024 * 1024

var ErrEmptyReference = errors.New("empty image reference")

// Loader скачивает картинку результата и проверяет, что она декодируется.
// Битая ссылка превращается в ошибку, а не в пустую картинку.
type Loader struct {
	base       *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// Option настройка загрузчика
type Option func(*Loader)

// WithHTTPClient подменяет http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(l *Loader) {
		l.httpClient = hc
	}
}

// WithLogger задаёт логгер загрузчика.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logging.Component(logger, "vision")
	}
}

// NewLoader создаёт загрузчик. Относительные ссылки считаются от baseURL.
func NewLoader(baseURL string, opts ...Option) (*Loader, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	l := &Loader{
		base:       base,
		httpClient: httpclient.New(),
		logger:     logging.Component(nil, "vision"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Resolve превращает ссылку из ответа сервера в абсолютный адрес.
func (l *Loader) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrEmptyReference
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse image reference: %w", err)
	}
	return l.base.ResolveReference(u).String(), nil
}

// Load скачивает и декодирует картинку.
func (l *Loader) Load(ctx context.Context, ref string) (*entity.ImagePreview, error) {
	target, err := l.Resolve(ref)
	if err != nil {
		l.logger.Error("invalid image reference", "ref", ref, "error", err)
		return nil, err
	}

	data, err := l.fetch(ctx, target)
	if err != nil {
		l.logger.Error("failed to load image", "url", target, "error", err)
		return nil, err
	}

	width, height, err := decodeSize(data)
	if err != nil {
		l.logger.Error("failed to decode image", "url", target, "size", len(data), "error", err)
		return nil, fmt.Errorf("decode image %s: %w", ref, err)
	}

	l.logger.Debug("image preloaded", "url", target, "width", width, "height", height)

	return &entity.ImagePreview{
		Ref:    ref,
		Data:   data,
		Width:  width,
		Height: height,
	}, nil
}

func (l *Loader) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create image request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	httpclient.Decorate(req)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp) {
		return nil, fmt.Errorf("download image: %s", httpclient.StatusText(resp))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPreviewSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxPreviewSize {
		return nil, fmt.Errorf("image exceeds %d bytes", MaxPreviewSize)
	}
	return data, nil
}

// Проверка реализации интерфейса
var _ port.ImageLoader = (*Loader)(nil)
