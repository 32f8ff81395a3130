// Package httpclient содержит общие куски HTTP-клиентов: транспорт,
// идентификаторы запросов, multipart-формы и разбор ошибок сервера.
package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"led-inspect/internal/domain/entity"
)

const (
	// RequestIDHeader заголовок, по которому запрос находится в логах сервера
	RequestIDHeader = "X-Request-ID"

	defaultUserAgent = "led-inspect"

	defaultMaxIdleConns        = 20
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
	defaultTLSHandshakeTimeout = 10 * time.Second
	defaultDialTimeout         = 30 * time.Second
	defaultDialKeepAlive       = 30 * time.Second

	maxErrorBody = 1 << 20
)

// New создаёт http.Client без общего таймаута: сроки задаёт context запроса.
func New() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultDialTimeout,
			KeepAlive: defaultDialKeepAlive,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
		TLSHandshakeTimeout: defaultTLSHandshakeTimeout,
	}
	return &http.Client{Transport: transport}
}

// Decorate проставляет идентификатор запроса и общие заголовки.
// Возвращает идентификатор, чтобы его можно было записать в лог.
func Decorate(req *http.Request) string {
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)
	req.Header.Set("User-Agent", defaultUserAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	return id
}

// IsSuccess проверяет, что код ответа из диапазона 2xx.
func IsSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// StatusText возвращает текст статуса без числового кода ("Not Found").
func StatusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	// Нестандартный код: берём то, что прислал сервер
	status := strings.TrimSpace(resp.Status)
	if code, rest, ok := strings.Cut(status, " "); ok && code == fmt.Sprint(resp.StatusCode) {
		return rest
	}
	return status
}

// ErrorField читает из тела ответа поле "error". Пустая строка означает,
// что тела нет, оно не JSON или поле пустое.
func ErrorField(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}

// FormField обычное текстовое поле multipart-формы
type FormField struct {
	Name  string
	Value string
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// ImageForm кодирует картинку в поле "image" и дополнительные поля формы.
// Возвращает тело и значение заголовка Content-Type.
func ImageForm(file entity.ImageFile, fields ...FormField) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	name := file.Name
	if name == "" {
		name = "image"
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(name)))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("write image part: %w", err)
	}

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return body, w.FormDataContentType(), nil
}
