// Package restapi клиент REST API продуктов и эталонных картинок.
package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
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

// Client клиент API. Таймаутов и повторов нет: отменой управляет ctx вызывающего.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option настройка клиента
type Option func(*Client)

// WithHTTPClient подменяет http.Client (в тестах его перехватывает httpmock).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger задаёт логгер клиента.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.Component(logger, "restapi")
	}
}

// NewClient создаёт клиент для сервера с адресом baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: httpclient.New(),
		logger:     logging.Component(nil, "restapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL возвращает адрес сервера без завершающего слэша.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListProducts возвращает все продукты.
func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	const op = "list products"

	var payload struct {
		Products []entity.Product `json:"products"`
	}
	err := c.fetch(ctx, op, "products", "/api/products", &payload)
	if err != nil {
		return nil, err
	}
	if payload.Products == nil {
		payload.Products = []entity.Product{}
	}
	return payload.Products, nil
}

// GetProduct возвращает карточку продукта.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*entity.Product, error) {
	const op = "get product"

	var product entity.Product
	path := "/api/products/" + strconv.FormatInt(productID, 10)
	if err := c.fetch(ctx, op, "product", path, &product, "product_id", productID); err != nil {
		return nil, err
	}
	return &product, nil
}

// UploadImage загружает эталонную картинку. Поле is_primary уходит как "true"/"false".
func (c *Client) UploadImage(ctx context.Context, productID int64, file entity.ImageFile, isPrimary bool) (*port.UploadResult, error) {
	const op = "upload image"

	body, contentType, err := httpclient.ImageForm(file,
		httpclient.FormField{Name: "is_primary", Value: strconv.FormatBool(isPrimary)})
	if err != nil {
		c.logger.Error("failed to encode upload form",
			"product_id", productID,
			"file", file.Name,
			"error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	path := fmt.Sprintf("/api/products/%d/images", productID)
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", contentType)

	var result port.UploadResult
	if err := c.mutate(req, op, &result, "product_id", productID, "file", file.Name); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteImage удаляет эталонную картинку продукта.
func (c *Client) DeleteImage(ctx context.Context, productID, imageID int64) (*port.OperationResult, error) {
	const op = "delete image"

	path := fmt.Sprintf("/api/products/%d/images/%d", productID, imageID)
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result port.OperationResult
	if err := c.mutate(req, op, &result, "product_id", productID, "image_id", imageID); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetPrimaryImage делает картинку главной для продукта.
func (c *Client) SetPrimaryImage(ctx context.Context, productID, imageID int64) (*port.OperationResult, error) {
	const op = "set primary image"

	path := fmt.Sprintf("/api/products/%d/images/%d/set-primary", productID, imageID)
	req, err := c.newRequest(ctx, http.MethodPut, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result port.OperationResult
	if err := c.mutate(req, op, &result, "product_id", productID, "image_id", imageID); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	httpclient.Decorate(req)
	return req, nil
}

// fetch выполняет GET. При ошибке сервера сообщение строится только из статуса.
func (c *Client) fetch(ctx context.Context, op, what, path string, out any, attrs ...any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.send(req, op, attrs...)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp) {
		apiErr := fetchError(op, what, resp.StatusCode, httpclient.StatusText(resp))
		c.logFailure(req, op, apiErr, attrs...)
		return apiErr
	}
	return c.decode(req, resp, op, out, attrs...)
}

// mutate выполняет изменяющий запрос. Сообщение об ошибке берётся из поля error ответа.
func (c *Client) mutate(req *http.Request, op string, out any, attrs ...any) error {
	resp, err := c.send(req, op, attrs...)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp) {
		apiErr := mutationError(op, httpclient.ErrorField(resp.Body), resp.StatusCode, httpclient.StatusText(resp))
		c.logFailure(req, op, apiErr, attrs...)
		return apiErr
	}
	return c.decode(req, resp, op, out, attrs...)
}

func (c *Client) send(req *http.Request, op string, attrs ...any) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logFailure(req, op, err, attrs...)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp, nil
}

func (c *Client) decode(req *http.Request, resp *http.Response, op string, out any, attrs ...any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		c.logFailure(req, op, err, attrs...)
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) logFailure(req *http.Request, op string, err error, attrs ...any) {
	args := []any{
		"op", op,
		"method", req.Method,
		"url", req.URL.String(),
		"request_id", req.Header.Get(httpclient.RequestIDHeader),
		"error", err,
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		args = append(args, "status", apiErr.StatusCode)
	}
	args = append(args, attrs...)
	c.logger.Error("API request failed", args...)
}

// Проверка реализации интерфейса
var _ port.ProductCatalog = (*Client)(nil)
