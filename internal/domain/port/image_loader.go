package port

import (
	"context"

	"led-inspect/internal/domain/entity"
)

// ImageLoader загружает картинку результата до того, как её показать
type ImageLoader interface {
	// Load скачивает и декодирует картинку по ссылке из ответа сервера
	Load(ctx context.Context, ref string) (*entity.ImagePreview, error)
}
