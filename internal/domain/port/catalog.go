package port

import (
	"context"

	"led-inspect/internal/domain/entity"
)

// UploadResult ответ сервера на загрузку эталонной картинки
type UploadResult struct {
	Message string                `json:"message"`
	Image   entity.ReferenceImage `json:"image"`
}

// OperationResult ответ сервера на удаление или смену главной картинки
type OperationResult struct {
	Message string `json:"message"`
}

// ProductCatalog интерфейс REST API продуктов и эталонных картинок
type ProductCatalog interface {
	// ListProducts возвращает все продукты
	ListProducts(ctx context.Context) ([]entity.Product, error)

	// GetProduct возвращает карточку продукта с картинками и историей
	GetProduct(ctx context.Context, productID int64) (*entity.Product, error)

	// UploadImage загружает эталонную картинку продукта
	UploadImage(ctx context.Context, productID int64, file entity.ImageFile, isPrimary bool) (*UploadResult, error)

	// DeleteImage удаляет эталонную картинку
	DeleteImage(ctx context.Context, productID, imageID int64) (*OperationResult, error)

	// SetPrimaryImage делает картинку главной
	SetPrimaryImage(ctx context.Context, productID, imageID int64) (*OperationResult, error)
}
