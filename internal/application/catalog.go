package app

import (
	"context"
	"errors"
	"log/slog"

	"led-inspect/internal/domain/entity"
	"led-inspect/internal/domain/port"
	"led-inspect/internal/logging"
)

var ErrCatalogMissing = errors.New("product catalog is not configured")

// CatalogService операции с продуктами и эталонными картинками
type CatalogService struct {
	catalog port.ProductCatalog
	logger  *slog.Logger
}

func NewCatalogService(catalog port.ProductCatalog, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		logger:  logging.Component(logger, "catalog"),
	}
}

// Products возвращает все продукты.
func (s *CatalogService) Products(ctx context.Context) ([]entity.Product, error) {
	if s.catalog == nil {
		return nil, ErrCatalogMissing
	}
	return s.catalog.ListProducts(ctx)
}

// ActiveProducts возвращает продукты, которые можно выбрать для проверки.
func (s *CatalogService) ActiveProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

// Product возвращает карточку продукта.
func (s *CatalogService) Product(ctx context.Context, productID int64) (*entity.Product, error) {
	if s.catalog == nil {
		return nil, ErrCatalogMissing
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Правило одной главной картинки держит сервер, здесь только предупреждаем
	if err := entity.CheckSinglePrimary(product.Images); err != nil {
		s.logger.Warn("product has inconsistent reference images",
			"product_id", productID,
			"error", err)
	}
	return product, nil
}

// AddReferenceImage проверяет файл и загружает его как эталон.
func (s *CatalogService) AddReferenceImage(ctx context.Context, productID int64, file entity.ImageFile, isPrimary bool) (*port.UploadResult, error) {
	if s.catalog == nil {
		return nil, ErrCatalogMissing
	}
	if err := file.Validate(); err != nil {
		s.logger.Error("reference image rejected", "product_id", productID, "file", file.Name, "error", err)
		return nil, err
	}

	res, err := s.catalog.UploadImage(ctx, productID, file, isPrimary)
	if err != nil {
		return nil, err
	}

	s.logger.Info("reference image uploaded",
		"product_id", productID,
		"image_id", res.Image.ID,
		"is_primary", res.Image.IsPrimary)
	return res, nil
}

// RemoveReferenceImage удаляет эталонную картинку.
func (s *CatalogService) RemoveReferenceImage(ctx context.Context, productID, imageID int64) (*port.OperationResult, error) {
	if s.catalog == nil {
		return nil, ErrCatalogMissing
	}
	res, err := s.catalog.DeleteImage(ctx, productID, imageID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("reference image deleted", "product_id", productID, "image_id", imageID)
	return res, nil
}

// MakePrimary делает картинку главной для продукта.
func (s *CatalogService) MakePrimary(ctx context.Context, productID, imageID int64) (*port.OperationResult, error) {
	if s.catalog == nil {
		return nil, ErrCatalogMissing
	}
	res, err := s.catalog.SetPrimaryImage(ctx, productID, imageID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("primary reference image changed", "product_id", productID, "image_id", imageID)
	return res, nil
}
