package port

import (
	"context"

	"led-inspect/internal/domain/entity"
)

// Analyzer интерфейс серверного анализа снимка платы
type Analyzer interface {
	// Analyze отправляет снимок на проверку и возвращает вердикт сервера.
	// Отмена ctx прерывает запрос.
	Analyze(ctx context.Context, productID int64, file entity.ImageFile) (*entity.InspectionResult, error)
}
