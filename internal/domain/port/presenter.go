package port

import (
	"context"

	"led-inspect/internal/domain/entity"
)

// Presenter показывает экран проверки пользователю
type Presenter interface {
	// Present отрисовывает текущее представление для зрителя
	Present(ctx context.Context, chatID int64, view entity.View) error

	// Navigate ведёт зрителя на страницу проверки продукта
	Navigate(ctx context.Context, chatID int64, target string) error
}
