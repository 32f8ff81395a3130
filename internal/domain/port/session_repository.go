package port

import (
	"context"

	"led-inspect/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий проверки
type SessionRepository interface {
	// Get возвращает сессию по чату, создаёт новую если не найдена
	Get(ctx context.Context, chatID int64) (*entity.Session, error)

	// Save сохраняет состояние сессии
	Save(ctx context.Context, session *entity.Session) error
}
