package app

import (
	"context"
	"sync"

	"led-inspect/internal/domain/entity"
	"led-inspect/internal/domain/port"
)

// SessionService управляет сессиями проверки. Все изменения сессий идут через
// Update, поэтому переходы состояний не пересекаются между обработчиками.
type SessionService struct {
	repo port.SessionRepository
	mu   sync.Mutex
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, chatID)
}

// Update применяет fn к сессии, сохраняет её и возвращает новое представление.
// Если fn вернула ошибку, сессия всё равно сохраняется: fn могла показать баннер.
func (s *SessionService) Update(ctx context.Context, chatID int64, fn func(*entity.Session) error) (entity.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return entity.View{}, err
	}

	fnErr := fn(session)
	if err := s.repo.Save(ctx, session); err != nil {
		return entity.View{}, err
	}

	return entity.RenderView(session), fnErr
}

// View возвращает текущее представление сессии.
func (s *SessionService) View(ctx context.Context, chatID int64) (entity.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return entity.View{}, err
	}
	return entity.RenderView(session), nil
}
