package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"led-inspect/internal/domain/entity"
)

func TestMemorySessionRepository_GetCreatesIdleSession(t *testing.T) {
	repo := NewMemorySessionRepository()

	s, err := repo.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), s.ChatID)
	require.Equal(t, entity.ViewIdle, s.State)
}

func TestMemorySessionRepository_SaveAndGet(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	s := entity.NewSession(7)
	s.SelectProduct(3)
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, int64(3), got.ProductID)
}

func TestMemorySessionRepository_ConcurrentGetReturnsSameSession(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	const workers = 16
	results := make([]*entity.Session, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := repo.Get(ctx, 1)
			assert.NoError(t, err)
			results[i] = s
		}()
	}
	wg.Wait()

	for _, s := range results {
		require.Same(t, results[0], s)
	}
}
