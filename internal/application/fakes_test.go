package app

import (
	"context"
	"errors"
	"sync"

	"led-inspect/internal/domain/entity"
	"led-inspect/internal/domain/port"
)

type analyzeFunc func(ctx context.Context, productID int64, file entity.ImageFile) (*entity.InspectionResult, error)

// fakeAnalyzer считает вызовы и отдаёт заданный ответ.
type fakeAnalyzer struct {
	mu       sync.Mutex
	calls    int
	products []int64
	fn       analyzeFunc
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, productID int64, file entity.ImageFile) (*entity.InspectionResult, error) {
	a.mu.Lock()
	a.calls++
	a.products = append(a.products, productID)
	a.mu.Unlock()
	return a.fn(ctx, productID, file)
}

func (a *fakeAnalyzer) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func returning(result *entity.InspectionResult) *fakeAnalyzer {
	return &fakeAnalyzer{fn: func(context.Context, int64, entity.ImageFile) (*entity.InspectionResult, error) {
		return result, nil
	}}
}

// fakeLoader отдаёт превью для всех ссылок, кроме перечисленных в broken.
// С hang загрузка висит до отмены контекста.
type fakeLoader struct {
	broken map[string]bool
	hang   bool
}

func (l *fakeLoader) Load(ctx context.Context, ref string) (*entity.ImagePreview, error) {
	if l.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if l.broken[ref] {
		return nil, errors.New("404")
	}
	return &entity.ImagePreview{Ref: ref, Data: []byte(ref), Width: 4, Height: 3}, nil
}

// recordingPresenter запоминает всё, что было показано.
type recordingPresenter struct {
	mu          sync.Mutex
	views       []entity.View
	navigations []string
}

func (p *recordingPresenter) Present(_ context.Context, _ int64, view entity.View) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.views = append(p.views, view)
	return nil
}

func (p *recordingPresenter) Navigate(_ context.Context, _ int64, target string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigations = append(p.navigations, target)
	return nil
}

func (p *recordingPresenter) States() []entity.ViewState {
	p.mu.Lock()
	defer p.mu.Unlock()
	states := make([]entity.ViewState, 0, len(p.views))
	for _, v := range p.views {
		states = append(states, v.State)
	}
	return states
}

// fakeCatalog in-memory каталог для тестов сервиса.
type fakeCatalog struct {
	products []entity.Product
	err      error
	uploads  int
}

func (c *fakeCatalog) ListProducts(context.Context) ([]entity.Product, error) {
	return c.products, c.err
}

func (c *fakeCatalog) GetProduct(_ context.Context, productID int64) (*entity.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	for i := range c.products {
		if c.products[i].ID == productID {
			return &c.products[i], nil
		}
	}
	return nil, errors.New("failed to fetch product: Not Found")
}

func (c *fakeCatalog) UploadImage(_ context.Context, _ int64, file entity.ImageFile, isPrimary bool) (*port.UploadResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.uploads++
	return &port.UploadResult{
		Message: "added",
		Image:   entity.ReferenceImage{ID: int64(c.uploads), Path: file.Name, IsPrimary: isPrimary},
	}, nil
}

func (c *fakeCatalog) DeleteImage(context.Context, int64, int64) (*port.OperationResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &port.OperationResult{Message: "deleted"}, nil
}

func (c *fakeCatalog) SetPrimaryImage(context.Context, int64, int64) (*port.OperationResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &port.OperationResult{Message: "primary set"}, nil
}
