package container

import (
	"fmt"
	"log/slog"

	"led-inspect/config"
	app "led-inspect/internal/application"
	"led-inspect/internal/domain/port"
	"led-inspect/internal/infrastructure/analysis"
	"led-inspect/internal/infrastructure/restapi"
	"led-inspect/internal/infrastructure/storage"
	"led-inspect/internal/infrastructure/vision"
)

type Container struct {
	CatalogService    *app.CatalogService
	SessionService    *app.SessionService
	InspectionService *app.InspectionController
}

func New(catalog port.ProductCatalog, sessionRepo port.SessionRepository, analyzer port.Analyzer, images port.ImageLoader, presenter port.Presenter, cfg app.ControllerConfig) *Container {
	sessionService := app.NewSessionService(sessionRepo)
	inspectionService := app.NewInspectionController(sessionService, analyzer, images, presenter, cfg)

	return &Container{
		CatalogService:    app.NewCatalogService(catalog, cfg.Logger),
		SessionService:    sessionService,
		InspectionService: inspectionService,
	}
}

// FromConfig собирает адаптеры сервера инспекции по конфигу.
func FromConfig(cfg *config.Config, presenter port.Presenter, logger *slog.Logger) (*Container, error) {
	catalog, err := restapi.NewClient(cfg.BaseURL, restapi.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	analyzer, err := analysis.NewEndpoint(cfg.BaseURL, analysis.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create analysis endpoint: %w", err)
	}

	images, err := vision.NewLoader(cfg.BaseURL, vision.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create image loader: %w", err)
	}

	return New(catalog, storage.NewMemorySessionRepository(), analyzer, images, presenter, app.ControllerConfig{
		DefaultProductID: cfg.DefaultProductID,
		AnalysisTimeout:  cfg.AnalysisTimeout,
		Logger:           logger,
	}), nil
}
