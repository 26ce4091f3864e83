package comparison

import (
	"court-compare/core/reconcile"
	"court-compare/core/staging"
	"court-compare/feature/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new comparison feature.
func NewFeature(store staging.Store, sessions session.Store, opts reconcile.Options, logger *zap.Logger) *Feature {
	svc := NewService(store, sessions, opts, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "comparison"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
