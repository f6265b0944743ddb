package routes

import (
	"github.com/gofiber/fiber/v3"

	"skill-coach/internal/delivery/http/handler"
	"skill-coach/internal/ws"
)

type Registry struct {
	health         *handler.HealthHandler
	context        *handler.ContextHandler
	recommendation *handler.RecommendationHandler
	progress       *handler.ProgressHandler
	events         *ws.Handler
}

func NewRegistry(
	health *handler.HealthHandler,
	context *handler.ContextHandler,
	recommendation *handler.RecommendationHandler,
	progress *handler.ProgressHandler,
	events *ws.Handler,
) *Registry {
	return &Registry{
		health:         health,
		context:        context,
		recommendation: recommendation,
		progress:       progress,
		events:         events,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r)
}
