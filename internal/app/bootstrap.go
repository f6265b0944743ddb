package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"

	"skill-coach/internal/config"
	"skill-coach/internal/delivery/http/handler"
	"skill-coach/internal/delivery/http/middleware"
	"skill-coach/internal/delivery/http/routes"
	"skill-coach/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container, starts the background loops and
// returns the app plus a cleanup closure in reverse start order.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	app := New(c)

	go c.Hub.Run()
	if err := c.Scheduler.Start(cfg.Catalog.StaleSweepSpec); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	return app, c.Close, nil
}

func registerGlobalMiddleware(f *fiber.App, c *Container) {
	if f == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware()
	f.Use(errMw.Middleware())

	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	f.Use(accessMw.Middleware())
}

func registerRoutes(f *fiber.App, c *Container) {
	if f == nil {
		return
	}

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Redis, c.OracleConfigured),
		handler.NewContextHandler(c.ContextUC),
		handler.NewRecommendationHandler(c.RecommendationUC),
		handler.NewProgressHandler(c.FeedbackUC),
		ws.NewHandler(c.Hub, c.Logger),
	)
	registry.Register(f)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
