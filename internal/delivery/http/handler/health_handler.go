package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"skill-coach/internal/database"
	"skill-coach/internal/infrastructure/cache"
	"skill-coach/internal/pkg/response"
)

type HealthHandler struct {
	db               database.DB
	redis            *cache.Redis
	oracleConfigured bool
}

func NewHealthHandler(db database.DB, redis *cache.Redis, oracleConfigured bool) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, oracleConfigured: oracleConfigured}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

type healthStatus struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
	Oracle   string `json:"oracle"`
}

// Health reports component status. Redis and the oracle are optional
// dependencies, so their state never fails the probe; only a dead
// database turns the response into a 503.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	st := healthStatus{Database: "up", Redis: "up", Oracle: "configured"}
	healthy := true

	if h.db == nil || h.db.Ping(ctx) != nil {
		st.Database = "down"
		healthy = false
	}
	if h.redis == nil || h.redis.Ping(ctx) != nil {
		st.Redis = "down"
	}
	if !h.oracleConfigured {
		st.Oracle = "unconfigured"
	}

	if !healthy {
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, st)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}
