package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"skill-coach/internal/delivery/http/middleware"
	"skill-coach/internal/usecase"
)

func parseUserID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "invalid user_id", nil, err)
	}
	return id, nil
}

func parseRecommendationID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("recommendation_id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "invalid recommendation_id", nil, err)
	}
	return id, nil
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func mapUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid input", nil, err)
	case errors.Is(err, usecase.ErrContextNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, usecase.ErrContextNotFound.Error(), nil, err)
	case errors.Is(err, usecase.ErrRecommendationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "recommendation not found", nil, err)
	case errors.Is(err, usecase.ErrOracleUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, usecase.ErrOracleUnavailable.Error(), nil, err)
	case errors.Is(err, usecase.ErrStorageFailure):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "temporary storage failure, retry later", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}
