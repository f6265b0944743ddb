package handler

import (
	"github.com/gofiber/fiber/v3"

	"skill-coach/internal/delivery/http/dto"
	"skill-coach/internal/delivery/http/middleware"
	"skill-coach/internal/pkg/response"
	"skill-coach/internal/usecase"
)

type ContextHandler struct {
	uc usecase.ContextUsecase
}

func NewContextHandler(uc usecase.ContextUsecase) *ContextHandler {
	return &ContextHandler{uc: uc}
}

func (h *ContextHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/:user_id/context", h.GetContext)
	r.Put("/:user_id/context", h.UpdateContext)
}

func (h *ContextHandler) GetContext(c fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	uc, err := h.uc.GetContext(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewContextResponse(uc))
}

func (h *ContextHandler) UpdateContext(c fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateContextRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "bad request body", nil, err)
	}

	uc, err := h.uc.UpdateContext(c.Context(), userID, usecase.UpdateContextInput{
		RoleGoals:                    req.RoleGoals,
		ExperienceLevel:              req.ExperienceLevel,
		TimeAvailabilityHoursPerWeek: req.TimeAvailabilityHoursPerWeek,
		Challenges:                   req.Challenges,
		Interests:                    req.Interests,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewContextResponse(uc))
}
