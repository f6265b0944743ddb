package handler

import (
	"github.com/gofiber/fiber/v3"

	"skill-coach/internal/delivery/http/dto"
	"skill-coach/internal/delivery/http/middleware"
	"skill-coach/internal/pkg/response"
	"skill-coach/internal/usecase"
)

type ProgressHandler struct {
	uc usecase.FeedbackUsecase
}

func NewProgressHandler(uc usecase.FeedbackUsecase) *ProgressHandler {
	return &ProgressHandler{uc: uc}
}

func (h *ProgressHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/:user_id/recommendations/:recommendation_id/complete", h.Complete)
	r.Post("/:user_id/recommendations/:recommendation_id/feedback", h.Feedback)
	r.Delete("/:user_id/preferences", h.ResetPreferences)
}

func (h *ProgressHandler) Complete(c fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}
	recID, err := parseRecommendationID(c)
	if err != nil {
		return err
	}

	var req dto.CompletionRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "malformed request body", nil, err)
		}
	}

	var fb *usecase.FeedbackInput
	if req.Feedback != nil {
		fb = &usecase.FeedbackInput{Rating: req.Feedback.Rating, Comment: req.Feedback.Comment}
	}

	record, err := h.uc.RecordCompletion(c.Context(), userID, recID, fb)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewProgressRecordResponse(record))
}

func (h *ProgressHandler) Feedback(c fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}
	recID, err := parseRecommendationID(c)
	if err != nil {
		return err
	}

	var req dto.FeedbackRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "malformed request body", nil, err)
	}

	err = h.uc.SubmitFeedback(c.Context(), userID, recID, usecase.FeedbackInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *ProgressHandler) ResetPreferences(c fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}
	if err := h.uc.ResetPreferences(c.Context(), userID); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
