package handler

import (
	"github.com/gofiber/fiber/v3"

	"skill-coach/internal/delivery/http/dto"
	"skill-coach/internal/pkg/response"
	"skill-coach/internal/usecase"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/:user_id/recommendations/generate", h.Generate)
	r.Get("/:user_id/recommendations", h.ListRecent)
	r.Post("/:user_id/analysis/refresh", h.RefreshAnalysis)
}

func (h *RecommendationHandler) Generate(c fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	count := parseQueryInt(c, "count", 0)

	res, err := h.uc.Generate(c.Context(), userID, count)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.GenerateResponse{
		Recommendations: make([]dto.RecommendationResponse, 0, len(res.Recommendations)),
		Degraded:        res.Degraded,
		AnalyzedAt:      res.AnalyzedAt,
	}
	for _, rec := range res.Recommendations {
		out.Recommendations = append(out.Recommendations, dto.NewRecommendationResponse(rec))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *RecommendationHandler) ListRecent(c fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	limit := parseQueryInt(c, "limit", 20)
	if limit > 50 {
		limit = 50
	}
	if limit < 1 {
		limit = 20
	}

	recs, err := h.uc.ListRecent(c.Context(), userID, limit)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.RecommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, dto.NewRecommendationResponse(rec))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *RecommendationHandler) RefreshAnalysis(c fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	force := c.Query("force") == "true"

	res, err := h.uc.RefreshAnalysis(c.Context(), userID, force)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.AnalysisResponse{
		Gaps:       make([]dto.SkillGapResponse, 0, len(res.Gaps)),
		Stale:      res.Stale,
		AnalyzedAt: res.AnalyzedAt,
	}
	for _, g := range res.Gaps {
		out.Gaps = append(out.Gaps, dto.NewSkillGapResponse(g))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
