package dto

import (
	"time"

	"skill-coach/internal/domain/gap"
	"skill-coach/internal/domain/recommendation"
)

type ResourceResponse struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Provider string `json:"provider"`
}

type RecommendationResponse struct {
	ID                   string            `json:"id"`
	ActionType           string            `json:"action_type"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Resource             *ResourceResponse `json:"resource,omitempty"`
	Why                  string            `json:"why"`
	HowItHelps           string            `json:"how_it_helps"`
	NextSteps            string            `json:"next_steps"`
	ExplanationDegraded  bool              `json:"explanation_degraded,omitempty"`
	Priority             int               `json:"priority"`
	EstimatedTimeMinutes int               `json:"estimated_time_minutes"`
	ExceedsTimeBudget    bool              `json:"exceeds_time_budget,omitempty"`
	SkillGapsAddressed   []string          `json:"skill_gaps_addressed"`
	SkillCategory        string            `json:"skill_category,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
}

func NewRecommendationResponse(rec recommendation.Recommendation) RecommendationResponse {
	out := RecommendationResponse{
		ID:                   rec.ID.String(),
		ActionType:           string(rec.Action.Type),
		Title:                rec.Action.Title,
		Description:          rec.Action.Description,
		Why:                  rec.Explanation.Why,
		HowItHelps:           rec.Explanation.HowItHelps,
		NextSteps:            rec.Explanation.NextSteps,
		ExplanationDegraded:  rec.ExplanationDegraded,
		Priority:             rec.Priority,
		EstimatedTimeMinutes: rec.EstimatedTimeMinutes,
		ExceedsTimeBudget:    rec.ExceedsTimeBudget,
		SkillGapsAddressed:   rec.SkillGapsAddressed,
		SkillCategory:        rec.SkillCategory,
		CreatedAt:            rec.CreatedAt,
	}
	if rec.Action.Resource != nil {
		out.Resource = &ResourceResponse{
			Title:    rec.Action.Resource.Title,
			URL:      rec.Action.Resource.URL,
			Provider: rec.Action.Resource.Provider,
		}
	}
	return out
}

type GenerateResponse struct {
	Recommendations []RecommendationResponse `json:"recommendations"`
	Degraded        bool                     `json:"degraded,omitempty"`
	AnalyzedAt      time.Time                `json:"analyzed_at"`
}

type SkillGapResponse struct {
	SkillName    string   `json:"skill_name"`
	Category     string   `json:"category"`
	CurrentLevel int      `json:"current_level"`
	TargetLevel  int      `json:"target_level"`
	GapSize      int      `json:"gap_size"`
	RelatedGoals []string `json:"related_goals"`
	Foundational bool     `json:"foundational"`
	Priority     int      `json:"priority,omitempty"`
	Reasoning    string   `json:"reasoning,omitempty"`
}

func NewSkillGapResponse(g gap.SkillGap) SkillGapResponse {
	return SkillGapResponse{
		SkillName:    g.SkillName,
		Category:     g.Category,
		CurrentLevel: g.CurrentLevel,
		TargetLevel:  g.TargetLevel,
		GapSize:      g.GapSize(),
		RelatedGoals: g.RelatedGoals,
		Foundational: g.Foundational,
		Priority:     g.Priority,
		Reasoning:    g.Reasoning,
	}
}

type AnalysisResponse struct {
	Gaps       []SkillGapResponse `json:"gaps"`
	Stale      bool               `json:"stale,omitempty"`
	AnalyzedAt time.Time          `json:"analyzed_at"`
}
