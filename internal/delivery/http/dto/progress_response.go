package dto

import (
	"time"

	"skill-coach/internal/domain/progress"
)

type FeedbackRequest struct {
	Rating  string `json:"rating"`
	Comment string `json:"comment"`
}

type CompletionRequest struct {
	Feedback *FeedbackRequest `json:"feedback"`
}

type ProgressRecordResponse struct {
	ID               string    `json:"id"`
	RecommendationID string    `json:"recommendation_id"`
	ActionType       string    `json:"action_type"`
	SkillName        string    `json:"skill_name"`
	SkillCategory    string    `json:"skill_category,omitempty"`
	CompletedAt      time.Time `json:"completed_at"`
	FeedbackRating   string    `json:"feedback_rating,omitempty"`
	FeedbackComment  string    `json:"feedback_comment,omitempty"`
}

func NewProgressRecordResponse(rec progress.Record) ProgressRecordResponse {
	out := ProgressRecordResponse{
		ID:               rec.ID.String(),
		RecommendationID: rec.RecommendationID.String(),
		ActionType:       string(rec.ActionType),
		SkillName:        rec.SkillName,
		SkillCategory:    rec.SkillCategory,
		CompletedAt:      rec.CompletedAt,
	}
	if rec.Feedback != nil {
		out.FeedbackRating = string(rec.Feedback.Rating)
		out.FeedbackComment = rec.Feedback.Comment
	}
	return out
}
