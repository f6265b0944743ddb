package dto

import (
	"time"

	"skill-coach/internal/domain/usercontext"
)

type ContextResponse struct {
	UserID                       string    `json:"user_id"`
	RoleGoals                    []string  `json:"role_goals"`
	ExperienceLevel              string    `json:"experience_level"`
	TimeAvailabilityHoursPerWeek float64   `json:"time_availability_hours_per_week"`
	Challenges                   string    `json:"challenges,omitempty"`
	Interests                    string    `json:"interests,omitempty"`
	UpdatedAt                    time.Time `json:"updated_at"`
}

func NewContextResponse(uc usercontext.UserContext) ContextResponse {
	return ContextResponse{
		UserID:                       uc.UserID.String(),
		RoleGoals:                    uc.RoleGoals,
		ExperienceLevel:              string(uc.ExperienceLevel),
		TimeAvailabilityHoursPerWeek: uc.TimeAvailabilityHoursPerWeek,
		Challenges:                   uc.Challenges,
		Interests:                    uc.Interests,
		UpdatedAt:                    uc.UpdatedAt,
	}
}

type UpdateContextRequest struct {
	RoleGoals                    []string `json:"role_goals"`
	ExperienceLevel              string   `json:"experience_level"`
	TimeAvailabilityHoursPerWeek float64  `json:"time_availability_hours_per_week"`
	Challenges                   string   `json:"challenges"`
	Interests                    string   `json:"interests"`
}
