package usercontext

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelAdvanced     ExperienceLevel = "advanced"
)

func ParseExperienceLevel(raw string) (ExperienceLevel, bool) {
	switch ExperienceLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case LevelBeginner:
		return LevelBeginner, true
	case LevelIntermediate:
		return LevelIntermediate, true
	case LevelAdvanced:
		return LevelAdvanced, true
	}
	return "", false
}

// UserContext is the user's stated learning situation. It is mutated only
// through explicit context updates; a scoring pass works on the copy it read.
type UserContext struct {
	UserID                       uuid.UUID
	RoleGoals                    []string
	ExperienceLevel              ExperienceLevel
	TimeAvailabilityHoursPerWeek float64
	Challenges                   string
	Interests                    string
	UpdatedAt                    time.Time
}

// GoalIndex returns the position of goal in the user's stated goal order,
// or len(RoleGoals) when the goal is not listed. Earlier goals win ties.
func (c UserContext) GoalIndex(goal string) int {
	for i, g := range c.RoleGoals {
		if strings.EqualFold(g, goal) {
			return i
		}
	}
	return len(c.RoleGoals)
}
