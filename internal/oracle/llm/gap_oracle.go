package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"skill-coach/internal/oracle"

	"skill-coach/internal/domain/usercontext"
)

const gapSystemPrompt = `You are a career-skill analyst. Given a developer's goals,
experience level and available study time, list the skills they need and a
target proficiency for each on a 0-10 scale. Mark prerequisite skills as
foundational. Respond with a JSON object:
{"skills":[{"skill_name":"...","category":"...","target_level":7,"foundational":true}]}`

// GapOracle infers required skills from the user's stated context.
type GapOracle struct {
	client *Client
}

func NewGapOracle(client *Client) *GapOracle {
	return &GapOracle{client: client}
}

type inferredSkill struct {
	SkillName    string `json:"skill_name"`
	Category     string `json:"category"`
	TargetLevel  int    `json:"target_level"`
	Foundational bool   `json:"foundational"`
}

type inferredPayload struct {
	Skills []inferredSkill `json:"skills"`
}

func (o *GapOracle) Infer(ctx context.Context, uc usercontext.UserContext) ([]oracle.RequiredSkill, error) {
	if o == nil || o.client == nil {
		return nil, fmt.Errorf("%w: no llm client configured", oracle.ErrUnavailable)
	}

	user := fmt.Sprintf(
		"Goals: %s\nExperience level: %s\nTime budget: %.1f hours/week\nChallenges: %s\nInterests: %s",
		strings.Join(uc.RoleGoals, ", "),
		uc.ExperienceLevel,
		uc.TimeAvailabilityHoursPerWeek,
		uc.Challenges,
		uc.Interests,
	)

	raw, err := o.client.Complete(ctx, gapSystemPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", oracle.ErrUnavailable, err)
	}

	var payload inferredPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed inference payload: %v", oracle.ErrUnavailable, err)
	}

	out := make([]oracle.RequiredSkill, 0, len(payload.Skills))
	for _, s := range payload.Skills {
		name := strings.TrimSpace(s.SkillName)
		if name == "" {
			continue
		}
		lvl := s.TargetLevel
		if lvl < 0 {
			lvl = 0
		}
		if lvl > 10 {
			lvl = 10
		}
		out = append(out, oracle.RequiredSkill{
			SkillName:    name,
			Category:     strings.TrimSpace(s.Category),
			TargetLevel:  lvl,
			Foundational: s.Foundational,
		})
	}
	return out, nil
}
