package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"skill-coach/internal/oracle"

	"skill-coach/internal/domain/gap"
	"skill-coach/internal/domain/recommendation"
	"skill-coach/internal/domain/usercontext"
)

const explainSystemPrompt = `You are a learning coach. Explain to the user why the
proposed learning action matters for them personally, matching their
experience level. Respond with a JSON object:
{"why":"...","how_it_helps":"...","next_steps":"..."}`

type ExplainOracle struct {
	client *Client
}

func NewExplainOracle(client *Client) *ExplainOracle {
	return &ExplainOracle{client: client}
}

type explanationPayload struct {
	Why        string `json:"why"`
	HowItHelps string `json:"how_it_helps"`
	NextSteps  string `json:"next_steps"`
}

func (o *ExplainOracle) Explain(ctx context.Context, action recommendation.Action, uc usercontext.UserContext, g gap.SkillGap) (recommendation.Explanation, error) {
	if o == nil || o.client == nil {
		return recommendation.Explanation{}, fmt.Errorf("%w: no llm client configured", oracle.ErrUnavailable)
	}

	user := fmt.Sprintf(
		"Action: %s %q (%s)\nSkill: %s (category %s), current level %d, target %d\nUser goals: %s\nExperience level: %s",
		action.Type, action.Title, action.Description,
		g.SkillName, g.Category, g.CurrentLevel, g.TargetLevel,
		strings.Join(uc.RoleGoals, ", "),
		uc.ExperienceLevel,
	)

	raw, err := o.client.Complete(ctx, explainSystemPrompt, user)
	if err != nil {
		return recommendation.Explanation{}, fmt.Errorf("%w: %v", oracle.ErrUnavailable, err)
	}

	var payload explanationPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return recommendation.Explanation{}, fmt.Errorf("%w: malformed explanation payload: %v", oracle.ErrUnavailable, err)
	}

	exp := recommendation.Explanation{
		Why:        strings.TrimSpace(payload.Why),
		HowItHelps: strings.TrimSpace(payload.HowItHelps),
		NextSteps:  strings.TrimSpace(payload.NextSteps),
	}
	if exp.Why == "" && exp.HowItHelps == "" && exp.NextSteps == "" {
		return recommendation.Explanation{}, fmt.Errorf("%w: empty explanation payload", oracle.ErrUnavailable)
	}
	return exp, nil
}
