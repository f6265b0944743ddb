package oracle

import (
	"context"
	"errors"

	"skill-coach/internal/domain/gap"
	"skill-coach/internal/domain/recommendation"
	"skill-coach/internal/domain/usercontext"
)

// ErrUnavailable marks a transient oracle failure. Callers fall back to
// cached analyses or template explanations instead of failing the request.
var ErrUnavailable = errors.New("oracle unavailable")

// RequiredSkill is the raw inference output: what the user should know and
// how well. Current proficiency is derived locally from experience level
// and progress history, not asked of the oracle.
type RequiredSkill struct {
	SkillName    string
	Category     string
	TargetLevel  int
	Foundational bool
}

type SkillGapOracle interface {
	Infer(ctx context.Context, uc usercontext.UserContext) ([]RequiredSkill, error)
}

type ExplanationOracle interface {
	Explain(ctx context.Context, action recommendation.Action, uc usercontext.UserContext, g gap.SkillGap) (recommendation.Explanation, error)
}
