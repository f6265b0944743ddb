package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"skill-coach/internal/catalog"
	"skill-coach/internal/domain/gap"
	"skill-coach/internal/domain/recommendation"
	"skill-coach/internal/domain/usercontext"
	"skill-coach/internal/oracle"
)

// Assembler turns selected candidates into final Recommendation objects,
// attaching oracle explanations with a deterministic template fallback.
type Assembler struct {
	explainer oracle.ExplanationOracle
	catalog   *catalog.Catalog
	logger    *log.Logger
}

func NewAssembler(explainer oracle.ExplanationOracle, cat *catalog.Catalog, logger *log.Logger) *Assembler {
	return &Assembler{explainer: explainer, catalog: cat, logger: logger}
}

func (a *Assembler) Catalog() *catalog.Catalog {
	return a.catalog
}

// Assemble builds one recommendation per candidate, in order. Priorities
// restart at 1 for each batch. The second return reports whether any
// explanation had to be degraded to the template.
func (a *Assembler) Assemble(ctx context.Context, cands []recommendation.Candidate, uc usercontext.UserContext) ([]recommendation.Recommendation, bool) {
	now := time.Now().UTC()
	out := make([]recommendation.Recommendation, 0, len(cands))
	anyDegraded := false

	for i, c := range cands {
		exp, degraded := a.explain(ctx, c.Action, uc, c.SkillGap)
		if degraded {
			anyDegraded = true
		}
		out = append(out, recommendation.Recommendation{
			ID:                   uuid.New(),
			UserID:               uc.UserID,
			Action:               c.Action,
			Explanation:          exp,
			ExplanationDegraded:  degraded,
			Priority:             i + 1,
			EstimatedTimeMinutes: c.EstimatedTimeMinutes,
			ExceedsTimeBudget:    c.ExceedsTimeBudget,
			SkillGapsAddressed:   []string{c.SkillGap.SkillName},
			SkillCategory:        c.SkillGap.Category,
			CreatedAt:            now,
		})
	}
	return out, anyDegraded
}

func (a *Assembler) explain(ctx context.Context, action recommendation.Action, uc usercontext.UserContext, g gap.SkillGap) (recommendation.Explanation, bool) {
	if a.explainer != nil {
		exp, err := a.explainer.Explain(ctx, action, uc, g)
		if err == nil {
			return exp, false
		}
		if a.logger != nil {
			a.logger.Printf("[Assemble] explanation degraded | user=%s skill=%s err=%v", uc.UserID, g.SkillName, err)
		}
	}
	return templateExplanation(action, uc, g), true
}

// templateExplanation is the guaranteed-non-empty fallback, phrased per
// experience level so a degraded batch still reads personalized.
func templateExplanation(action recommendation.Action, uc usercontext.UserContext, g gap.SkillGap) recommendation.Explanation {
	var tone string
	switch uc.ExperienceLevel {
	case usercontext.LevelBeginner:
		tone = "This builds the fundamentals step by step, so no prior background is assumed."
	case usercontext.LevelAdvanced:
		tone = "This goes straight to the deeper material, skipping introductory ground you already know."
	default:
		tone = "This matches your level: hands-on work that assumes the basics."
	}

	goal := "your stated goals"
	if len(g.RelatedGoals) > 0 {
		goal = fmt.Sprintf("your goal %q", g.RelatedGoals[0])
	}

	return recommendation.Explanation{
		Why:        fmt.Sprintf("%s is currently your gap with the most impact on %s (level %d of %d).", g.SkillName, goal, g.CurrentLevel, g.TargetLevel),
		HowItHelps: fmt.Sprintf("Completing this %s closes part of that gap. %s", action.Type, tone),
		NextSteps:  fmt.Sprintf("Start %q, then mark it completed here so your next recommendations adjust.", action.Title),
	}
}

// buildAction picks a catalog resource for the action type when one exists,
// otherwise falls back to a generic titled action with the type's default
// duration.
func buildAction(t recommendation.ActionType, g gap.SkillGap, cat *catalog.Catalog) (recommendation.Action, int) {
	if cat != nil {
		if entry, ok := cat.Find(g.Category, t); ok {
			return recommendation.Action{
				Type:        t,
				Title:       entry.Title,
				Description: fmt.Sprintf("Work through %q to raise your %s proficiency.", entry.Title, g.SkillName),
				Resource: &recommendation.Resource{
					Title:    entry.Title,
					URL:      entry.URL,
					Provider: entry.Provider,
				},
			}, entry.EstimatedMinutes
		}
	}

	title := fmt.Sprintf("%s: %s practice", g.SkillName, t)
	switch t {
	case recommendation.ActionTutorial:
		title = fmt.Sprintf("Guided %s tutorial", g.SkillName)
	case recommendation.ActionCourse:
		title = fmt.Sprintf("Structured %s course", g.SkillName)
	case recommendation.ActionArticle:
		title = fmt.Sprintf("In-depth %s article", g.SkillName)
	case recommendation.ActionDocumentation:
		title = fmt.Sprintf("Official %s documentation", g.SkillName)
	case recommendation.ActionChallenge:
		title = fmt.Sprintf("%s coding challenge", g.SkillName)
	}

	return recommendation.Action{
		Type:        t,
		Title:       title,
		Description: fmt.Sprintf("Focused %s work on %s (%s).", t, g.SkillName, g.Category),
	}, defaultMinutes(t)
}

func defaultMinutes(t recommendation.ActionType) int {
	switch t {
	case recommendation.ActionCourse:
		return 240
	case recommendation.ActionTutorial:
		return 60
	case recommendation.ActionDocumentation:
		return 45
	case recommendation.ActionChallenge:
		return 45
	default:
		return 30
	}
}
