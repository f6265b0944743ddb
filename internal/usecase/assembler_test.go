package usecase

import (
	"context"
	"errors"
	"testing"

	"skill-coach/internal/catalog"
	"skill-coach/internal/domain/gap"
	"skill-coach/internal/domain/recommendation"
	"skill-coach/internal/domain/usercontext"
	"skill-coach/internal/oracle"
)

type stubExplainer struct {
	exp recommendation.Explanation
	err error
}

func (s *stubExplainer) Explain(context.Context, recommendation.Action, usercontext.UserContext, gap.SkillGap) (recommendation.Explanation, error) {
	return s.exp, s.err
}

func TestAssembler_OracleExplanationUsed(t *testing.T) {
	want := recommendation.Explanation{Why: "w", HowItHelps: "h", NextSteps: "n"}
	a := NewAssembler(&stubExplainer{exp: want}, nil, nil)

	recs, degraded := a.Assemble(context.Background(), []recommendation.Candidate{{
		Action:   recommendation.Action{Type: recommendation.ActionTutorial, Title: "T"},
		SkillGap: gapNamed("Go"),
	}}, serviceUser())

	if degraded {
		t.Fatalf("oracle succeeded, nothing should be degraded")
	}
	if recs[0].Explanation != want {
		t.Fatalf("unexpected explanation: %+v", recs[0].Explanation)
	}
	if recs[0].ExplanationDegraded {
		t.Fatalf("per-item degraded flag should be clear")
	}
}

func TestAssembler_TemplateFallbackOnOracleFailure(t *testing.T) {
	a := NewAssembler(&stubExplainer{err: errors.New("oracle down")}, nil, nil)

	recs, degraded := a.Assemble(context.Background(), []recommendation.Candidate{{
		Action:   recommendation.Action{Type: recommendation.ActionTutorial, Title: "T"},
		SkillGap: gapNamed("Go"),
	}}, serviceUser())

	if !degraded || !recs[0].ExplanationDegraded {
		t.Fatalf("expected degraded flags")
	}
	exp := recs[0].Explanation
	if exp.Why == "" || exp.HowItHelps == "" || exp.NextSteps == "" {
		t.Fatalf("template must fill every field: %+v", exp)
	}
}

func TestAssembler_PrioritiesRestartPerBatch(t *testing.T) {
	a := NewAssembler(nil, nil, nil)
	cands := []recommendation.Candidate{
		{Action: recommendation.Action{Type: recommendation.ActionTutorial}, SkillGap: gapNamed("Go")},
		{Action: recommendation.Action{Type: recommendation.ActionArticle}, SkillGap: gapNamed("SQL")},
	}

	recs, _ := a.Assemble(context.Background(), cands, serviceUser())
	if recs[0].Priority != 1 || recs[1].Priority != 2 {
		t.Fatalf("unexpected priorities: %d, %d", recs[0].Priority, recs[1].Priority)
	}

	again, _ := a.Assemble(context.Background(), cands[:1], serviceUser())
	if again[0].Priority != 1 {
		t.Fatalf("priorities must restart at 1, got %d", again[0].Priority)
	}
}

func TestBuildAction_CatalogEntryPreferred(t *testing.T) {
	cat := catalog.New(nil)
	g := gap.SkillGap{SkillName: "PostgreSQL", Category: "databases", CurrentLevel: 1, TargetLevel: 4}

	action, minutes := buildAction(recommendation.ActionTutorial, g, cat)
	if action.Resource == nil {
		t.Fatalf("expected a catalog resource")
	}
	if minutes <= 0 {
		t.Fatalf("expected catalog minutes, got %d", minutes)
	}
}

func TestBuildAction_GenericFallback(t *testing.T) {
	g := gap.SkillGap{SkillName: "COBOL", Category: "legacy", CurrentLevel: 1, TargetLevel: 4}

	action, minutes := buildAction(recommendation.ActionCourse, g, nil)
	if action.Resource != nil {
		t.Fatalf("no catalog, no resource")
	}
	if action.Title == "" {
		t.Fatalf("generic title must be set")
	}
	if minutes != 240 {
		t.Fatalf("expected the course default of 240, got %d", minutes)
	}
}

var _ oracle.ExplanationOracle = (*stubExplainer)(nil)
