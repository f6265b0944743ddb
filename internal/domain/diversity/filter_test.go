package diversity

import (
	"math"
	"testing"

	"skill-coach/internal/domain/gap"
	"skill-coach/internal/domain/progress"
	"skill-coach/internal/domain/recommendation"
)

func cand(skill string, actionType recommendation.ActionType, score float64) recommendation.Candidate {
	return recommendation.Candidate{
		Action:   recommendation.Action{Type: actionType, Title: skill},
		SkillGap: gap.SkillGap{SkillName: skill, CurrentLevel: 1, TargetLevel: 4},
		Score:    score,
	}
}

func completions(types ...recommendation.ActionType) []progress.Record {
	out := make([]progress.Record, 0, len(types))
	for _, t := range types {
		out = append(out, progress.Record{ActionType: t})
	}
	return out
}

func TestApply_NoHistoryLeavesScores(t *testing.T) {
	cands := []recommendation.Candidate{
		cand("Go", recommendation.ActionTutorial, 0.8),
		cand("SQL", recommendation.ActionArticle, 0.6),
	}
	out := Apply(cands, nil, DefaultConfig())
	if out[0].Score != 0.8 || out[1].Score != 0.6 {
		t.Fatalf("scores changed without history: %f, %f", out[0].Score, out[1].Score)
	}
}

func TestApply_RepeatedTypeDownWeighted(t *testing.T) {
	cands := []recommendation.Candidate{
		cand("Go", recommendation.ActionTutorial, 0.8),
		cand("SQL", recommendation.ActionArticle, 0.7),
	}
	history := completions(recommendation.ActionTutorial, recommendation.ActionTutorial)

	out := Apply(cands, history, DefaultConfig())
	if out[0].Action.Type != recommendation.ActionArticle {
		t.Fatalf("over-represented type should sink, got %s first", out[0].Action.Type)
	}
	// 0.8 * (1 - 0.2*2) = 0.48
	if math.Abs(out[1].Score-0.48) > 1e-9 {
		t.Fatalf("expected 0.48, got %f", out[1].Score)
	}
}

func TestApply_StreakEscalatesPenalty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window = 3

	cands := []recommendation.Candidate{cand("Go", recommendation.ActionTutorial, 1.0)}

	short := Apply(cands, completions(recommendation.ActionTutorial, recommendation.ActionTutorial), cfg)
	long := Apply(cands, completions(recommendation.ActionTutorial, recommendation.ActionTutorial, recommendation.ActionTutorial), cfg)

	if long[0].Score >= short[0].Score {
		t.Fatalf("a 3-streak must penalize harder: %f vs %f", long[0].Score, short[0].Score)
	}
}

func TestApply_PenaltyFloorsAtZero(t *testing.T) {
	cfg := Config{Window: 5, Penalty: 0.5, StreakEscalation: 0.5}
	cands := []recommendation.Candidate{cand("Go", recommendation.ActionTutorial, 1.0)}
	history := completions(
		recommendation.ActionTutorial, recommendation.ActionTutorial,
		recommendation.ActionTutorial, recommendation.ActionTutorial,
	)

	out := Apply(cands, history, cfg)
	if out[0].Score != 0 {
		t.Fatalf("expected floored score 0, got %f", out[0].Score)
	}
}

func TestApply_NegativeScoreIsNotLifted(t *testing.T) {
	// Feedback penalties can push a score below zero. Attenuating a
	// negative score would move it toward zero and promote the very
	// type the window is supposed to suppress.
	cands := []recommendation.Candidate{
		cand("Go", recommendation.ActionTutorial, -0.5),
		cand("SQL", recommendation.ActionArticle, -0.4),
	}
	history := completions(
		recommendation.ActionTutorial, recommendation.ActionTutorial, recommendation.ActionTutorial,
	)

	out := Apply(cands, history, DefaultConfig())
	if out[0].Action.Type != recommendation.ActionArticle {
		t.Fatalf("penalized tutorial must not outrank article, got %s first", out[0].Action.Type)
	}
	if out[1].Score != -0.5 {
		t.Fatalf("negative score must be unchanged, got %f", out[1].Score)
	}
}

func TestApply_ShrinksOverRepresentedShareOfTopHalf(t *testing.T) {
	mk := func() []recommendation.Candidate {
		return []recommendation.Candidate{
			cand("Go", recommendation.ActionTutorial, 0.9),
			cand("Rust", recommendation.ActionTutorial, 0.85),
			cand("Kafka", recommendation.ActionTutorial, 0.8),
			cand("SQL", recommendation.ActionArticle, 0.75),
			cand("Redis", recommendation.ActionArticle, 0.7),
			cand("Nginx", recommendation.ActionArticle, 0.65),
		}
	}
	tutorialsInTop3 := func(out []recommendation.Candidate) int {
		n := 0
		for _, c := range out[:3] {
			if c.Action.Type == recommendation.ActionTutorial {
				n++
			}
		}
		return n
	}

	before := tutorialsInTop3(Apply(mk(), nil, DefaultConfig()))
	streak := completions(
		recommendation.ActionTutorial, recommendation.ActionTutorial, recommendation.ActionTutorial,
	)
	after := tutorialsInTop3(Apply(mk(), streak, DefaultConfig()))

	if before != 3 {
		t.Fatalf("setup: tutorials should dominate without history, got %d", before)
	}
	if after >= before {
		t.Fatalf("tutorial share of the batch must drop after a streak: %d -> %d", before, after)
	}
}

func TestApply_TieBreakDeterministic(t *testing.T) {
	cands := []recommendation.Candidate{
		cand("Zookeeper", recommendation.ActionArticle, 0.5),
		cand("Ansible", recommendation.ActionArticle, 0.5),
	}
	out := Apply(cands, nil, DefaultConfig())
	if out[0].SkillGap.SkillName != "Ansible" {
		t.Fatalf("equal scores should break by skill name, got %s", out[0].SkillGap.SkillName)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	cands := []recommendation.Candidate{cand("Go", recommendation.ActionTutorial, 0.8)}
	_ = Apply(cands, completions(recommendation.ActionTutorial), DefaultConfig())
	if cands[0].Score != 0.8 {
		t.Fatalf("input slice mutated: %f", cands[0].Score)
	}
}
