package constraint

import (
	"testing"

	"skill-coach/internal/domain/gap"
	"skill-coach/internal/domain/recommendation"
	"skill-coach/internal/domain/usercontext"
)

func cand(skill string, priority int, actionType recommendation.ActionType, minutes int) recommendation.Candidate {
	return recommendation.Candidate{
		Action:               recommendation.Action{Type: actionType, Title: skill},
		SkillGap:             gap.SkillGap{SkillName: skill, Priority: priority, CurrentLevel: 1, TargetLevel: 4},
		EstimatedTimeMinutes: minutes,
	}
}

func TestBucket(t *testing.T) {
	if b := Bucket(30); b != BucketQuick {
		t.Fatalf("30min: expected quick, got %s", b)
	}
	if b := Bucket(60); b != BucketQuick {
		t.Fatalf("60min boundary: expected quick, got %s", b)
	}
	if b := Bucket(61); b != BucketMedium {
		t.Fatalf("61min: expected medium, got %s", b)
	}
	if b := Bucket(180); b != BucketMedium {
		t.Fatalf("180min boundary: expected medium, got %s", b)
	}
	if b := Bucket(181); b != BucketLong {
		t.Fatalf("181min: expected long, got %s", b)
	}
}

func TestAllowedBuckets(t *testing.T) {
	low := AllowedBuckets(1)
	if !low[BucketQuick] || low[BucketMedium] || low[BucketLong] {
		t.Fatalf("1h/week should allow quick only: %v", low)
	}
	mid := AllowedBuckets(3)
	if !mid[BucketQuick] || !mid[BucketMedium] || mid[BucketLong] {
		t.Fatalf("3h/week should allow quick+medium: %v", mid)
	}
	high := AllowedBuckets(5)
	if !high[BucketQuick] || !high[BucketMedium] || !high[BucketLong] {
		t.Fatalf("5h/week should allow everything: %v", high)
	}
}

func TestFilterTime_TightBudgetKeepsQuickOnly(t *testing.T) {
	cands := []recommendation.Candidate{
		cand("Go", 1, recommendation.ActionTutorial, 30),
		cand("SQL", 2, recommendation.ActionTutorial, 90),
		cand("Kubernetes", 3, recommendation.ActionCourse, 240),
	}

	out := FilterTime(cands, 1)
	if len(out) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(out))
	}
	if out[0].SkillGap.SkillName != "Go" || out[0].ExceedsTimeBudget {
		t.Fatalf("expected unflagged Go, got %+v", out[0])
	}
}

func TestFilterTime_SlackFlagsInsteadOfDropping(t *testing.T) {
	// 1h/week budget with 1.2 slack = 72 minutes. A 70-minute medium
	// candidate is kept but flagged.
	cands := []recommendation.Candidate{
		cand("Go", 1, recommendation.ActionTutorial, 30),
		cand("SQL", 2, recommendation.ActionTutorial, 70),
	}

	out := FilterTime(cands, 1)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(out))
	}
	if !out[1].ExceedsTimeBudget {
		t.Fatalf("expected the 70-minute candidate flagged")
	}
}

func TestFilterTime_TopPriorityGapResurrected(t *testing.T) {
	// The only candidate for the top-priority gap is way over budget. It
	// must come back flagged rather than starving the gap.
	cands := []recommendation.Candidate{
		cand("Kubernetes", 1, recommendation.ActionCourse, 240),
		cand("Go", 2, recommendation.ActionTutorial, 30),
	}

	out := FilterTime(cands, 1)
	var k8s *recommendation.Candidate
	for i := range out {
		if out[i].SkillGap.SkillName == "Kubernetes" {
			k8s = &out[i]
		}
	}
	if k8s == nil {
		t.Fatalf("top-priority gap lost all candidates")
	}
	if !k8s.ExceedsTimeBudget {
		t.Fatalf("resurrected candidate must be flagged")
	}
}

func TestFilterTime_LowerPriorityGapNotResurrected(t *testing.T) {
	cands := []recommendation.Candidate{
		cand("Go", 1, recommendation.ActionTutorial, 30),
		cand("Kubernetes", 2, recommendation.ActionCourse, 240),
	}

	out := FilterTime(cands, 1)
	for _, c := range out {
		if c.SkillGap.SkillName == "Kubernetes" {
			t.Fatalf("lower-priority over-budget candidate should be dropped")
		}
	}
}

func TestFilterExperience_NarrowsByLevel(t *testing.T) {
	cands := []recommendation.Candidate{
		cand("Go", 1, recommendation.ActionTutorial, 30),
		cand("Go", 1, recommendation.ActionDocumentation, 30),
	}

	out := FilterExperience(cands, usercontext.LevelBeginner)
	if len(out) != 1 || out[0].Action.Type != recommendation.ActionTutorial {
		t.Fatalf("beginner should keep tutorial only, got %+v", out)
	}

	out = FilterExperience(cands, usercontext.LevelAdvanced)
	if len(out) != 1 || out[0].Action.Type != recommendation.ActionDocumentation {
		t.Fatalf("advanced should keep documentation only, got %+v", out)
	}
}

func TestFilterExperience_NeverEmptiesAGap(t *testing.T) {
	// Every candidate for SQL is outside the beginner set; the gap keeps
	// its originals instead of vanishing.
	cands := []recommendation.Candidate{
		cand("Go", 1, recommendation.ActionTutorial, 30),
		cand("SQL", 2, recommendation.ActionChallenge, 45),
	}

	out := FilterExperience(cands, usercontext.LevelBeginner)
	if len(out) != 2 {
		t.Fatalf("expected both gaps represented, got %d", len(out))
	}
}
