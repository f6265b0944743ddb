package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"skill-coach/internal/analysis"
	"skill-coach/internal/domain/preference"
	"skill-coach/internal/domain/progress"
	"skill-coach/internal/domain/recommendation"
	"skill-coach/internal/oracle"
)

func ownedRecommendation(userID uuid.UUID) recommendation.Recommendation {
	return recommendation.Recommendation{
		ID:     uuid.New(),
		UserID: userID,
		Action: recommendation.Action{
			Type:  recommendation.ActionTutorial,
			Title: "Guided Go tutorial",
		},
		SkillGapsAddressed: []string{"Go"},
		SkillCategory:      "backend",
	}
}

func TestRecordCompletion_AppendsRecord(t *testing.T) {
	userID := uuid.New()
	rec := ownedRecommendation(userID)

	progressRepo := &mockProgressRepo{}
	a := NewFeedbackAdapter(
		&mockRecRepo{byID: map[uuid.UUID]recommendation.Recommendation{rec.ID: rec}},
		progressRepo, &mockPrefRepo{}, nil, 1, nil,
	)

	record, err := a.RecordCompletion(context.Background(), userID, rec.ID, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(progressRepo.appended) != 1 {
		t.Fatalf("expected 1 appended record, got %d", len(progressRepo.appended))
	}
	if record.Fingerprint != recommendation.Fingerprint(recommendation.ActionTutorial, "Go") {
		t.Fatalf("unexpected fingerprint: %s", record.Fingerprint)
	}
	if record.SkillName != "Go" || record.SkillCategory != "backend" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Feedback != nil {
		t.Fatalf("no feedback was given")
	}
}

func TestRecordCompletion_MarksAnalysisStale(t *testing.T) {
	userID := uuid.New()
	rec := ownedRecommendation(userID)

	cache := analysis.NewCache(&stubGapOracle{skills: []oracle.RequiredSkill{
		{SkillName: "Go", Category: "backend", TargetLevel: 6},
	}}, nil, time.Hour, nil)

	uc := serviceUser()
	uc.UserID = userID
	if _, err := cache.Get(context.Background(), uc, nil); err != nil {
		t.Fatalf("warmup failed: %v", err)
	}

	a := NewFeedbackAdapter(
		&mockRecRepo{byID: map[uuid.UUID]recommendation.Recommendation{rec.ID: rec}},
		&mockProgressRepo{}, &mockPrefRepo{}, cache, 1, nil,
	)
	if _, err := a.RecordCompletion(context.Background(), userID, rec.ID, nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st := cache.StateFor(userID); st != analysis.StateStale {
		t.Fatalf("completion must downgrade analysis, got %s", st)
	}
}

func TestRecordCompletion_HelpfulBoostsActionType(t *testing.T) {
	userID := uuid.New()
	rec := ownedRecommendation(userID)
	prefRepo := &mockPrefRepo{}

	a := NewFeedbackAdapter(
		&mockRecRepo{byID: map[uuid.UUID]recommendation.Recommendation{rec.ID: rec}},
		&mockProgressRepo{}, prefRepo, nil, 1, nil,
	)

	_, err := a.RecordCompletion(context.Background(), userID, rec.ID, &FeedbackInput{Rating: "helpful"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if prefRepo.put == nil {
		t.Fatalf("adjustment was not persisted")
	}
	got := prefRepo.put.ActionTypes[recommendation.ActionTutorial]
	if math.Abs(got-helpfulBoost) > 1e-9 {
		t.Fatalf("expected %f boost, got %f", helpfulBoost, got)
	}
}

func TestRecordCompletion_InvalidRating(t *testing.T) {
	userID := uuid.New()
	rec := ownedRecommendation(userID)

	a := NewFeedbackAdapter(
		&mockRecRepo{byID: map[uuid.UUID]recommendation.Recommendation{rec.ID: rec}},
		&mockProgressRepo{}, &mockPrefRepo{}, nil, 1, nil,
	)

	_, err := a.RecordCompletion(context.Background(), userID, rec.ID, &FeedbackInput{Rating: "meh"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRecordCompletion_UnknownRecommendation(t *testing.T) {
	a := NewFeedbackAdapter(&mockRecRepo{}, &mockProgressRepo{}, &mockPrefRepo{}, nil, 1, nil)
	_, err := a.RecordCompletion(context.Background(), uuid.New(), uuid.New(), nil)
	if !errors.Is(err, ErrRecommendationNotFound) {
		t.Fatalf("expected ErrRecommendationNotFound, got %v", err)
	}
}

func TestRecordCompletion_WrongOwner(t *testing.T) {
	rec := ownedRecommendation(uuid.New())
	a := NewFeedbackAdapter(
		&mockRecRepo{byID: map[uuid.UUID]recommendation.Recommendation{rec.ID: rec}},
		&mockProgressRepo{}, &mockPrefRepo{}, nil, 1, nil,
	)
	_, err := a.RecordCompletion(context.Background(), uuid.New(), rec.ID, nil)
	if !errors.Is(err, ErrRecommendationNotFound) {
		t.Fatalf("another user's recommendation must read as missing, got %v", err)
	}
}

func TestSubmitFeedback_NotHelpfulPenalizesActionType(t *testing.T) {
	userID := uuid.New()
	rec := ownedRecommendation(userID)
	prefRepo := &mockPrefRepo{}
	progressRepo := &mockProgressRepo{}

	a := NewFeedbackAdapter(
		&mockRecRepo{byID: map[uuid.UUID]recommendation.Recommendation{rec.ID: rec}},
		progressRepo, prefRepo, nil, 1, nil,
	)

	if err := a.SubmitFeedback(context.Background(), userID, rec.ID, FeedbackInput{Rating: "not_helpful"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(progressRepo.attached) != 1 {
		t.Fatalf("feedback was not attached")
	}
	got := prefRepo.put.ActionTypes[recommendation.ActionTutorial]
	if math.Abs(got-notHelpfulPenalty) > 1e-9 {
		t.Fatalf("expected %f, got %f", notHelpfulPenalty, got)
	}
}

func TestSubmitFeedback_UncompletedRecommendationLeavesPreferences(t *testing.T) {
	userID := uuid.New()
	rec := ownedRecommendation(userID)
	prefRepo := &mockPrefRepo{}
	progressRepo := &mockProgressRepo{attachErr: progress.ErrNoRecord}

	a := NewFeedbackAdapter(
		&mockRecRepo{byID: map[uuid.UUID]recommendation.Recommendation{rec.ID: rec}},
		progressRepo, prefRepo, nil, 1, nil,
	)

	err := a.SubmitFeedback(context.Background(), userID, rec.ID, FeedbackInput{Rating: "not_helpful"})
	if !errors.Is(err, ErrRecommendationNotFound) {
		t.Fatalf("expected ErrRecommendationNotFound, got %v", err)
	}
	if prefRepo.put != nil {
		t.Fatal("adjustment table must not change when no record holds the feedback")
	}
}

func TestSubmitFeedback_IrrelevantPenalizesCategory(t *testing.T) {
	userID := uuid.New()
	rec := ownedRecommendation(userID)
	prefRepo := &mockPrefRepo{}

	a := NewFeedbackAdapter(
		&mockRecRepo{byID: map[uuid.UUID]recommendation.Recommendation{rec.ID: rec}},
		&mockProgressRepo{}, prefRepo, nil, 1, nil,
	)

	if err := a.SubmitFeedback(context.Background(), userID, rec.ID, FeedbackInput{Rating: "irrelevant"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := prefRepo.put.Categories["backend"]
	if math.Abs(got-irrelevantPenalty) > 1e-9 {
		t.Fatalf("expected %f on category, got %f", irrelevantPenalty, got)
	}
	if len(prefRepo.put.ActionTypes) != 0 {
		t.Fatalf("irrelevant must not touch action types: %v", prefRepo.put.ActionTypes)
	}
}

func TestSubmitFeedback_SignalsCompoundAndClamp(t *testing.T) {
	userID := uuid.New()
	rec := ownedRecommendation(userID)
	adj := preference.NewAdjustment(userID)
	adj.AddCategory("backend", -0.8)
	prefRepo := &mockPrefRepo{adj: adj}

	a := NewFeedbackAdapter(
		&mockRecRepo{byID: map[uuid.UUID]recommendation.Recommendation{rec.ID: rec}},
		&mockProgressRepo{}, prefRepo, nil, 1, nil,
	)

	if err := a.SubmitFeedback(context.Background(), userID, rec.ID, FeedbackInput{Rating: "irrelevant"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := prefRepo.put.Categories["backend"]; got != preference.MinAdjust {
		t.Fatalf("expected clamp at %f, got %f", preference.MinAdjust, got)
	}
}

func TestDecayPreferences(t *testing.T) {
	userID := uuid.New()
	adj := preference.NewAdjustment(userID)
	adj.AddActionType(recommendation.ActionCourse, 0.4)
	prefRepo := &mockPrefRepo{adj: adj}

	a := NewFeedbackAdapter(&mockRecRepo{}, &mockProgressRepo{}, prefRepo, nil, 1, nil)
	if err := a.DecayPreferences(context.Background(), userID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := prefRepo.put.ActionTypes[recommendation.ActionCourse]
	if math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("expected halved value 0.2, got %f", got)
	}
}

func TestResetPreferences(t *testing.T) {
	userID := uuid.New()
	prefRepo := &mockPrefRepo{}

	a := NewFeedbackAdapter(&mockRecRepo{}, &mockProgressRepo{}, prefRepo, nil, 1, nil)
	if err := a.ResetPreferences(context.Background(), userID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if prefRepo.put == nil {
		t.Fatalf("reset must persist an empty adjustment")
	}
	if len(prefRepo.put.ActionTypes) != 0 || len(prefRepo.put.Categories) != 0 {
		t.Fatalf("expected cleared tables: %+v", prefRepo.put)
	}
}
