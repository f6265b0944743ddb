package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"skill-coach/internal/analysis"
	"skill-coach/internal/domain/preference"
	"skill-coach/internal/domain/progress"
	"skill-coach/internal/domain/recommendation"
	"skill-coach/internal/pkg/retry"
)

// Feedback signal strengths. Signals accumulate in the per-user adjustment
// table and compound across submissions (clamped in the domain type).
const (
	helpfulBoost      = 0.2
	notHelpfulPenalty = -0.3
	irrelevantPenalty = -0.5
)

type FeedbackInput struct {
	Rating  string
	Comment string
}

type FeedbackUsecase interface {
	RecordCompletion(ctx context.Context, userID, recommendationID uuid.UUID, fb *FeedbackInput) (progress.Record, error)
	SubmitFeedback(ctx context.Context, userID, recommendationID uuid.UUID, fb FeedbackInput) error
	DecayPreferences(ctx context.Context, userID uuid.UUID) error
	ResetPreferences(ctx context.Context, userID uuid.UUID) error
}

// FeedbackAdapter owns the preference adjustment table: it is the only
// writer, translating explicit ratings into penalties and boosts the
// priority engine reads on every scoring pass.
type FeedbackAdapter struct {
	recs     recommendation.Repository
	progress progress.Repository
	prefs    preference.Repository
	cache    *analysis.Cache
	retries  int
	logger   *log.Logger
}

func NewFeedbackAdapter(
	recs recommendation.Repository,
	progressRepo progress.Repository,
	prefs preference.Repository,
	cache *analysis.Cache,
	retries int,
	logger *log.Logger,
) *FeedbackAdapter {
	if retries <= 0 {
		retries = 3
	}
	return &FeedbackAdapter{
		recs:     recs,
		progress: progressRepo,
		prefs:    prefs,
		cache:    cache,
		retries:  retries,
		logger:   logger,
	}
}

// RecordCompletion appends a progress record for the recommendation and
// downgrades the user's analysis so the completion shows up in the next
// cycle's current levels. Optional feedback is applied in the same call.
func (a *FeedbackAdapter) RecordCompletion(ctx context.Context, userID, recommendationID uuid.UUID, fb *FeedbackInput) (progress.Record, error) {
	if userID == uuid.Nil || recommendationID == uuid.Nil {
		return progress.Record{}, ErrInvalidInput
	}

	rec, err := a.loadOwnedRecommendation(ctx, userID, recommendationID)
	if err != nil {
		return progress.Record{}, err
	}

	var parsed *progress.Feedback
	if fb != nil {
		rating, ok := progress.ParseRating(fb.Rating)
		if !ok {
			return progress.Record{}, ErrInvalidInput
		}
		parsed = &progress.Feedback{Rating: rating, Comment: fb.Comment}
	}

	skillName := ""
	if len(rec.SkillGapsAddressed) > 0 {
		skillName = rec.SkillGapsAddressed[0]
	}

	record := progress.Record{
		ID:               uuid.New(),
		UserID:           userID,
		RecommendationID: recommendationID,
		Fingerprint:      rec.Fingerprint(),
		ActionType:       rec.Action.Type,
		SkillCategory:    categoryOf(rec),
		SkillName:        skillName,
		CompletedAt:      time.Now().UTC(),
		Feedback:         parsed,
	}

	err = retry.Do(ctx, a.retries, 100*time.Millisecond, func(ctx context.Context) error {
		return a.progress.Append(ctx, record)
	})
	if err != nil {
		if a.logger != nil {
			a.logger.Printf("[Feedback] progress append failed | user=%s err=%v", userID, err)
		}
		return progress.Record{}, ErrStorageFailure
	}

	if parsed != nil {
		if err := a.applyAdjustment(ctx, userID, rec, parsed.Rating); err != nil {
			return progress.Record{}, err
		}
	}

	// The completed action changes the skill's current level next cycle.
	if a.cache != nil {
		a.cache.MarkStale(userID)
	}

	return record, nil
}

// SubmitFeedback attaches a rating to an already-completed recommendation
// and folds it into the adjustment table.
func (a *FeedbackAdapter) SubmitFeedback(ctx context.Context, userID, recommendationID uuid.UUID, fb FeedbackInput) error {
	if userID == uuid.Nil || recommendationID == uuid.Nil {
		return ErrInvalidInput
	}
	rating, ok := progress.ParseRating(fb.Rating)
	if !ok {
		return ErrInvalidInput
	}

	rec, err := a.loadOwnedRecommendation(ctx, userID, recommendationID)
	if err != nil {
		return err
	}

	err = retry.Do(ctx, a.retries, 100*time.Millisecond, func(ctx context.Context) error {
		return a.progress.AttachFeedback(ctx, userID, recommendationID, progress.Feedback{Rating: rating, Comment: fb.Comment})
	})
	if errors.Is(err, progress.ErrNoRecord) {
		// The recommendation exists but was never completed; nothing to
		// rate, and the adjustment table must stay untouched.
		return ErrRecommendationNotFound
	}
	if err != nil {
		if a.logger != nil {
			a.logger.Printf("[Feedback] attach failed | user=%s err=%v", userID, err)
		}
		return ErrStorageFailure
	}

	return a.applyAdjustment(ctx, userID, rec, rating)
}

func (a *FeedbackAdapter) DecayPreferences(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrInvalidInput
	}
	adj, err := a.prefs.Get(ctx, userID)
	if err != nil {
		return ErrStorageFailure
	}
	adj.Decay()
	if err := a.prefs.Put(ctx, adj); err != nil {
		return ErrStorageFailure
	}
	return nil
}

func (a *FeedbackAdapter) ResetPreferences(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := a.prefs.Put(ctx, preference.NewAdjustment(userID)); err != nil {
		return ErrStorageFailure
	}
	return nil
}

func (a *FeedbackAdapter) applyAdjustment(ctx context.Context, userID uuid.UUID, rec recommendation.Recommendation, rating progress.Rating) error {
	adj, err := a.prefs.Get(ctx, userID)
	if err != nil {
		return ErrStorageFailure
	}

	switch rating {
	case progress.RatingHelpful:
		adj.AddActionType(rec.Action.Type, helpfulBoost)
	case progress.RatingNotHelpful:
		adj.AddActionType(rec.Action.Type, notHelpfulPenalty)
	case progress.RatingIrrelevant:
		adj.AddCategory(categoryOf(rec), irrelevantPenalty)
	}

	err = retry.Do(ctx, a.retries, 100*time.Millisecond, func(ctx context.Context) error {
		return a.prefs.Put(ctx, adj)
	})
	if err != nil {
		if a.logger != nil {
			a.logger.Printf("[Feedback] adjustment persist failed | user=%s err=%v", userID, err)
		}
		return ErrStorageFailure
	}
	return nil
}

func (a *FeedbackAdapter) loadOwnedRecommendation(ctx context.Context, userID, recommendationID uuid.UUID) (recommendation.Recommendation, error) {
	rec, err := a.recs.GetByID(ctx, recommendationID)
	if errors.Is(err, recommendation.ErrNotFound) {
		return recommendation.Recommendation{}, ErrRecommendationNotFound
	}
	if err != nil {
		return recommendation.Recommendation{}, ErrStorageFailure
	}
	if rec.UserID != userID {
		return recommendation.Recommendation{}, ErrRecommendationNotFound
	}
	return rec, nil
}

func categoryOf(rec recommendation.Recommendation) string {
	if rec.SkillCategory != "" {
		return rec.SkillCategory
	}
	return "general"
}
