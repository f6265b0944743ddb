package progress

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"skill-coach/internal/domain/recommendation"
)

// ErrNoRecord is returned when feedback targets a recommendation the
// user never completed. Feedback attaches to exactly one record.
var ErrNoRecord = errors.New("no progress record for recommendation")

type Rating string

const (
	RatingHelpful    Rating = "helpful"
	RatingNotHelpful Rating = "not_helpful"
	RatingIrrelevant Rating = "irrelevant"
)

func ParseRating(raw string) (Rating, bool) {
	switch Rating(strings.ToLower(strings.TrimSpace(raw))) {
	case RatingHelpful:
		return RatingHelpful, true
	case RatingNotHelpful:
		return RatingNotHelpful, true
	case RatingIrrelevant:
		return RatingIrrelevant, true
	}
	return "", false
}

type Feedback struct {
	Rating  Rating
	Comment string
}

// Record is one completed recommendation. Records are append-only and
// ordered by CompletedAt; diversity and decay both depend on that order.
type Record struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	RecommendationID uuid.UUID
	Fingerprint      string
	ActionType       recommendation.ActionType
	SkillCategory    string
	SkillName        string
	CompletedAt      time.Time
	Feedback         *Feedback
}
