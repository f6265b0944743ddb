package preference

import (
	"context"

	"github.com/google/uuid"

	"skill-coach/internal/domain/recommendation"
)

const (
	MinAdjust = -1.0
	MaxAdjust = 1.0
)

// Adjustment is the per-user penalty/boost table accumulated from explicit
// feedback. Values compound across signals and are clamped to
// [MinAdjust, MaxAdjust]. Only the feedback adapter mutates it; the
// priority engine reads it on every scoring pass.
type Adjustment struct {
	UserID      uuid.UUID
	ActionTypes map[recommendation.ActionType]float64
	Categories  map[string]float64
}

func NewAdjustment(userID uuid.UUID) Adjustment {
	return Adjustment{
		UserID:      userID,
		ActionTypes: make(map[recommendation.ActionType]float64),
		Categories:  make(map[string]float64),
	}
}

func (a *Adjustment) AddActionType(t recommendation.ActionType, delta float64) {
	if a.ActionTypes == nil {
		a.ActionTypes = make(map[recommendation.ActionType]float64)
	}
	a.ActionTypes[t] = clamp(a.ActionTypes[t] + delta)
}

func (a *Adjustment) AddCategory(category string, delta float64) {
	if a.Categories == nil {
		a.Categories = make(map[string]float64)
	}
	a.Categories[category] = clamp(a.Categories[category] + delta)
}

// ForGap is the additive score adjustment for a gap in the given category
// when addressed through the given action type.
func (a Adjustment) ForGap(category string, t recommendation.ActionType) float64 {
	return a.ActionTypes[t] + a.Categories[category]
}

func (a Adjustment) ForCategory(category string) float64 {
	return a.Categories[category]
}

// Decay halves every entry, dropping values too small to matter.
func (a *Adjustment) Decay() {
	for k, v := range a.ActionTypes {
		v /= 2
		if v > -0.01 && v < 0.01 {
			delete(a.ActionTypes, k)
			continue
		}
		a.ActionTypes[k] = v
	}
	for k, v := range a.Categories {
		v /= 2
		if v > -0.01 && v < 0.01 {
			delete(a.Categories, k)
			continue
		}
		a.Categories[k] = v
	}
}

func clamp(v float64) float64 {
	if v < MinAdjust {
		return MinAdjust
	}
	if v > MaxAdjust {
		return MaxAdjust
	}
	return v
}

type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (Adjustment, error)
	Put(ctx context.Context, adj Adjustment) error
}
