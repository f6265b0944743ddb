package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"skill-coach/internal/analysis"
	"skill-coach/internal/domain/usercontext"
	"skill-coach/internal/pkg/retry"
)

// Invalidator drops per-user cached artifacts outside the analysis cache
// itself. The redis wrapper satisfies it; nil disables the step.
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID string) error
}

type UpdateContextInput struct {
	RoleGoals                    []string
	ExperienceLevel              string
	TimeAvailabilityHoursPerWeek float64
	Challenges                   string
	Interests                    string
}

type ContextUsecase interface {
	GetContext(ctx context.Context, userID uuid.UUID) (usercontext.UserContext, error)
	UpdateContext(ctx context.Context, userID uuid.UUID, in UpdateContextInput) (usercontext.UserContext, error)
}

type Context struct {
	contexts    usercontext.Repository
	cache       *analysis.Cache
	invalidator Invalidator
	retries     int
	logger      *log.Logger
}

func NewContextUsecase(contexts usercontext.Repository, cache *analysis.Cache, invalidator Invalidator, retries int, logger *log.Logger) *Context {
	if retries <= 0 {
		retries = 3
	}
	return &Context{contexts: contexts, cache: cache, invalidator: invalidator, retries: retries, logger: logger}
}

func (u *Context) GetContext(ctx context.Context, userID uuid.UUID) (usercontext.UserContext, error) {
	if userID == uuid.Nil {
		return usercontext.UserContext{}, ErrInvalidInput
	}
	uc, err := u.contexts.Get(ctx, userID)
	if errors.Is(err, usercontext.ErrNotFound) {
		return usercontext.UserContext{}, ErrContextNotFound
	}
	if err != nil {
		return usercontext.UserContext{}, ErrStorageFailure
	}
	return uc, nil
}

// UpdateContext validates and stores the new context, then downgrades the
// user's analysis so the next generation re-runs the oracle against the
// updated goals.
func (u *Context) UpdateContext(ctx context.Context, userID uuid.UUID, in UpdateContextInput) (usercontext.UserContext, error) {
	if userID == uuid.Nil {
		return usercontext.UserContext{}, ErrInvalidInput
	}

	goals := make([]string, 0, len(in.RoleGoals))
	for _, g := range in.RoleGoals {
		g = strings.TrimSpace(g)
		if g != "" {
			goals = append(goals, g)
		}
	}
	if len(goals) == 0 {
		return usercontext.UserContext{}, ErrInvalidInput
	}

	level, ok := usercontext.ParseExperienceLevel(in.ExperienceLevel)
	if !ok {
		return usercontext.UserContext{}, ErrInvalidInput
	}
	if in.TimeAvailabilityHoursPerWeek < 0 {
		return usercontext.UserContext{}, ErrInvalidInput
	}

	uc := usercontext.UserContext{
		UserID:                       userID,
		RoleGoals:                    goals,
		ExperienceLevel:              level,
		TimeAvailabilityHoursPerWeek: in.TimeAvailabilityHoursPerWeek,
		Challenges:                   strings.TrimSpace(in.Challenges),
		Interests:                    strings.TrimSpace(in.Interests),
		UpdatedAt:                    time.Now().UTC(),
	}

	err := retry.Do(ctx, u.retries, 100*time.Millisecond, func(ctx context.Context) error {
		return u.contexts.Put(ctx, uc)
	})
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Context] put failed after retries | user=%s err=%v", userID, err)
		}
		return usercontext.UserContext{}, ErrStorageFailure
	}

	if u.cache != nil {
		u.cache.MarkStale(userID)
	}
	if u.invalidator != nil {
		if err := u.invalidator.InvalidateUser(ctx, userID.String()); err != nil && u.logger != nil {
			u.logger.Printf("[Context] cache invalidation failed | user=%s err=%v", userID, err)
		}
	}

	return uc, nil
}
