package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"skill-coach/internal/analysis"
	"skill-coach/internal/domain/usercontext"
	"skill-coach/internal/oracle"
)

type mockInvalidator struct {
	calls []string
	err   error
}

func (m *mockInvalidator) InvalidateUser(_ context.Context, userID string) error {
	m.calls = append(m.calls, userID)
	return m.err
}

func validInput() UpdateContextInput {
	return UpdateContextInput{
		RoleGoals:                    []string{"backend developer"},
		ExperienceLevel:              "beginner",
		TimeAvailabilityHoursPerWeek: 4,
	}
}

func TestUpdateContext_Success(t *testing.T) {
	repo := &mockContextRepo{}
	inv := &mockInvalidator{}
	u := NewContextUsecase(repo, nil, inv, 1, nil)
	userID := uuid.New()

	uc, err := u.UpdateContext(context.Background(), userID, validInput())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.put == nil {
		t.Fatalf("context was not persisted")
	}
	if uc.ExperienceLevel != usercontext.LevelBeginner {
		t.Fatalf("unexpected level: %s", uc.ExperienceLevel)
	}
	if len(inv.calls) != 1 || inv.calls[0] != userID.String() {
		t.Fatalf("expected cached artifacts invalidated: %v", inv.calls)
	}
}

func TestUpdateContext_Validation(t *testing.T) {
	u := NewContextUsecase(&mockContextRepo{}, nil, nil, 1, nil)
	userID := uuid.New()

	in := validInput()
	in.RoleGoals = []string{"  ", ""}
	if _, err := u.UpdateContext(context.Background(), userID, in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank goals: expected ErrInvalidInput, got %v", err)
	}

	in = validInput()
	in.ExperienceLevel = "wizard"
	if _, err := u.UpdateContext(context.Background(), userID, in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad level: expected ErrInvalidInput, got %v", err)
	}

	in = validInput()
	in.TimeAvailabilityHoursPerWeek = -1
	if _, err := u.UpdateContext(context.Background(), userID, in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative hours: expected ErrInvalidInput, got %v", err)
	}

	if _, err := u.UpdateContext(context.Background(), uuid.Nil, validInput()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("nil user: expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateContext_DowngradesAnalysis(t *testing.T) {
	cache := analysis.NewCache(&stubGapOracle{skills: []oracle.RequiredSkill{
		{SkillName: "Go", Category: "backend", TargetLevel: 6},
	}}, nil, time.Hour, nil)

	uc := serviceUser()
	if _, err := cache.Get(context.Background(), uc, nil); err != nil {
		t.Fatalf("warmup failed: %v", err)
	}

	u := NewContextUsecase(&mockContextRepo{}, cache, nil, 1, nil)
	if _, err := u.UpdateContext(context.Background(), uc.UserID, validInput()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st := cache.StateFor(uc.UserID); st != analysis.StateStale {
		t.Fatalf("context update must downgrade analysis, got %s", st)
	}
}

func TestUpdateContext_InvalidatorFailureIsBestEffort(t *testing.T) {
	u := NewContextUsecase(&mockContextRepo{}, nil, &mockInvalidator{err: errors.New("redis down")}, 1, nil)
	if _, err := u.UpdateContext(context.Background(), uuid.New(), validInput()); err != nil {
		t.Fatalf("invalidator failure must not fail the update: %v", err)
	}
}

func TestUpdateContext_StorageFailure(t *testing.T) {
	u := NewContextUsecase(&mockContextRepo{putErr: errors.New("down")}, nil, nil, 1, nil)
	if _, err := u.UpdateContext(context.Background(), uuid.New(), validInput()); !errors.Is(err, ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
}

func TestGetContext_NotFound(t *testing.T) {
	u := NewContextUsecase(&mockContextRepo{getErr: usercontext.ErrNotFound}, nil, nil, 1, nil)
	if _, err := u.GetContext(context.Background(), uuid.New()); !errors.Is(err, ErrContextNotFound) {
		t.Fatalf("expected ErrContextNotFound, got %v", err)
	}
}
