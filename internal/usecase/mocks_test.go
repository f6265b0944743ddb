package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"skill-coach/internal/domain/gap"
	"skill-coach/internal/domain/preference"
	"skill-coach/internal/domain/progress"
	"skill-coach/internal/domain/recommendation"
	"skill-coach/internal/domain/usercontext"
	"skill-coach/internal/oracle"
)

type mockContextRepo struct {
	uc     usercontext.UserContext
	getErr error
	putErr error
	put    *usercontext.UserContext
}

func (m *mockContextRepo) Get(context.Context, uuid.UUID) (usercontext.UserContext, error) {
	if m.getErr != nil {
		return usercontext.UserContext{}, m.getErr
	}
	return m.uc, nil
}

func (m *mockContextRepo) Put(_ context.Context, uc usercontext.UserContext) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.put = &uc
	return nil
}

type mockProgressRepo struct {
	records   []progress.Record
	appendErr error
	attachErr error
	appended  []progress.Record
	attached  []progress.Feedback
}

func (m *mockProgressRepo) Append(_ context.Context, rec progress.Record) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, rec)
	return nil
}

func (m *mockProgressRepo) Query(context.Context, uuid.UUID, int) ([]progress.Record, error) {
	return m.records, nil
}

func (m *mockProgressRepo) AttachFeedback(_ context.Context, _, _ uuid.UUID, fb progress.Feedback) error {
	if m.attachErr != nil {
		return m.attachErr
	}
	m.attached = append(m.attached, fb)
	return nil
}

type mockPrefRepo struct {
	adj    preference.Adjustment
	getErr error
	putErr error
	put    *preference.Adjustment
}

func (m *mockPrefRepo) Get(_ context.Context, userID uuid.UUID) (preference.Adjustment, error) {
	if m.getErr != nil {
		return preference.Adjustment{}, m.getErr
	}
	if m.adj.ActionTypes == nil {
		return preference.NewAdjustment(userID), nil
	}
	return m.adj, nil
}

func (m *mockPrefRepo) Put(_ context.Context, adj preference.Adjustment) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.put = &adj
	return nil
}

type mockRecRepo struct {
	byID    map[uuid.UUID]recommendation.Recommendation
	listed  []recommendation.Recommendation
	saveErr error
	saved   [][]recommendation.Recommendation
}

func (m *mockRecRepo) SaveBatch(_ context.Context, recs []recommendation.Recommendation) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, recs)
	return nil
}

func (m *mockRecRepo) GetByID(_ context.Context, id uuid.UUID) (recommendation.Recommendation, error) {
	rec, ok := m.byID[id]
	if !ok {
		return recommendation.Recommendation{}, recommendation.ErrNotFound
	}
	return rec, nil
}

func (m *mockRecRepo) ListByUser(context.Context, uuid.UUID, int) ([]recommendation.Recommendation, error) {
	return m.listed, nil
}

func gapNamed(name string) gap.SkillGap {
	return gap.SkillGap{SkillName: name, Category: "backend", CurrentLevel: 1, TargetLevel: 4}
}

type stubGapOracle struct {
	mu     sync.Mutex
	skills []oracle.RequiredSkill
	err    error
}

func (s *stubGapOracle) Infer(context.Context, usercontext.UserContext) ([]oracle.RequiredSkill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.skills, nil
}
