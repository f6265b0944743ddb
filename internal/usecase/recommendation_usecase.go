package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"skill-coach/internal/analysis"
	"skill-coach/internal/catalog"
	"skill-coach/internal/domain/constraint"
	"skill-coach/internal/domain/diversity"
	"skill-coach/internal/domain/gap"
	"skill-coach/internal/domain/preference"
	"skill-coach/internal/domain/progress"
	"skill-coach/internal/domain/priority"
	"skill-coach/internal/domain/recommendation"
	"skill-coach/internal/domain/usercontext"
	"skill-coach/internal/pkg/retry"
)

// Notifier pushes per-user events to connected clients. Nil-safe via the
// zero check at call sites; the ws hub implements it.
type Notifier interface {
	AnalysisRefreshed(userID uuid.UUID, gapCount int, stale bool)
	RecommendationsReady(userID uuid.UUID, count int)
}

// BatchCache stores the latest generated batch for cheap re-reads. The
// redis wrapper satisfies it.
type BatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type GenerateResult struct {
	Recommendations []recommendation.Recommendation
	// Degraded is set when the batch was produced from a stale analysis
	// or with template explanations.
	Degraded   bool
	AnalyzedAt time.Time
}

type AnalysisResult struct {
	Gaps       []gap.SkillGap
	Stale      bool
	AnalyzedAt time.Time
}

type RecommendationUsecase interface {
	Generate(ctx context.Context, userID uuid.UUID, count int) (GenerateResult, error)
	RefreshAnalysis(ctx context.Context, userID uuid.UUID, force bool) (AnalysisResult, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]recommendation.Recommendation, error)
}

type RecommendationService struct {
	contexts     usercontext.Repository
	progressRepo progress.Repository
	prefs        preference.Repository
	recs         recommendation.Repository
	cache        *analysis.Cache
	engine       *priority.Engine
	diversityCfg diversity.Config
	assembler    *Assembler
	batchCache   BatchCache
	notifier     Notifier
	topK         int
	retries      int
	logger       *log.Logger

	group singleflight.Group
}

func NewRecommendationService(
	contexts usercontext.Repository,
	progressRepo progress.Repository,
	prefs preference.Repository,
	recs recommendation.Repository,
	cache *analysis.Cache,
	engine *priority.Engine,
	diversityCfg diversity.Config,
	assembler *Assembler,
	batchCache BatchCache,
	notifier Notifier,
	topK int,
	retries int,
	logger *log.Logger,
) *RecommendationService {
	if topK <= 0 {
		topK = 3
	}
	if retries <= 0 {
		retries = 3
	}
	return &RecommendationService{
		contexts:     contexts,
		progressRepo: progressRepo,
		prefs:        prefs,
		recs:         recs,
		cache:        cache,
		engine:       engine,
		diversityCfg: diversityCfg,
		assembler:    assembler,
		batchCache:   batchCache,
		notifier:     notifier,
		topK:         topK,
		retries:      retries,
		logger:       logger,
	}
}

// Generate runs the full pipeline: analysis, prioritization, constraint
// and diversity filtering, assembly, persistence. Concurrent calls for the
// same user collapse into one computation. Zero open gaps is a valid
// outcome and produces an empty batch, not an error.
func (s *RecommendationService) Generate(ctx context.Context, userID uuid.UUID, count int) (GenerateResult, error) {
	if userID == uuid.Nil {
		return GenerateResult{}, ErrInvalidInput
	}
	if count <= 0 {
		count = s.topK
	}
	if count > 10 {
		count = 10
	}

	v, err, _ := s.group.Do("generate:"+userID.String(), func() (any, error) {
		return s.generate(ctx, userID, count)
	})
	if err != nil {
		return GenerateResult{}, err
	}
	return v.(GenerateResult), nil
}

func (s *RecommendationService) generate(ctx context.Context, userID uuid.UUID, count int) (GenerateResult, error) {
	uc, err := s.contexts.Get(ctx, userID)
	if errors.Is(err, usercontext.ErrNotFound) {
		return GenerateResult{}, ErrContextNotFound
	}
	if err != nil {
		return GenerateResult{}, ErrStorageFailure
	}

	history, err := s.progressRepo.Query(ctx, userID, 0)
	if err != nil {
		return GenerateResult{}, ErrStorageFailure
	}

	res, err := s.cache.Get(ctx, uc, history)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Recommend] analysis unavailable | user=%s err=%v", userID, err)
		}
		return GenerateResult{}, ErrOracleUnavailable
	}

	adj, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return GenerateResult{}, ErrStorageFailure
	}

	ranked := s.engine.Rank(res.Gaps, uc, adj, history, res.CyclesUnaddressed)
	if len(ranked) == 0 {
		return GenerateResult{AnalyzedAt: res.AnalyzedAt, Degraded: res.Stale}, nil
	}
	if len(ranked) > s.topK {
		ranked = ranked[:s.topK]
	}

	completed := completedFingerprints(history)
	cands := synthesizeCandidates(ranked, uc, adj, s.assembler.Catalog(), completed)
	cands = constraint.FilterExperience(cands, uc.ExperienceLevel)
	cands = constraint.FilterTime(cands, uc.TimeAvailabilityHoursPerWeek)
	cands = diversity.Apply(cands, history, s.diversityCfg)

	chosen := selectBatch(cands, count)
	recs, degraded := s.assembler.Assemble(ctx, chosen, uc)

	if len(recs) > 0 {
		err = retry.Do(ctx, s.retries, 100*time.Millisecond, func(ctx context.Context) error {
			return s.recs.SaveBatch(ctx, recs)
		})
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("[Recommend] batch persist failed | user=%s err=%v", userID, err)
			}
			return GenerateResult{}, ErrStorageFailure
		}
	}

	out := GenerateResult{
		Recommendations: recs,
		Degraded:        degraded || res.Stale,
		AnalyzedAt:      res.AnalyzedAt,
	}

	if s.batchCache != nil {
		if err := s.batchCache.SetJSON(ctx, "recs:"+userID.String(), recs, 0); err != nil && s.logger != nil {
			s.logger.Printf("[Recommend] batch cache write failed | user=%s err=%v", userID, err)
		}
	}
	if s.notifier != nil {
		s.notifier.RecommendationsReady(userID, len(recs))
	}
	if s.logger != nil {
		s.logger.Printf("[Recommend] batch generated | user=%s count=%d degraded=%t", userID, len(recs), out.Degraded)
	}
	return out, nil
}

// RefreshAnalysis re-runs the skill-gap analysis. force performs the
// explicit reset: the cached payload is dropped first, so an oracle
// failure surfaces instead of falling back to stale data.
func (s *RecommendationService) RefreshAnalysis(ctx context.Context, userID uuid.UUID, force bool) (AnalysisResult, error) {
	if userID == uuid.Nil {
		return AnalysisResult{}, ErrInvalidInput
	}

	uc, err := s.contexts.Get(ctx, userID)
	if errors.Is(err, usercontext.ErrNotFound) {
		return AnalysisResult{}, ErrContextNotFound
	}
	if err != nil {
		return AnalysisResult{}, ErrStorageFailure
	}

	history, err := s.progressRepo.Query(ctx, userID, 0)
	if err != nil {
		return AnalysisResult{}, ErrStorageFailure
	}

	if force {
		s.cache.Reset(userID)
	} else {
		s.cache.MarkStale(userID)
	}

	res, err := s.cache.Get(ctx, uc, history)
	if err != nil {
		return AnalysisResult{}, ErrOracleUnavailable
	}

	if s.notifier != nil {
		s.notifier.AnalysisRefreshed(userID, len(res.Gaps), res.Stale)
	}
	return AnalysisResult{Gaps: res.Gaps, Stale: res.Stale, AnalyzedAt: res.AnalyzedAt}, nil
}

func (s *RecommendationService) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]recommendation.Recommendation, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	recs, err := s.recs.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, ErrStorageFailure
	}
	return recs, nil
}

func completedFingerprints(history []progress.Record) map[string]bool {
	out := make(map[string]bool, len(history))
	for _, rec := range history {
		fp := strings.TrimSpace(rec.Fingerprint)
		if fp != "" {
			out[fp] = true
		}
	}
	return out
}

// synthesizeCandidates builds the candidate pool for the top-ranked gaps.
// Completed fingerprints are excluded here, before any filter or re-sort,
// so a finished action can never influence rank.
func synthesizeCandidates(
	ranked []priority.Ranked,
	uc usercontext.UserContext,
	adj preference.Adjustment,
	cat *catalog.Catalog,
	completed map[string]bool,
) []recommendation.Candidate {
	var out []recommendation.Candidate
	for _, r := range ranked {
		for _, t := range preferredActionTypes(uc.ExperienceLevel) {
			if completed[recommendation.Fingerprint(t, r.Gap.SkillName)] {
				continue
			}
			action, minutes := buildAction(t, r.Gap, cat)
			out = append(out, recommendation.Candidate{
				Action:               action,
				SkillGap:             r.Gap,
				EstimatedTimeMinutes: minutes,
				Score:                r.Score + adj.ActionTypes[t],
			})
		}
	}
	return out
}

func preferredActionTypes(level usercontext.ExperienceLevel) []recommendation.ActionType {
	switch level {
	case usercontext.LevelBeginner:
		return []recommendation.ActionType{recommendation.ActionTutorial, recommendation.ActionCourse}
	case usercontext.LevelAdvanced:
		return []recommendation.ActionType{recommendation.ActionDocumentation, recommendation.ActionArticle, recommendation.ActionChallenge}
	default:
		return []recommendation.ActionType{recommendation.ActionTutorial, recommendation.ActionArticle, recommendation.ActionChallenge}
	}
}

// selectBatch walks the diversity-ordered candidates taking one per skill
// first, then fills remaining slots with distinct fingerprints.
func selectBatch(cands []recommendation.Candidate, count int) []recommendation.Candidate {
	chosen := make([]recommendation.Candidate, 0, count)
	usedSkill := make(map[string]bool)
	usedFp := make(map[string]bool)

	for _, c := range cands {
		if len(chosen) >= count {
			return chosen
		}
		if usedSkill[c.SkillGap.SkillName] || usedFp[c.Fingerprint()] {
			continue
		}
		chosen = append(chosen, c)
		usedSkill[c.SkillGap.SkillName] = true
		usedFp[c.Fingerprint()] = true
	}

	for _, c := range cands {
		if len(chosen) >= count {
			break
		}
		if usedFp[c.Fingerprint()] {
			continue
		}
		chosen = append(chosen, c)
		usedFp[c.Fingerprint()] = true
	}
	return chosen
}
