package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"skill-coach/internal/analysis"
	"skill-coach/internal/usecase"
)

const decaySpec = "0 3 * * *"

// Scheduler runs the background maintenance jobs: downgrading expired
// analyses so idle users transition without traffic, and the nightly
// preference decay that lets old feedback signals fade.
type Scheduler struct {
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	cache    *analysis.Cache
	feedback usecase.FeedbackUsecase
	logger   *log.Logger
}

func New(cache *analysis.Cache, feedback usecase.FeedbackUsecase, logger *log.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		ctx:      ctx,
		cancel:   cancel,
		cache:    cache,
		feedback: feedback,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop. sweepSpec is the
// cron expression for the stale sweep; an empty spec disables it.
func (s *Scheduler) Start(sweepSpec string) error {
	if s.cache != nil && sweepSpec != "" {
		if _, err := s.cron.AddFunc(sweepSpec, s.sweepStale); err != nil {
			return err
		}
	}
	if s.feedback != nil && s.cache != nil {
		if _, err := s.cron.AddFunc(decaySpec, s.decayPreferences); err != nil {
			return err
		}
	}

	s.cron.Start()
	if s.logger != nil {
		s.logger.Printf("[Scheduler] started | sweep_spec=%q jobs=%d", sweepSpec, len(s.cron.Entries()))
	}
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.logger != nil {
		s.logger.Printf("[Scheduler] stopped")
	}
}

func (s *Scheduler) sweepStale() {
	n := s.cache.SweepExpired()
	if n > 0 && s.logger != nil {
		s.logger.Printf("[Scheduler] stale sweep | downgraded=%d", n)
	}
}

func (s *Scheduler) decayPreferences() {
	users := s.cache.Users()
	failed := 0
	for _, id := range users {
		if err := s.decayOne(id); err != nil {
			failed++
		}
	}
	if s.logger != nil {
		s.logger.Printf("[Scheduler] preference decay | users=%d failed=%d", len(users), failed)
	}
}

func (s *Scheduler) decayOne(userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	return s.feedback.DecayPreferences(ctx, userID)
}
