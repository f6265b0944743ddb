package app

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"skill-coach/internal/analysis"
	"skill-coach/internal/catalog"
	"skill-coach/internal/config"
	"skill-coach/internal/database"
	"skill-coach/internal/database/migration"
	dbpostgres "skill-coach/internal/database/postgres"
	"skill-coach/internal/domain/diversity"
	"skill-coach/internal/domain/priority"
	rediscache "skill-coach/internal/infrastructure/cache"
	"skill-coach/internal/infrastructure/persistence/postgres"
	"skill-coach/internal/oracle/llm"
	"skill-coach/internal/scheduler"
	"skill-coach/internal/usecase"
	"skill-coach/internal/ws"
)

// Container holds every long-lived dependency. Construction order follows
// the dependency chain: database and redis first, then domain services,
// then usecases.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Redis *rediscache.Redis

	Catalog       *catalog.Catalog
	AnalysisCache *analysis.Cache
	Hub           *ws.Hub
	Scheduler     *scheduler.Scheduler

	ContextUC        usecase.ContextUsecase
	RecommendationUC usecase.RecommendationUsecase
	FeedbackUC       usecase.FeedbackUsecase

	OracleConfigured bool
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.MigrateOnStart {
		if err := (migration.Runner{}).Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Printf("[App] schema migrations applied")
	}

	redis := rediscache.NewRedis(cfg.Redis, logger)

	contextRepo, err := postgres.NewContextRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	progressRepo, err := postgres.NewProgressRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	recRepo, err := postgres.NewRecommendationRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	prefRepo, err := postgres.NewPreferenceRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	oracleConfigured := strings.TrimSpace(cfg.Oracle.OpenAIAPIKey) != ""
	llmClient := llm.NewClient(cfg.Oracle.OpenAIAPIKey, cfg.Oracle.OpenAIBaseURL, cfg.Oracle.OpenAIModel, cfg.Oracle.CallTimeout)
	gapOracle := llm.NewGapOracle(llmClient)
	explainOracle := llm.NewExplainOracle(llmClient)

	analysisCache := analysis.NewCache(gapOracle, redis, cfg.Engine.AnalysisTTL, logger)

	cat := catalog.New(logger)
	if cfg.Catalog.HarvestEnabled {
		harvester := catalog.NewHarvester(cat, cfg.Catalog.HarvestBaseURL, logger)
		go func() {
			hctx, hcancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer hcancel()
			if err := harvester.Harvest(hctx, cfg.Catalog.HarvestWorkers); err != nil {
				logger.Printf("[Catalog] harvest failed | err=%v", err)
			}
		}()
	}

	engine := priority.NewEngine(priority.Config{
		GapWeight:        cfg.Engine.GapWeight,
		GoalWeight:       cfg.Engine.GoalWeight,
		TimeFitWeight:    cfg.Engine.TimeFitWeight,
		RecencyWeight:    cfg.Engine.RecencyWeight,
		FoundationalMul:  cfg.Engine.FoundationalMul,
		DecayAfterCycles: cfg.Engine.DecayAfterCycles,
		DecayBoost:       cfg.Engine.DecayBoost,
		RecencyWindow:    cfg.Engine.DiversityWindow,
		MinutesPerLevel:  90,
	})
	diversityCfg := diversity.Config{
		Window:           cfg.Engine.DiversityWindow,
		Penalty:          cfg.Engine.DiversityPenalty,
		StreakEscalation: cfg.Engine.StreakEscalation,
	}

	hub := ws.NewHub(logger)
	notifier := ws.NewNotifier(hub)

	assembler := usecase.NewAssembler(explainOracle, cat, logger)

	contextUC := usecase.NewContextUsecase(contextRepo, analysisCache, redis, cfg.Engine.StorageRetries, logger)
	recommendationUC := usecase.NewRecommendationService(
		contextRepo,
		progressRepo,
		prefRepo,
		recRepo,
		analysisCache,
		engine,
		diversityCfg,
		assembler,
		redis,
		notifier,
		cfg.Engine.TopK,
		cfg.Engine.StorageRetries,
		logger,
	)
	feedbackUC := usecase.NewFeedbackAdapter(recRepo, progressRepo, prefRepo, analysisCache, cfg.Engine.StorageRetries, logger)

	sched := scheduler.New(analysisCache, feedbackUC, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		DB:               db,
		Redis:            redis,
		Catalog:          cat,
		AnalysisCache:    analysisCache,
		Hub:              hub,
		Scheduler:        sched,
		ContextUC:        contextUC,
		RecommendationUC: recommendationUC,
		FeedbackUC:       feedbackUC,
		OracleConfigured: oracleConfigured,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil && c.Logger != nil {
			c.Logger.Printf("[App] redis close failed | err=%v", err)
		}
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
