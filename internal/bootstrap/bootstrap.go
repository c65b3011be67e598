package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stratlab/strategic-agent/internal/config"
	"github.com/stratlab/strategic-agent/internal/core/ports"
	"github.com/stratlab/strategic-agent/internal/core/prompt"
	"github.com/stratlab/strategic-agent/internal/core/usecase"
	"github.com/stratlab/strategic-agent/internal/infrastructure/llm/gemini"
	"github.com/stratlab/strategic-agent/internal/infrastructure/queue/nats"
	"github.com/stratlab/strategic-agent/internal/infrastructure/resilience"
	"github.com/stratlab/strategic-agent/internal/infrastructure/session/postgres"
	"github.com/stratlab/strategic-agent/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Sessions   ports.SessionStore
	PipelineUC ports.TensionPipeline
	AnalysisUC ports.AnalysisService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sessions := postgres.NewRepository(db)
	if err := sessions.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	breakerCfg := resilience.DefaultConfig()
	breakerCfg.BreakerEnabled = cfg.BreakerEnabled
	executor := resilience.NewExecutor(breakerCfg)

	llmClient := gemini.New(gemini.Config{
		BaseURL:         cfg.GeminiBaseURL,
		APIKey:          cfg.GeminiAPIKey,
		GenerationModel: cfg.GeminiGenModel,
		EmbeddingModel:  cfg.GeminiEmbedModel,
		Temperature:     cfg.GeminiTemperature,
		CallTimeout:     cfg.CallTimeout,
		MaxEmbedChars:   cfg.EmbedMaxChars,
		Executor:        executor,
	})

	vectorClient, err := qdrant.New(qdrant.Config{
		BaseURL:     cfg.QdrantURL,
		APIKey:      cfg.QdrantAPIKey,
		Collection:  cfg.QdrantCollection,
		Namespace:   cfg.QdrantNamespace,
		VectorDim:   cfg.KnowledgeVectorDim,
		MaxLimit:    cfg.RAGMaxLimit,
		CallTimeout: cfg.CallTimeout,
		Executor:    executor,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init vector store: %w", err)
	}

	var events ports.EventPublisher
	var publisher *nats.Publisher
	if cfg.EventsEnabled {
		publisher, err = nats.NewPublisher(nats.Config{URL: cfg.NATSURL, Subject: cfg.NATSSubject})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		events = publisher
	} else {
		slog.Info("pipeline_events_disabled")
	}

	templates := prompt.NewRegistry()
	retry := usecase.RetryPolicy{
		MaxAttempts:    cfg.RetryMaxAttempts,
		InitialBackoff: cfg.RetryInitialBackoff,
		MaxBackoff:     cfg.RetryMaxBackoff,
	}

	pipelineUC := usecase.NewTensionPipelineUseCase(
		llmClient, llmClient, vectorClient, templates, events, cfg.RAGTopK, retry)
	analysisUC := usecase.NewAnalysisUseCase(llmClient, sessions, templates, retry)

	return &App{
		Config:     cfg,
		Sessions:   sessions,
		PipelineUC: pipelineUC,
		AnalysisUC: analysisUC,

		closeFn: func() {
			if publisher != nil {
				publisher.Close()
			}
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
