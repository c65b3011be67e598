// Command seed populates the knowledge collection from a directory of
// text, markdown and PDF documents.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/stratlab/strategic-agent/internal/config"
	"github.com/stratlab/strategic-agent/internal/core/usecase"
	"github.com/stratlab/strategic-agent/internal/infrastructure/chunking"
	"github.com/stratlab/strategic-agent/internal/infrastructure/knowledge"
	"github.com/stratlab/strategic-agent/internal/infrastructure/llm/gemini"
	"github.com/stratlab/strategic-agent/internal/infrastructure/vector/qdrant"
	"github.com/stratlab/strategic-agent/internal/observability/logging"
)

func main() {
	dir := flag.String("dir", "./knowledge", "directory of documents to index")
	flag.Parse()

	cfg := config.Load()
	slog.SetDefault(logging.New("strategic-agent-seed", cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	embedder := gemini.New(gemini.Config{
		BaseURL:         cfg.GeminiBaseURL,
		APIKey:          cfg.GeminiAPIKey,
		GenerationModel: cfg.GeminiGenModel,
		EmbeddingModel:  cfg.GeminiEmbedModel,
		CallTimeout:     cfg.CallTimeout,
		MaxEmbedChars:   cfg.EmbedMaxChars,
	})
	indexer, err := qdrant.New(qdrant.Config{
		BaseURL:     cfg.QdrantURL,
		APIKey:      cfg.QdrantAPIKey,
		Collection:  cfg.QdrantCollection,
		Namespace:   cfg.QdrantNamespace,
		VectorDim:   cfg.KnowledgeVectorDim,
		CallTimeout: cfg.CallTimeout,
	})
	if err != nil {
		log.Fatalf("init vector store: %v", err)
	}

	seeder := usecase.NewSeedKnowledgeUseCase(
		knowledge.NewLoader(),
		chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder,
		indexer,
	)

	report, err := seeder.Seed(ctx, *dir)
	if err != nil {
		if report != nil {
			slog.Error("seed_aborted",
				"documents", report.Documents, "chunks", report.Chunks, "indexed", report.Indexed)
		}
		log.Fatalf("seed error: %v", err)
	}

	slog.Info("seed_completed",
		"documents", report.Documents, "chunks", report.Chunks, "indexed", report.Indexed)
}
