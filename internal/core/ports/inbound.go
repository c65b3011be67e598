package ports

import (
	"context"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

// TensionPipeline runs the retrieval-augmented strategic tension pipeline.
// On a Refining failure the partial artifact (with InitialDraft) is returned
// alongside the error so the caller can fall back to the draft.
type TensionPipeline interface {
	Run(ctx context.Context, sessionID string, sc domain.StrategicContext) (*domain.PipelineArtifact, error)
}

// AnalysisService executes a single-shot workflow stage.
type AnalysisService interface {
	Generate(ctx context.Context, sessionID string, req domain.AnalysisRequest) (*domain.AnalysisResult, error)
}

// KnowledgeSeeder loads, chunks, embeds and indexes knowledge documents.
type KnowledgeSeeder interface {
	Seed(ctx context.Context, dir string) (*domain.SeedReport, error)
}
