package ports

import (
	"context"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

// Completer sends a prompt to the LLM and returns generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (domain.CompletionResult, error)
}

// Embedder converts text into fixed-dimension vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorSearcher answers top-K nearest-neighbor queries against the
// configured knowledge collection. An empty result is valid and means
// "nothing relevant found", not a failure.
type VectorSearcher interface {
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.RetrievedDocument, error)
}

// VectorIndexer upserts chunk vectors. Used only by seeding; the runtime
// pipeline is read-only against the store.
type VectorIndexer interface {
	IndexChunks(ctx context.Context, source string, chunks []string, vectors [][]float32) error
}

// SessionStore persists per-session workflow state.
type SessionStore interface {
	Create(ctx context.Context) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	SaveEntry(ctx context.Context, sessionID, key, content string) error
	GetEntry(ctx context.Context, sessionID, key string) (string, error)
	ListEntries(ctx context.Context, sessionID string) ([]domain.SessionEntry, error)
}

// EventPublisher emits pipeline completion events for downstream consumers.
type EventPublisher interface {
	PublishPipelineCompleted(ctx context.Context, event domain.PipelineCompletedEvent) error
}

// KnowledgeLoader reads seedable documents from a directory tree.
type KnowledgeLoader interface {
	Load(ctx context.Context, dir string) ([]domain.KnowledgeDocument, error)
}

// Chunker splits text into indexable chunks.
type Chunker interface {
	Split(text string) []string
}
