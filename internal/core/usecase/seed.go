package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stratlab/strategic-agent/internal/core/domain"
	"github.com/stratlab/strategic-agent/internal/core/ports"
)

// SeedKnowledgeUseCase populates the knowledge collection: load documents,
// chunk them, embed each batch, upsert the vectors. The runtime pipeline
// only ever reads from the collection.
type SeedKnowledgeUseCase struct {
	loader   ports.KnowledgeLoader
	chunker  ports.Chunker
	embedder ports.Embedder
	indexer  ports.VectorIndexer
}

func NewSeedKnowledgeUseCase(
	loader ports.KnowledgeLoader,
	chunker ports.Chunker,
	embedder ports.Embedder,
	indexer ports.VectorIndexer,
) *SeedKnowledgeUseCase {
	return &SeedKnowledgeUseCase{
		loader:   loader,
		chunker:  chunker,
		embedder: embedder,
		indexer:  indexer,
	}
}

func (uc *SeedKnowledgeUseCase) Seed(ctx context.Context, dir string) (*domain.SeedReport, error) {
	docs, err := uc.loader.Load(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("load knowledge documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.WrapError(domain.ErrMalformed, "seed", fmt.Errorf("no seedable documents in %s", dir))
	}

	report := &domain.SeedReport{Documents: len(docs)}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		chunks := uc.chunker.Split(doc.Text)
		if len(chunks) == 0 {
			slog.Warn("seed_document_empty", "source", doc.Source)
			continue
		}
		report.Chunks += len(chunks)

		vectors, err := uc.embedder.EmbedBatch(ctx, chunks)
		if err != nil {
			return report, fmt.Errorf("embed %s: %w", doc.Source, err)
		}
		if len(vectors) != len(chunks) {
			return report, fmt.Errorf("embed %s: got %d vectors for %d chunks", doc.Source, len(vectors), len(chunks))
		}

		if err := uc.indexer.IndexChunks(ctx, doc.Source, chunks, vectors); err != nil {
			return report, fmt.Errorf("index %s: %w", doc.Source, err)
		}
		report.Indexed += len(chunks)
		slog.Info("seed_document_indexed", "source", doc.Source, "chunks", len(chunks))
	}
	return report, nil
}
