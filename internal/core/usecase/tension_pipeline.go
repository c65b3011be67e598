package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stratlab/strategic-agent/internal/core/domain"
	"github.com/stratlab/strategic-agent/internal/core/ports"
	"github.com/stratlab/strategic-agent/internal/core/prompt"
)

// TensionPipelineUseCase runs the retrieval-augmented tension pipeline:
// Drafting -> QueryDerivation -> Embedding -> Retrieving -> Refining.
//
// Only Drafting and Refining are load-bearing. Failures in the middle stages
// degrade the run to "retrieval skipped" instead of aborting, so a transient
// embedding or vector-store outage never blocks the workflow.
type TensionPipelineUseCase struct {
	completer ports.Completer
	embedder  ports.Embedder
	searcher  ports.VectorSearcher
	templates *prompt.Registry
	events    ports.EventPublisher

	topK  int
	retry RetryPolicy
}

func NewTensionPipelineUseCase(
	completer ports.Completer,
	embedder ports.Embedder,
	searcher ports.VectorSearcher,
	templates *prompt.Registry,
	events ports.EventPublisher,
	topK int,
	retry RetryPolicy,
) *TensionPipelineUseCase {
	if topK <= 0 {
		topK = 3
	}
	return &TensionPipelineUseCase{
		completer: completer,
		embedder:  embedder,
		searcher:  searcher,
		templates: templates,
		events:    events,
		topK:      topK,
		retry:     retry.normalize(),
	}
}

func (uc *TensionPipelineUseCase) Run(
	ctx context.Context,
	sessionID string,
	sc domain.StrategicContext,
) (*domain.PipelineArtifact, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	artifact := &domain.PipelineArtifact{
		SessionID:          sessionID,
		RetrievedDocuments: []domain.RetrievedDocument{},
	}

	// Drafting.
	draft, err := uc.completeTemplate(ctx, prompt.TemplateStrategicTension, map[string]string{
		"business_context":   sc.BusinessContext,
		"business_challenge": sc.Challenge,
	})
	if err != nil {
		return nil, domain.NewPipelineError(domain.StageDrafting, err)
	}
	artifact.InitialDraft = draft

	if err := ctx.Err(); err != nil {
		return nil, domain.NewPipelineError(domain.StageQueryDerivation, err)
	}

	// QueryDerivation through Retrieving. Each failure degrades unless the
	// run itself was cancelled.
	if err := uc.retrieve(ctx, artifact); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, domain.NewPipelineError(domain.StageRefining, err)
	}

	// Refining.
	refined, err := uc.completeTemplate(ctx, prompt.TemplateTensionRefine, map[string]string{
		"draft":   artifact.InitialDraft,
		"context": serializeDocuments(artifact.RetrievedDocuments),
	})
	if err != nil {
		// The caller may fall back to InitialDraft; hand the partial
		// artifact back alongside the error.
		return artifact, domain.NewPipelineError(domain.StageRefining, err)
	}
	artifact.RefinedResult = refined
	artifact.Duration = time.Since(started)

	uc.publishCompleted(ctx, artifact)
	return artifact, nil
}

// retrieve runs the three degradable stages, filling the artifact in place.
// It returns an error only when the run was cancelled mid-stage.
func (uc *TensionPipelineUseCase) retrieve(ctx context.Context, artifact *domain.PipelineArtifact) error {
	// QueryDerivation.
	query, err := uc.completeTemplate(ctx, prompt.TemplateSearchQuery, map[string]string{
		"draft": artifact.InitialDraft,
	})
	if err != nil {
		if cancelled(err) {
			return domain.NewPipelineError(domain.StageQueryDerivation, err)
		}
		uc.degrade(artifact, domain.StageQueryDerivation, err)
		return nil
	}
	if strings.TrimSpace(query) == "" {
		uc.degrade(artifact, domain.StageQueryDerivation, fmt.Errorf("derived query is blank"))
		return nil
	}
	artifact.DerivedQuery = strings.TrimSpace(query)

	// Embedding.
	var vector []float32
	err = withRetry(ctx, uc.retry, func(ctx context.Context) error {
		var embedErr error
		vector, embedErr = uc.embedder.Embed(ctx, artifact.DerivedQuery)
		return embedErr
	})
	if err != nil {
		if cancelled(err) {
			return domain.NewPipelineError(domain.StageEmbedding, err)
		}
		uc.degrade(artifact, domain.StageEmbedding, err)
		return nil
	}

	// Retrieving. An empty result is a valid "nothing relevant found".
	var docs []domain.RetrievedDocument
	err = withRetry(ctx, uc.retry, func(ctx context.Context) error {
		var searchErr error
		docs, searchErr = uc.searcher.Search(ctx, vector, uc.topK)
		return searchErr
	})
	if err != nil {
		if cancelled(err) {
			return domain.NewPipelineError(domain.StageRetrieving, err)
		}
		uc.degrade(artifact, domain.StageRetrieving, err)
		return nil
	}
	if docs != nil {
		artifact.RetrievedDocuments = docs
	}
	return nil
}

func (uc *TensionPipelineUseCase) completeTemplate(
	ctx context.Context,
	id prompt.TemplateID,
	values map[string]string,
) (string, error) {
	rendered, err := uc.templates.Render(id, values)
	if err != nil {
		return "", err
	}

	var result domain.CompletionResult
	err = withRetry(ctx, uc.retry, func(ctx context.Context) error {
		var callErr error
		result, callErr = uc.completer.Complete(ctx, rendered, domain.CompletionOptions{})
		return callErr
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result.Text) == "" {
		return "", domain.WrapError(domain.ErrProviderUnavailable, string(id), fmt.Errorf("empty completion"))
	}
	return result.Text, nil
}

func (uc *TensionPipelineUseCase) degrade(artifact *domain.PipelineArtifact, stage domain.Stage, err error) {
	artifact.RetrievalSkipped = true
	artifact.SkippedStage = stage
	artifact.RetrievedDocuments = []domain.RetrievedDocument{}
	slog.Warn("pipeline_retrieval_skipped",
		"session_id", artifact.SessionID,
		"stage", string(stage),
		"error", err,
	)
}

func (uc *TensionPipelineUseCase) publishCompleted(ctx context.Context, artifact *domain.PipelineArtifact) {
	if uc.events == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	err := uc.events.PublishPipelineCompleted(publishCtx, domain.PipelineCompletedEvent{
		SessionID:        artifact.SessionID,
		RetrievalSkipped: artifact.RetrievalSkipped,
		RetrievedCount:   len(artifact.RetrievedDocuments),
		DurationMS:       artifact.Duration.Milliseconds(),
	})
	if err != nil {
		slog.Warn("pipeline_event_publish_failed", "session_id", artifact.SessionID, "error", err)
	}
}

func serializeDocuments(docs []domain.RetrievedDocument) string {
	if len(docs) == 0 {
		return prompt.NoRetrievalMarker
	}
	var b strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&b, "[%d] score=%.3f\n%s\n\n", i+1, doc.Score, doc.PromptText())
	}
	return strings.TrimSpace(b.String())
}

func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || domain.IsKind(err, domain.ErrCancelled)
}
