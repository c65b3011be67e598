package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// StrategicContext is the user-supplied framing for one planning session.
// Immutable once captured; every downstream stage consumes it as-is.
type StrategicContext struct {
	BusinessContext string `json:"business_context"`
	Challenge       string `json:"business_challenge"`
}

func (c StrategicContext) Validate() error {
	if strings.TrimSpace(c.BusinessContext) == "" {
		return WrapError(ErrMalformed, "strategic context", fmt.Errorf("business_context is required"))
	}
	if strings.TrimSpace(c.Challenge) == "" {
		return WrapError(ErrMalformed, "strategic context", fmt.Errorf("business_challenge is required"))
	}
	return nil
}

// CompletionResult is the text returned by the completion provider. The
// orchestrator treats it as opaque; only Text crosses stage boundaries.
type CompletionResult struct {
	Text         string
	FinishReason string
}

type CompletionOptions struct {
	SystemInstruction string
	Temperature       *float64
}

// RetrievedDocument is one similarity-search hit: a score plus an opaque
// payload. No schema is enforced beyond preferring a text-bearing field.
type RetrievedDocument struct {
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// PromptText renders the document for prompt inclusion. A "text" payload
// field wins; otherwise the payload is serialized with deterministic key
// order so prompts are stable across runs.
func (d RetrievedDocument) PromptText() string {
	if s, ok := d.Payload["text"].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	keys := make([]string, 0, len(d.Payload))
	for k := range d.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, d.Payload[k])
	}
	return strings.TrimSpace(b.String())
}

// Stage identifies a step of the tension pipeline.
type Stage string

const (
	StageDrafting        Stage = "drafting"
	StageQueryDerivation Stage = "query_derivation"
	StageEmbedding       Stage = "embedding"
	StageRetrieving      Stage = "retrieving"
	StageRefining        Stage = "refining"
)

// PipelineArtifact bundles the output of one tension pipeline run: the final
// enriched text plus the intermediate artifacts for diagnostic display.
// Owned by the run; the orchestrator holds no state after returning it.
type PipelineArtifact struct {
	SessionID          string              `json:"session_id"`
	InitialDraft       string              `json:"initial_draft"`
	DerivedQuery       string              `json:"derived_query,omitempty"`
	RetrievedDocuments []RetrievedDocument `json:"retrieved_documents"`
	RefinedResult      string              `json:"refined_result"`
	RetrievalSkipped   bool                `json:"retrieval_skipped"`
	SkippedStage       Stage               `json:"skipped_stage,omitempty"`
	Duration           time.Duration       `json:"-"`
}

// PipelineCompletedEvent is published after a successful run for downstream
// consumers (dashboards, audit). Best-effort; never blocks a run.
type PipelineCompletedEvent struct {
	SessionID        string `json:"session_id"`
	RetrievalSkipped bool   `json:"retrieval_skipped"`
	RetrievedCount   int    `json:"retrieved_count"`
	DurationMS       int64  `json:"duration_ms"`
}
