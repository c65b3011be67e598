// Package gemini implements the completion and embedding providers against
// the Gemini REST API (generateContent / embedContent).
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stratlab/strategic-agent/internal/core/domain"
	"github.com/stratlab/strategic-agent/internal/infrastructure/resilience"
)

const defaultMaxEmbedChars = 10000

type Config struct {
	BaseURL         string
	APIKey          string
	GenerationModel string
	EmbeddingModel  string

	// Temperature applies when the caller does not supply one.
	Temperature float64
	CallTimeout time.Duration
	// MaxEmbedChars bounds embedding input; longer text fails with
	// InputTooLarge instead of being truncated silently.
	MaxEmbedChars int

	Executor *resilience.Executor
}

type Client struct {
	cfg        Config
	httpClient httpDoer
}

func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 20 * time.Second
	}
	if cfg.MaxEmbedChars <= 0 {
		cfg.MaxEmbedChars = defaultMaxEmbedChars
	}
	return &Client{
		cfg:        cfg,
		httpClient: newHTTPClient(),
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents          []generateContent `json:"contents"`
	SystemInstruction *generateContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content      generateContent `json:"content"`
		FinishReason string          `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (c *Client) Complete(
	ctx context.Context,
	prompt string,
	opts domain.CompletionOptions,
) (domain.CompletionResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return domain.CompletionResult{}, domain.WrapError(domain.ErrMalformed, "generate", fmt.Errorf("prompt is empty"))
	}

	temperature := c.cfg.Temperature
	if opts.Temperature != nil {
		if *opts.Temperature < 0 || *opts.Temperature > 2 {
			return domain.CompletionResult{}, domain.WrapError(domain.ErrMalformed, "generate",
				fmt.Errorf("temperature %.2f outside [0, 2]", *opts.Temperature))
		}
		temperature = *opts.Temperature
	}

	reqBody := generateRequest{
		Contents: []generateContent{
			{Role: "user", Parts: []generatePart{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{Temperature: temperature},
	}
	if strings.TrimSpace(opts.SystemInstruction) != "" {
		reqBody.SystemInstruction = &generateContent{Parts: []generatePart{{Text: opts.SystemInstruction}}}
	}

	var resp generateResponse
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", c.cfg.GenerationModel)
	if err := c.call(ctx, "gemini.generate", path, reqBody, &resp); err != nil {
		return domain.CompletionResult{}, err
	}

	if reason := strings.TrimSpace(resp.PromptFeedback.BlockReason); reason != "" {
		return domain.CompletionResult{}, domain.WrapError(domain.ErrContentFiltered, "generate",
			fmt.Errorf("prompt blocked: %s", reason))
	}
	if len(resp.Candidates) == 0 {
		return domain.CompletionResult{}, domain.WrapError(domain.ErrProviderUnavailable, "generate",
			fmt.Errorf("no candidates returned"))
	}

	candidate := resp.Candidates[0]
	if strings.EqualFold(candidate.FinishReason, "SAFETY") {
		return domain.CompletionResult{}, domain.WrapError(domain.ErrContentFiltered, "generate",
			fmt.Errorf("candidate blocked by safety filter"))
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		b.WriteString(part.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return domain.CompletionResult{}, domain.WrapError(domain.ErrProviderUnavailable, "generate",
			fmt.Errorf("empty completion"))
	}

	return domain.CompletionResult{
		Text:         text,
		FinishReason: candidate.FinishReason,
	}, nil
}

type embedRequest struct {
	Model   string          `json:"model,omitempty"`
	Content generateContent `json:"content"`
}

type embedValues struct {
	Values []float32 `json:"values"`
}

type embedResponse struct {
	Embedding embedValues `json:"embedding"`
}

type batchEmbedRequest struct {
	Requests []embedRequest `json:"requests"`
}

type batchEmbedResponse struct {
	Embeddings []embedValues `json:"embeddings"`
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := c.checkEmbedInput(text); err != nil {
		return nil, err
	}

	reqBody := embedRequest{
		Content: generateContent{Parts: []generatePart{{Text: text}}},
	}
	var resp embedResponse
	path := fmt.Sprintf("/v1beta/models/%s:embedContent", c.cfg.EmbeddingModel)
	if err := c.call(ctx, "gemini.embed", path, reqBody, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, domain.WrapError(domain.ErrProviderUnavailable, "embed", fmt.Errorf("empty embedding"))
	}
	return resp.Embedding.Values, nil
}

func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := batchEmbedRequest{Requests: make([]embedRequest, 0, len(texts))}
	for _, text := range texts {
		if err := c.checkEmbedInput(text); err != nil {
			return nil, err
		}
		reqBody.Requests = append(reqBody.Requests, embedRequest{
			Model:   "models/" + c.cfg.EmbeddingModel,
			Content: generateContent{Parts: []generatePart{{Text: text}}},
		})
	}

	var resp batchEmbedResponse
	path := fmt.Sprintf("/v1beta/models/%s:batchEmbedContents", c.cfg.EmbeddingModel)
	if err := c.call(ctx, "gemini.embed_batch", path, reqBody, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, domain.WrapError(domain.ErrProviderUnavailable, "embed batch",
			fmt.Errorf("got %d embeddings for %d inputs", len(resp.Embeddings), len(texts)))
	}

	out := make([][]float32, 0, len(resp.Embeddings))
	for _, e := range resp.Embeddings {
		out = append(out, e.Values)
	}
	return out, nil
}

func (c *Client) checkEmbedInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.WrapError(domain.ErrMalformed, "embed", fmt.Errorf("text is empty"))
	}
	if len(text) > c.cfg.MaxEmbedChars {
		return domain.WrapError(domain.ErrInputTooLarge, "embed",
			fmt.Errorf("text length %d exceeds limit %d", len(text), c.cfg.MaxEmbedChars))
	}
	return nil
}

func (c *Client) call(ctx context.Context, operation, path string, payload, out any) error {
	do := func(ctx context.Context) error {
		return c.postJSON(ctx, path, payload, out, operation)
	}
	if c.cfg.Executor == nil {
		return do(ctx)
	}
	err := c.cfg.Executor.Execute(ctx, operation, do, recordAsFailure)
	if resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrProviderUnavailable, operation, err)
	}
	return err
}

// recordAsFailure keeps caller mistakes (bad prompt, bad credentials) from
// tripping the breaker; only provider-side trouble counts.
func recordAsFailure(err error) bool {
	return domain.IsKind(err, domain.ErrProviderUnavailable) ||
		domain.IsKind(err, domain.ErrTimeout) ||
		domain.IsKind(err, domain.ErrRateLimited)
}
