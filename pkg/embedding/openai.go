package embedding

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/clauseguard/clauseguard/pkg/config"
	"github.com/clauseguard/clauseguard/pkg/observability"
)

// OpenAIProvider fetches embeddings from an OpenAI-compatible endpoint
// (hosted API or a local server exposing the same surface).
type OpenAIProvider struct {
	client  openai.EmbeddingService
	model   string
	timeout time.Duration
}

// NewOpenAIProvider builds a provider from configuration. The API key is
// read from the environment variable named in the config so credentials
// never live in the bundle itself.
func NewOpenAIProvider(cfg config.EmbeddingConfig) *OpenAIProvider {
	var opts []option.RequestOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	if cfg.APIKeyEnv != "" {
		if key := os.Getenv(cfg.APIKeyEnv); key != "" {
			opts = append(opts, option.WithAPIKey(key))
		} else {
			observability.Warnf("Embedding API key env %q is not set", cfg.APIKeyEnv)
		}
	}

	return &OpenAIProvider{
		client:  openai.NewEmbeddingService(opts...),
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// Embed returns the embedding vector for one text. Any transport or API
// failure is reported as ErrUnavailable so callers can degrade instead of
// aborting the clause. A caller-imposed timeout behaves the same way.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	res, err := p.client.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
		Model: openai.EmbeddingModel(p.model),
	})
	if err != nil {
		observability.Errorf("Error creating embedding: %s", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ErrUnavailable)
	}
	// Just return the first embedding since the method queries a single input
	return res.Data[0].Embedding, nil
}
