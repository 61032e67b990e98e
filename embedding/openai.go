package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/healthdesk/medassist/config"
	"github.com/healthdesk/medassist/common/logger"
	"github.com/healthdesk/medassist/metrics"
)

type openAIProvider struct {
	client     *openai.Client
	model      string
	dimensions int
}

func newOpenAIProvider(cfg config.EmbeddingConfig, httpClient *http.Client) *openAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}
	return &openAIProvider{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

func (p *openAIProvider) GetProviderType() string {
	return config.ProviderOpenAI
}

func (p *openAIProvider) Dimensions() int {
	return p.dimensions
}

func (p *openAIProvider) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.GetEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (p *openAIProvider) GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(p.model),
	})
	metrics.ObserveLLM(config.ProviderOpenAI, start, err)
	if err != nil {
		logger.Errorf("embedding request failed, model: %s, batch: %d, error: %v", p.model, len(texts), err)
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("create embeddings: expected %d vectors, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("create embeddings: index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
