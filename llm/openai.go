package llm

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

// openAIProvider talks to any OpenAI-compatible chat completion API.
// Both the openai and groq providers use it; only the base URL, model
// and key differ.
type openAIProvider struct {
	client       *openai.Client
	providerType string
	model        string
	temperature  float64
	maxTokens    int
}

func newOpenAIProvider(cfg config.LLMConfig, httpClient *http.Client) *openAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}
	return &openAIProvider{
		client:       openai.NewClientWithConfig(clientCfg),
		providerType: cfg.Provider,
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
	}
}

func (p *openAIProvider) GetProviderType() string {
	return p.providerType
}

func (p *openAIProvider) GenerateCompletion(ctx context.Context, messages []Message, opts ...Option) (string, error) {
	params := Params{Temperature: p.temperature, MaxTokens: p.maxTokens}
	for _, opt := range opts {
		opt(&params)
	}

	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role != openai.ChatMessageRoleSystem && role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleUser
		}
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    oaMsgs,
		Temperature: float32(params.Temperature),
		MaxTokens:   params.MaxTokens,
	})
	metrics.ObserveLLM(p.providerType, start, err)
	if err != nil {
		logger.Errorf("chat completion failed, provider: %s, model: %s, error: %v", p.providerType, p.model, err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}
