package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/healthdesk/medassist/config"
)

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrUpstream marks failures of the completion backend. Handlers map it
// to a 502 so callers can distinguish upstream outages from bad input.
var ErrUpstream = errors.New("llm upstream error")

// Message is a single chat message. Role must be one of RoleSystem,
// RoleUser or RoleAssistant.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Params are per-request generation settings. Zero values fall back to
// the provider's configured defaults.
type Params struct {
	Temperature float64
	MaxTokens   int
}

// Option adjusts Params for a single GenerateCompletion call.
type Option func(*Params)

// WithTemperature overrides the configured sampling temperature.
func WithTemperature(t float64) Option {
	return func(p *Params) { p.Temperature = t }
}

// WithMaxTokens overrides the configured completion token limit.
func WithMaxTokens(n int) Option {
	return func(p *Params) { p.MaxTokens = n }
}

// Provider generates chat completions. Implementations must be safe for
// concurrent use.
type Provider interface {
	// GenerateCompletion sends the full message history (system + prior
	// turns + latest user message) and returns the assistant reply.
	GenerateCompletion(ctx context.Context, messages []Message, opts ...Option) (string, error)
	// GetProviderType returns the provider type identifier.
	GetProviderType() string
}

// NewProvider creates the provider selected by cfg. The groq provider
// reuses the OpenAI-compatible client with a different base URL.
func NewProvider(cfg config.LLMConfig, client *http.Client) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, config.ProviderGroq:
		return newOpenAIProvider(cfg, client), nil
	case config.ProviderOffline:
		return NewOfflineProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
