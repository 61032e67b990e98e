package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/healthdesk/medassist/config"
)

// Provider converts text into vectors. Implementations must be safe for
// concurrent use.
type Provider interface {
	// GetEmbedding returns the vector for a single text.
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	// GetEmbeddings returns one vector per input text, in input order.
	GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions returns the width of the vectors this provider emits.
	Dimensions() int
	// GetProviderType returns the provider type identifier.
	GetProviderType() string
}

// NewProvider creates the provider selected by cfg, wrapped with an LRU
// cache when cfg.CacheSize is positive.
func NewProvider(cfg config.EmbeddingConfig, client *http.Client) (Provider, error) {
	var p Provider
	switch cfg.Provider {
	case config.ProviderOpenAI:
		p = newOpenAIProvider(cfg, client)
	case config.ProviderOffline:
		p = NewOfflineProvider(cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
	if cfg.CacheSize > 0 {
		p = NewCachedProvider(p, cfg.CacheSize)
	}
	return p, nil
}
