package vectordb

import (
	"context"
	"fmt"

	"github.com/healthdesk/medassist/config"
	"github.com/healthdesk/medassist/schema"
)

// VectorStoreProvider stores documents and serves nearest-neighbor
// queries. Scores in results are similarities: higher is better,
// regardless of the underlying metric.
type VectorStoreProvider interface {
	// AddDoc upserts documents. Every document must carry an ID and a
	// vector of the store's dimension.
	AddDoc(ctx context.Context, docs []schema.Document) error
	// SearchDocs returns the closest documents for the query vector.
	SearchDocs(ctx context.Context, vector []float32, options *schema.SearchOptions) ([]schema.SearchResult, error)
	// DeleteDocs removes documents by ID. Unknown IDs are ignored.
	DeleteDocs(ctx context.Context, ids []string) error
	// ListDocs returns up to limit stored documents without vectors.
	ListDocs(ctx context.Context, limit int) ([]schema.Document, error)
	// GetProviderType returns the provider type identifier.
	GetProviderType() string
}

// NewProvider creates the vector store selected by cfg. dim is the
// vector width the embedding provider emits.
func NewProvider(ctx context.Context, cfg config.VectorDBConfig, dim int) (VectorStoreProvider, error) {
	switch cfg.Provider {
	case config.VectorMemory:
		return NewMemoryStore(cfg.Metric), nil
	case config.VectorMilvus:
		return NewMilvusStore(ctx, cfg, dim)
	default:
		return nil, fmt.Errorf("unsupported vectordb provider: %s", cfg.Provider)
	}
}
