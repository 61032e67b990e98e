package knowledge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthdesk/medassist/common/logger"
	"github.com/healthdesk/medassist/config"
	"github.com/healthdesk/medassist/embedding"
	"github.com/healthdesk/medassist/metrics"
	"github.com/healthdesk/medassist/retriever"
	"github.com/healthdesk/medassist/schema"
	"github.com/healthdesk/medassist/textsplitter"
	"github.com/healthdesk/medassist/vectordb"
)

// Base indexes reference passages and retrieves the chunks most
// relevant to a query. Vector search is primary; keyword overlap is
// the fallback, or a parallel leg in hybrid mode.
type Base struct {
	splitter textsplitter.TextSplitter
	embed    embedding.Provider
	store    vectordb.VectorStoreProvider
	vector   *retriever.VectorRetriever
	keyword  *retriever.KeywordRetriever
	topK     int
	hybrid   bool
}

// NewBase wires the splitter, embedding provider and vector store into
// a knowledge base.
func NewBase(cfg config.KnowledgeConfig, splitter textsplitter.TextSplitter, embed embedding.Provider, store vectordb.VectorStoreProvider) *Base {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}
	return &Base{
		splitter: splitter,
		embed:    embed,
		store:    store,
		vector:   &retriever.VectorRetriever{Embed: embed, Store: store, TopK: topK},
		keyword:  &retriever.KeywordRetriever{Store: store},
		topK:     topK,
		hybrid:   cfg.Hybrid,
	}
}

// Ingest splits sources into chunks, embeds them and upserts them into
// the store. It returns the number of chunks written.
func (b *Base) Ingest(ctx context.Context, sources []string, metadatas []map[string]any) (int, error) {
	docs, err := textsplitter.CreateDocuments(b.splitter, sources, metadatas)
	if err != nil {
		return 0, fmt.Errorf("create documents: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}
	vectors, err := b.embed.GetEmbeddings(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	for i := range docs {
		docs[i].ID = uuid.New().String()
		docs[i].Vector = vectors[i]
		docs[i].Metadata["chunk_index"] = i
		docs[i].Metadata["chunk_size"] = len(docs[i].Content)
	}

	if err := b.store.AddDoc(ctx, docs); err != nil {
		return 0, fmt.Errorf("add documents: %w", err)
	}
	return len(docs), nil
}

// SeedBuiltin indexes the builtin passages unless the store already
// holds documents. It returns the number of chunks written.
func (b *Base) SeedBuiltin(ctx context.Context) (int, error) {
	existing, err := b.store.ListDocs(ctx, 1)
	if err != nil {
		return 0, fmt.Errorf("check store: %w", err)
	}
	if len(existing) > 0 {
		logger.Debugf("knowledge store already populated, skipping builtin seed")
		return 0, nil
	}

	metadatas := make([]map[string]any, len(BuiltinSources))
	for i := range BuiltinSources {
		metadatas[i] = map[string]any{"source": fmt.Sprintf("medical_ref_%d", i)}
	}
	count, err := b.Ingest(ctx, BuiltinSources, metadatas)
	if err != nil {
		return 0, err
	}
	logger.Infof("seeded knowledge base, chunks: %d", count)
	return count, nil
}

// Retrieve returns the topK chunks most relevant to the query. When
// topK is zero the configured default applies.
func (b *Base) Retrieve(ctx context.Context, query string, topK int) ([]schema.SearchResult, error) {
	if topK <= 0 {
		topK = b.topK
	}

	if b.hybrid {
		return b.retrieveHybrid(ctx, query, topK)
	}

	start := time.Now()
	results, err := b.vector.Search(ctx, query, topK)
	metrics.ObserveRetriever(b.vector.Type(), start)
	if err != nil {
		logger.Warnf("vector search failed, falling back to keyword: %v", err)
		results = nil
	}
	if len(results) == 0 {
		start = time.Now()
		results, err = b.keyword.Search(ctx, query, topK)
		metrics.ObserveRetriever(b.keyword.Type(), start)
		if err != nil {
			return nil, fmt.Errorf("keyword search: %w", err)
		}
	}
	if len(results) > 0 {
		metrics.ObserveTopScore(results[0].Score)
	}
	return results, nil
}

func (b *Base) retrieveHybrid(ctx context.Context, query string, topK int) ([]schema.SearchResult, error) {
	var inputs []retriever.RetrieverResult

	start := time.Now()
	vecResults, err := b.vector.Search(ctx, query, topK)
	metrics.ObserveRetriever(b.vector.Type(), start)
	if err != nil {
		logger.Warnf("vector search failed in hybrid retrieval: %v", err)
	} else {
		inputs = append(inputs, retriever.RetrieverResult{Retriever: b.vector.Type(), Results: vecResults})
	}

	start = time.Now()
	kwResults, err := b.keyword.Search(ctx, query, topK)
	metrics.ObserveRetriever(b.keyword.Type(), start)
	if err != nil {
		logger.Warnf("keyword search failed in hybrid retrieval: %v", err)
	} else {
		inputs = append(inputs, retriever.RetrieverResult{Retriever: b.keyword.Type(), Results: kwResults})
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("hybrid retrieval: all retrievers failed")
	}
	results := retriever.Fuse(inputs, topK)
	if len(results) > 0 {
		metrics.ObserveTopScore(results[0].Score)
	}
	return results, nil
}

// Sources extracts the source label of each result, in result order.
// Duplicates are kept so callers see one label per retrieved chunk.
func Sources(results []schema.SearchResult) []string {
	sources := make([]string, 0, len(results))
	for _, r := range results {
		if src, ok := r.Document.Metadata["source"].(string); ok && src != "" {
			sources = append(sources, src)
			continue
		}
		sources = append(sources, "unknown")
	}
	return sources
}
