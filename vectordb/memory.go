package vectordb

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/healthdesk/medassist/schema"
)

const defaultSearchTopK = 10

// MemoryStore is an exhaustive-scan store for small corpora. It is the
// default backend and the one used in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string]schema.Document
	metric string
}

// NewMemoryStore creates an empty store using the given metric
// (schema.MetricCosine when empty).
func NewMemoryStore(metric string) *MemoryStore {
	if metric == "" {
		metric = schema.MetricCosine
	}
	return &MemoryStore{
		docs:   make(map[string]schema.Document),
		metric: metric,
	}
}

func (s *MemoryStore) GetProviderType() string {
	return "memory"
}

func (s *MemoryStore) AddDoc(_ context.Context, docs []schema.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("add doc: missing id")
		}
		if len(doc.Vector) == 0 {
			return fmt.Errorf("add doc %s: missing vector", doc.ID)
		}
		s.docs[doc.ID] = doc
	}
	return nil
}

func (s *MemoryStore) SearchDocs(_ context.Context, vector []float32, options *schema.SearchOptions) ([]schema.SearchResult, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("search docs: empty query vector")
	}

	topK := defaultSearchTopK
	threshold := 0.0
	metric := s.metric
	if options != nil {
		if options.TopK > 0 {
			topK = options.TopK
		}
		threshold = options.Threshold
		if options.Metric != "" {
			metric = options.Metric
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]schema.SearchResult, 0, len(s.docs))
	for _, doc := range s.docs {
		if len(doc.Vector) != len(vector) {
			return nil, fmt.Errorf("search docs: doc %s has %d dimensions, query has %d", doc.ID, len(doc.Vector), len(vector))
		}
		score, err := similarity(vector, doc.Vector, metric)
		if err != nil {
			return nil, err
		}
		if threshold > 0 && score < threshold {
			continue
		}
		results = append(results, schema.SearchResult{Document: doc, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.ID < results[j].Document.ID
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (s *MemoryStore) DeleteDocs(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.docs, id)
	}
	return nil
}

func (s *MemoryStore) ListDocs(_ context.Context, limit int) ([]schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if limit <= 0 || limit > len(ids) {
		limit = len(ids)
	}
	docs := make([]schema.Document, 0, limit)
	for _, id := range ids[:limit] {
		doc := s.docs[id]
		doc.Vector = nil
		docs = append(docs, doc)
	}
	return docs, nil
}

// similarity maps both metrics onto a higher-is-better score. L2
// distance d becomes 1/(1+d) so thresholds compose the same way for
// either metric.
func similarity(a, b []float32, metric string) (float64, error) {
	switch metric {
	case schema.MetricCosine:
		var dot, normA, normB float64
		for i := range a {
			dot += float64(a[i]) * float64(b[i])
			normA += float64(a[i]) * float64(a[i])
			normB += float64(b[i]) * float64(b[i])
		}
		if normA == 0 || normB == 0 {
			return 0, nil
		}
		return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
	case schema.MetricL2:
		var sum float64
		for i := range a {
			d := float64(a[i]) - float64(b[i])
			sum += d * d
		}
		return 1 / (1 + math.Sqrt(sum)), nil
	default:
		return 0, fmt.Errorf("unsupported metric: %s", metric)
	}
}
