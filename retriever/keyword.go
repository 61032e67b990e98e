package retriever

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/healthdesk/medassist/schema"
	"github.com/healthdesk/medassist/vectordb"
)

var termPattern = regexp.MustCompile(`[a-z0-9]+`)

// KeywordRetriever scores stored documents by query-term overlap. It
// needs no embeddings, so it also serves as the fallback path when
// vector search is unavailable.
type KeywordRetriever struct {
	Store vectordb.VectorStoreProvider
	// MaxScan caps how many documents are pulled for scoring.
	MaxScan int
}

func (r *KeywordRetriever) Type() string { return "keyword" }

func (r *KeywordRetriever) Search(ctx context.Context, query string, topK int) ([]schema.SearchResult, error) {
	if topK <= 0 {
		topK = 10
	}
	limit := r.MaxScan
	if limit <= 0 {
		limit = 1000
	}

	qTerms := termSet(query)
	if len(qTerms) == 0 {
		return nil, nil
	}

	docs, err := r.Store.ListDocs(ctx, limit)
	if err != nil {
		return nil, err
	}

	results := make([]schema.SearchResult, 0, len(docs))
	for _, doc := range docs {
		overlap := 0
		for term := range termSet(doc.Content) {
			if qTerms[term] {
				overlap++
			}
		}
		score := float64(overlap) / float64(len(qTerms))
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

func termSet(text string) map[string]bool {
	terms := make(map[string]bool)
	for _, term := range termPattern.FindAllString(strings.ToLower(text), -1) {
		terms[term] = true
	}
	return terms
}
