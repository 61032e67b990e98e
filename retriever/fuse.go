package retriever

import (
	"sort"

	"github.com/healthdesk/medassist/schema"
)

// RetrieverResult pairs a retriever type with its result list.
type RetrieverResult struct {
	Retriever string
	Results   []schema.SearchResult
}

// Fuse merges per-retriever results by document ID, keeping the highest
// score for each document and tagging it with the retriever that found
// it. Results come back sorted by score descending, capped at topK.
func Fuse(inputs []RetrieverResult, topK int) []schema.SearchResult {
	if len(inputs) == 0 {
		return []schema.SearchResult{}
	}

	scores := make(map[string]schema.SearchResult)
	for _, in := range inputs {
		for _, item := range in.Results {
			id := item.Document.ID
			if id == "" {
				continue
			}
			if item.Document.Metadata == nil {
				item.Document.Metadata = make(map[string]any)
			}
			item.Document.Metadata["retriever_type"] = in.Retriever

			existing, ok := scores[id]
			if !ok || item.Score > existing.Score {
				scores[id] = item
			}
		}
	}

	out := make([]schema.SearchResult, 0, len(scores))
	for _, result := range scores {
		out = append(out, result)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Document.ID < out[j].Document.ID
	})
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
