package retriever

import (
	"context"
	"testing"

	"github.com/healthdesk/medassist/embedding"
	"github.com/healthdesk/medassist/schema"
	"github.com/healthdesk/medassist/vectordb"
)

func seedKnowledge(t *testing.T) (embedding.Provider, *vectordb.MemoryStore) {
	t.Helper()
	embed := embedding.NewOfflineProvider(128)
	store := vectordb.NewMemoryStore(schema.MetricCosine)

	texts := map[string]string{
		"kb-1": "Hemoglobin carries oxygen in red blood cells. Normal range is 13.5 to 17.5 g/dL for men.",
		"kb-2": "Blood glucose measures sugar levels. Fasting glucose above 126 mg/dL suggests diabetes.",
		"kb-3": "TSH regulates thyroid function. Normal TSH range is 0.4 to 4.0 mIU/L.",
	}
	docs := make([]schema.Document, 0, len(texts))
	for id, text := range texts {
		vec, err := embed.GetEmbedding(context.Background(), text)
		if err != nil {
			t.Fatalf("embed: %v", err)
		}
		docs = append(docs, schema.Document{ID: id, Content: text, Vector: vec})
	}
	if err := store.AddDoc(context.Background(), docs); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return embed, store
}

func TestVectorRetriever_Search(t *testing.T) {
	embed, store := seedKnowledge(t)
	r := &VectorRetriever{Embed: embed, Store: store, TopK: 3}

	results, err := r.Search(context.Background(), "hemoglobin normal range for red blood cells", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Document.ID != "kb-1" {
		t.Errorf("expected hemoglobin doc first, got %s", results[0].Document.ID)
	}
	if r.Type() != "vector" {
		t.Errorf("unexpected type %s", r.Type())
	}
}

func TestKeywordRetriever_Search(t *testing.T) {
	_, store := seedKnowledge(t)
	r := &KeywordRetriever{Store: store}

	results, err := r.Search(context.Background(), "fasting glucose diabetes", 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Document.ID != "kb-2" {
		t.Errorf("expected glucose doc first, got %s", results[0].Document.ID)
	}
	// All three query terms appear in kb-2.
	if results[0].Score != 1 {
		t.Errorf("expected full overlap score 1, got %f", results[0].Score)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Error("results not sorted by score")
		}
	}
}

func TestKeywordRetriever_EmptyQuery(t *testing.T) {
	_, store := seedKnowledge(t)
	r := &KeywordRetriever{Store: store}

	results, err := r.Search(context.Background(), "!!!", 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results for query without terms, got %d", len(results))
	}
}

func TestFuse(t *testing.T) {
	inputs := []RetrieverResult{
		{
			Retriever: "vector",
			Results: []schema.SearchResult{
				{Document: schema.Document{ID: "a"}, Score: 0.9},
				{Document: schema.Document{ID: "b"}, Score: 0.5},
			},
		},
		{
			Retriever: "keyword",
			Results: []schema.SearchResult{
				{Document: schema.Document{ID: "b"}, Score: 0.8},
				{Document: schema.Document{ID: "c"}, Score: 0.4},
			},
		},
	}

	fused := Fuse(inputs, 0)
	if len(fused) != 3 {
		t.Fatalf("expected 3 fused results, got %d", len(fused))
	}
	if fused[0].Document.ID != "a" || fused[1].Document.ID != "b" || fused[2].Document.ID != "c" {
		t.Errorf("unexpected order: %v", fused)
	}
	// b keeps the keyword score, the higher of the two.
	if fused[1].Score != 0.8 {
		t.Errorf("expected highest score kept for b, got %f", fused[1].Score)
	}
	if fused[1].Document.Metadata["retriever_type"] != "keyword" {
		t.Errorf("expected keyword annotation, got %v", fused[1].Document.Metadata)
	}

	capped := Fuse(inputs, 2)
	if len(capped) != 2 {
		t.Errorf("expected topK cap of 2, got %d", len(capped))
	}
}
