package knowledge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/healthdesk/medassist/config"
	"github.com/healthdesk/medassist/embedding"
	"github.com/healthdesk/medassist/schema"
	"github.com/healthdesk/medassist/textsplitter"
	"github.com/healthdesk/medassist/vectordb"
)

func newTestBase(t *testing.T, cfg config.KnowledgeConfig) *Base {
	t.Helper()
	return NewBase(cfg,
		textsplitter.NewRecursiveCharacter(500, 50),
		embedding.NewOfflineProvider(128),
		vectordb.NewMemoryStore(schema.MetricCosine))
}

func TestBase_SeedBuiltinIdempotent(t *testing.T) {
	b := newTestBase(t, config.KnowledgeConfig{TopK: 3})
	ctx := context.Background()

	count, err := b.SeedBuiltin(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if count != len(BuiltinSources) {
		t.Errorf("expected %d chunks, got %d", len(BuiltinSources), count)
	}

	count, err = b.SeedBuiltin(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no chunks on second seed, got %d", count)
	}
}

func TestBase_Retrieve(t *testing.T) {
	b := newTestBase(t, config.KnowledgeConfig{TopK: 3})
	ctx := context.Background()
	if _, err := b.SeedBuiltin(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	results, err := b.Retrieve(ctx, "low hemoglobin anemia fatigue weakness", 3)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !strings.Contains(results[0].Document.Content, "Hemoglobin") {
		t.Errorf("expected hemoglobin passage first, got %q", results[0].Document.Content)
	}

	sources := Sources(results)
	if len(sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(sources))
	}
	if sources[0] != "medical_ref_0" {
		t.Errorf("expected medical_ref_0, got %s", sources[0])
	}
}

func TestBase_KeywordFallbackOnEmbedFailure(t *testing.T) {
	store := vectordb.NewMemoryStore(schema.MetricCosine)
	good := NewBase(config.KnowledgeConfig{TopK: 3},
		textsplitter.NewRecursiveCharacter(500, 50),
		embedding.NewOfflineProvider(128), store)
	ctx := context.Background()
	if _, err := good.SeedBuiltin(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Same store, but queries embed through a broken provider.
	broken := NewBase(config.KnowledgeConfig{TopK: 3},
		textsplitter.NewRecursiveCharacter(500, 50),
		&failingEmbed{}, store)

	results, err := broken.Retrieve(ctx, "fasting glucose diabetes", 3)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected keyword fallback results")
	}
	if !strings.Contains(results[0].Document.Content, "glucose") {
		t.Errorf("expected glucose passage first, got %q", results[0].Document.Content)
	}
}

func TestBase_HybridFusesRetrievers(t *testing.T) {
	b := newTestBase(t, config.KnowledgeConfig{TopK: 3, Hybrid: true})
	ctx := context.Background()
	if _, err := b.SeedBuiltin(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	results, err := b.Retrieve(ctx, "cholesterol heart disease risk", 3)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if !strings.Contains(results[0].Document.Content, "cholesterol") {
		t.Errorf("expected cholesterol passage first, got %q", results[0].Document.Content)
	}
	if results[0].Document.Metadata["retriever_type"] == nil {
		t.Error("expected retriever_type annotation in hybrid mode")
	}
}

type failingEmbed struct{}

func (f *failingEmbed) GetEmbedding(context.Context, string) ([]float32, error) {
	return nil, errors.New("embed backend down")
}

func (f *failingEmbed) GetEmbeddings(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("embed backend down")
}

func (f *failingEmbed) Dimensions() int { return 128 }

func (f *failingEmbed) GetProviderType() string { return "failing" }
