package embedding

import (
	"context"

	"github.com/healthdesk/medassist/cache"
)

// cachedProvider memoizes vectors so repeated queries skip the upstream
// call. Knowledge retrieval hits the same few query strings often.
type cachedProvider struct {
	inner Provider
	cache *cache.VectorCache
}

// NewCachedProvider wraps inner with an LRU of the given capacity.
func NewCachedProvider(inner Provider, size int) Provider {
	return &cachedProvider{
		inner: inner,
		cache: cache.NewVectorCache(size, 0),
	}
}

func (p *cachedProvider) GetProviderType() string {
	return p.inner.GetProviderType()
}

func (p *cachedProvider) Dimensions() int {
	return p.inner.Dimensions()
}

func (p *cachedProvider) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := p.cache.Get(text); ok {
		return vec, nil
	}
	vec, err := p.inner.GetEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	p.cache.Set(text, vec)
	return vec, nil
}

func (p *cachedProvider) GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vec, ok := p.cache.Get(text); ok {
			vectors[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return vectors, nil
	}

	fetched, err := p.inner.GetEmbeddings(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, vec := range fetched {
		p.cache.Set(missing[j], vec)
		vectors[missingIdx[j]] = vec
	}
	return vectors, nil
}
