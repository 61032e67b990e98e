package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// offlineProvider embeds text as a hashed bag of words. The vectors are
// deterministic, so retrieval stays reproducible without any API key.
type offlineProvider struct {
	dimensions int
}

// NewOfflineProvider returns a keyless Provider emitting vectors of the
// given width.
func NewOfflineProvider(dimensions int) Provider {
	if dimensions <= 0 {
		dimensions = 256
	}
	return &offlineProvider{dimensions: dimensions}
}

func (p *offlineProvider) GetProviderType() string {
	return "offline"
}

func (p *offlineProvider) Dimensions() int {
	return p.dimensions
}

func (p *offlineProvider) GetEmbedding(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, p.dimensions)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[h.Sum32()%uint32(p.dimensions)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, nil
}

func (p *offlineProvider) GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := p.GetEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}
