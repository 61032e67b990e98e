package report

import (
	"math"
	"strings"

	"github.com/healthdesk/medassist/schema"
)

// uncertaintyMarkers flag hedged sentences in generated explanations.
var uncertaintyMarkers = []string{
	"unclear", "uncertain", "may", "might", "possibly", "not enough information",
}

const (
	uncertaintyPenalty        = 0.1
	offlineUncertaintyPenalty = 0.15
	offlineDamping            = 0.8
)

// Uncertainties returns the sentences of text that contain an uncertainty
// marker, trimmed, in order of appearance.
func Uncertainties(text string) []string {
	var out []string
	for _, sentence := range strings.Split(text, ".") {
		lower := strings.ToLower(sentence)
		for _, marker := range uncertaintyMarkers {
			if strings.Contains(lower, marker) {
				out = append(out, strings.TrimSpace(sentence))
				break
			}
		}
	}
	return out
}

// confidence scores an explanation from the mean retrieval similarity,
// damped per hedged sentence, clamped to [0, 1].
func confidence(avgSimilarity float64, uncertainties int, penalty float64) float64 {
	c := avgSimilarity * (1 - float64(uncertainties)*penalty)
	return math.Max(0, math.Min(1, c))
}

// averageScore is the mean similarity of the retrieved context.
// whenEmpty is the value an empty retrieval counts as: the online path
// treats missing context as fully trusted model output, the offline path
// as zero grounding.
func averageScore(results []schema.SearchResult, whenEmpty float64) float64 {
	if len(results) == 0 {
		return whenEmpty
	}
	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	return sum / float64(len(results))
}
