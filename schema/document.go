package schema

// Document is a unit of reference text stored in a vector store.
type Document struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Vector   []float32      `json:"vector,omitempty"`
}

// SearchResult pairs a document with its similarity score.
// Scores are normalized so that higher is always better, regardless
// of the underlying distance metric.
type SearchResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// Supported distance metrics for vector search.
const (
	MetricCosine = "cosine"
	MetricL2     = "l2"
)

// SearchOptions controls a vector search.
type SearchOptions struct {
	TopK      int     `json:"top_k"`
	Threshold float64 `json:"threshold,omitempty"`
	Metric    string  `json:"metric,omitempty"`
}
