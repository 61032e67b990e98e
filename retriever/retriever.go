package retriever

import (
	"context"

	"github.com/healthdesk/medassist/schema"
)

// Retriever defines a unified search interface across different backends.
type Retriever interface {
	Type() string
	// Search returns up to topK results sorted by descending score.
	Search(ctx context.Context, query string, topK int) ([]schema.SearchResult, error)
}
