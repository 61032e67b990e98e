package textsplitter

import (
	"fmt"

	"github.com/healthdesk/medassist/config"
	"github.com/healthdesk/medassist/schema"
)

// TextSplitter splits text into chunks for indexing.
type TextSplitter interface {
	SplitText(text string) ([]string, error)
}

// NewTextSplitter creates the splitter selected by cfg.
func NewTextSplitter(cfg *config.SplitterConfig) (TextSplitter, error) {
	switch cfg.Provider {
	case "recursive":
		return NewRecursiveCharacter(cfg.ChunkSize, cfg.ChunkOverlap), nil
	case "character":
		return NewCharacter(cfg.ChunkSize, cfg.ChunkOverlap), nil
	case "token":
		return NewToken(cfg.ChunkSize, cfg.ChunkOverlap)
	default:
		return nil, fmt.Errorf("unsupported splitter provider: %s", cfg.Provider)
	}
}

// CreateDocuments splits each text and wraps the chunks as documents,
// copying the matching metadata onto every chunk. Missing metadatas are
// padded with empty maps.
func CreateDocuments(splitter TextSplitter, texts []string, metadatas []map[string]any) ([]schema.Document, error) {
	if len(metadatas) == 0 {
		metadatas = make([]map[string]any, len(texts))
	}
	if len(texts) != len(metadatas) {
		return nil, fmt.Errorf("texts and metadatas length mismatch: %d vs %d", len(texts), len(metadatas))
	}

	var docs []schema.Document
	for i, text := range texts {
		chunks, err := splitter.SplitText(text)
		if err != nil {
			return nil, fmt.Errorf("split text %d: %w", i, err)
		}
		for _, chunk := range chunks {
			meta := make(map[string]any, len(metadatas[i]))
			for k, v := range metadatas[i] {
				meta[k] = v
			}
			docs = append(docs, schema.Document{Content: chunk, Metadata: meta})
		}
	}
	return docs, nil
}
