package textsplitter

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const tokenEncoding = "cl100k_base"

// Token splits text into windows of ChunkSize tokens with
// ChunkOverlap tokens of overlap, so chunks line up with model
// context budgets instead of character counts.
type Token struct {
	enc          *tiktoken.Tiktoken
	ChunkSize    int
	ChunkOverlap int
}

func NewToken(chunkSize, chunkOverlap int) (*Token, error) {
	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", tokenEncoding, err)
	}
	return &Token{enc: enc, ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}, nil
}

func (s *Token) SplitText(text string) ([]string, error) {
	ids := s.enc.Encode(text, nil, nil)
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) <= s.ChunkSize {
		return []string{text}, nil
	}

	step := s.ChunkSize - s.ChunkOverlap
	if step < 1 {
		step = 1
	}
	var chunks []string
	for start := 0; start < len(ids); start += step {
		end := start + s.ChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, s.enc.Decode(ids[start:end]))
		if end == len(ids) {
			break
		}
	}
	return chunks, nil
}
