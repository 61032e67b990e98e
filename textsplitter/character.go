package textsplitter

// Character splits text into fixed-size rune windows with overlap. It
// ignores structure entirely, which suits dense unformatted text.
type Character struct {
	ChunkSize    int
	ChunkOverlap int
}

func NewCharacter(chunkSize, chunkOverlap int) *Character {
	return &Character{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}
}

func (s *Character) SplitText(text string) ([]string, error) {
	runes := []rune(text)
	if len(runes) <= s.ChunkSize {
		if len(runes) == 0 {
			return nil, nil
		}
		return []string{text}, nil
	}

	step := s.ChunkSize - s.ChunkOverlap
	if step < 1 {
		step = 1
	}
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}
