package textsplitter

import "strings"

// RecursiveCharacter splits on the coarsest separator that keeps chunks
// under ChunkSize, recursing to finer separators for oversized pieces.
type RecursiveCharacter struct {
	Separators   []string
	ChunkSize    int
	ChunkOverlap int
}

// NewRecursiveCharacter returns a splitter over paragraph, line,
// sentence and word boundaries.
func NewRecursiveCharacter(chunkSize, chunkOverlap int) *RecursiveCharacter {
	return &RecursiveCharacter{
		Separators:   []string{"\n\n", "\n", ". ", " "},
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}
}

func (s *RecursiveCharacter) SplitText(text string) ([]string, error) {
	return s.split(text, s.Separators), nil
}

func (s *RecursiveCharacter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var next []string
	for i, sep := range separators {
		if strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	splits := strings.Split(text, separator)
	var chunks []string
	var good []string
	for _, split := range splits {
		if len(split) < s.ChunkSize {
			good = append(good, split)
			continue
		}
		if len(good) > 0 {
			chunks = append(chunks, mergeSplits(good, separator, s.ChunkSize, s.ChunkOverlap)...)
			good = nil
		}
		if len(next) == 0 {
			chunks = append(chunks, split)
		} else {
			chunks = append(chunks, s.split(split, next)...)
		}
	}
	if len(good) > 0 {
		chunks = append(chunks, mergeSplits(good, separator, s.ChunkSize, s.ChunkOverlap)...)
	}
	return chunks
}

// mergeSplits packs consecutive splits into chunks no longer than
// chunkSize, carrying a tail of up to chunkOverlap into the next chunk.
func mergeSplits(splits []string, separator string, chunkSize, chunkOverlap int) []string {
	sepLen := len(separator)
	var chunks []string
	var current []string
	total := 0

	for _, split := range splits {
		projected := total + len(split)
		if len(current) > 0 {
			projected += sepLen
		}
		if projected > chunkSize && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, separator)); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > chunkOverlap && len(current) > 0 {
				total -= len(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}
		current = append(current, split)
		total += len(split)
		if len(current) > 1 {
			total += sepLen
		}
	}
	if chunk := strings.TrimSpace(strings.Join(current, separator)); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}
