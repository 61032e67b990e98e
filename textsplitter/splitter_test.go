package textsplitter

import (
	"strings"
	"testing"

	"github.com/healthdesk/medassist/config"
)

func TestRecursiveCharacter_ShortTextSingleChunk(t *testing.T) {
	s := NewRecursiveCharacter(500, 50)
	chunks, err := s.SplitText("Hemoglobin carries oxygen in red blood cells.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
}

func TestRecursiveCharacter_SplitsOnParagraphs(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta. ", 4) + "\n\n" + strings.Repeat("one two three four. ", 4)
	s := NewRecursiveCharacter(100, 10)

	chunks, err := s.SplitText(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 100 {
			t.Errorf("chunk %d over size: %d chars", i, len(chunk))
		}
	}
}

func TestRecursiveCharacter_FallsBackToWords(t *testing.T) {
	// No paragraph, line or sentence breaks; must split on spaces.
	text := strings.TrimSpace(strings.Repeat("word ", 50))
	s := NewRecursiveCharacter(40, 8)

	chunks, err := s.SplitText(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 40 {
			t.Errorf("chunk %d over size: %q", i, chunk)
		}
	}
	joined := strings.Join(chunks, " ")
	if !strings.Contains(joined, "word word") {
		t.Error("expected words preserved in chunks")
	}
}

func TestCharacter_Windows(t *testing.T) {
	s := NewCharacter(10, 2)
	chunks, err := s.SplitText("abcdefghijklmnopqrstuvwxyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks[0] != "abcdefghij" {
		t.Errorf("unexpected first chunk: %q", chunks[0])
	}
	// Step is size minus overlap, so the second window starts at i.
	if chunks[1] != "ijklmnopqr" {
		t.Errorf("unexpected second chunk: %q", chunks[1])
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(last, "z") {
		t.Errorf("expected final chunk to reach the end, got %q", last)
	}
}

func TestCharacter_Empty(t *testing.T) {
	s := NewCharacter(10, 2)
	chunks, err := s.SplitText("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestNewTextSplitter(t *testing.T) {
	s, err := NewTextSplitter(&config.SplitterConfig{Provider: "recursive", ChunkSize: 500, ChunkOverlap: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*RecursiveCharacter); !ok {
		t.Errorf("expected RecursiveCharacter, got %T", s)
	}

	if _, err := NewTextSplitter(&config.SplitterConfig{Provider: "semantic"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestCreateDocuments(t *testing.T) {
	s := NewRecursiveCharacter(500, 50)
	docs, err := CreateDocuments(s, []string{"short text one", "short text two"},
		[]map[string]any{{"source": "medical_ref_0"}, {"source": "medical_ref_1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Metadata["source"] != "medical_ref_0" {
		t.Errorf("unexpected metadata: %v", docs[0].Metadata)
	}

	// Empty metadatas are padded.
	docs, err = CreateDocuments(s, []string{"only text"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs[0].Metadata == nil {
		t.Error("expected non-nil metadata map")
	}
}
