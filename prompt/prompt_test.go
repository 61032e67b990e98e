package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/healthdesk/medassist/llm"
	"github.com/healthdesk/medassist/schema"
)

func TestContextLine(t *testing.T) {
	pc := schema.PatientContext{
		Age:         34,
		Conditions:  []string{"diabetes", "hypertension"},
		Medications: []string{"metformin"},
	}
	got := ContextLine(pc)
	want := "Patient context: | Age: 34 | Conditions: diabetes, hypertension | Medications: metformin"
	if got != want {
		t.Errorf("unexpected context line:\n got %q\nwant %q", got, want)
	}

	if got := ContextLine(schema.PatientContext{}); got != "" {
		t.Errorf("expected empty line for empty context, got %q", got)
	}
}

func TestEnhanceUserMessage(t *testing.T) {
	pc := schema.PatientContext{Age: 34}
	got := EnhanceUserMessage(pc, "I have a headache")
	if !strings.HasPrefix(got, "Patient context: | Age: 34") {
		t.Errorf("expected context prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "\n\nUser message: I have a headache") {
		t.Errorf("expected user message suffix, got %q", got)
	}

	plain := EnhanceUserMessage(schema.PatientContext{}, "hello")
	if plain != "hello" {
		t.Errorf("expected passthrough without context, got %q", plain)
	}
}

func TestCompose_WindowsHistory(t *testing.T) {
	var history []llm.Message
	for i := 0; i < 20; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: fmt.Sprintf("message %d", i)})
	}

	messages := Compose(history)
	if len(messages) != HistoryWindow+1 {
		t.Fatalf("expected %d messages, got %d", HistoryWindow+1, len(messages))
	}
	if messages[0].Role != llm.RoleSystem || messages[0].Content != SystemPrompt {
		t.Error("expected system prompt first")
	}
	// The oldest retained message is number 8 of 0..19.
	if messages[1].Content != "message 8" {
		t.Errorf("expected window to start at message 8, got %q", messages[1].Content)
	}
	if messages[len(messages)-1].Content != "message 19" {
		t.Errorf("expected newest message last, got %q", messages[len(messages)-1].Content)
	}
}

func TestCompose_ShortHistory(t *testing.T) {
	history := []llm.Message{{Role: llm.RoleUser, Content: "hi"}}
	messages := Compose(history)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
}

func TestExplainReport(t *testing.T) {
	docs := []string{"Hemoglobin normal range: 13.5-17.5 g/dL."}
	findings := []schema.MedicalFinding{
		{Finding: "Hemoglobin", Value: "10.2", NormalRange: "13.5-17.5", Severity: schema.SeverityAttention},
		{Finding: "elevated glucose levels", Severity: schema.SeverityAttention},
	}
	patient := schema.PatientContext{Age: 55, MedicalLiteracy: schema.LiteracyMedium, Conditions: []string{"Type 2 Diabetes"}}

	p := ExplainReport(docs, findings, patient)
	for _, want := range []string{
		"- Hemoglobin normal range: 13.5-17.5 g/dL.",
		"- Hemoglobin: 10.2 (attention)",
		"- elevated glucose levels: observed (attention)",
		"Age: 55",
		"clear language with some medical terms explained",
		"Existing conditions: Type 2 Diabetes",
		UncertaintyPhrase,
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAnswerQuestion(t *testing.T) {
	p := AnswerQuestion([]string{"TSH normal range: 0.4-4.0 mIU/L."}, "what is a normal TSH", schema.PatientContext{Age: 40, MedicalLiteracy: schema.LiteracyLow})
	for _, want := range []string{
		"QUESTION:\nwhat is a normal TSH",
		"- TSH normal range: 0.4-4.0 mIU/L.",
		"Existing conditions: None",
		"Medical literacy: low",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
