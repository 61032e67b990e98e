package prompt

import (
	"fmt"
	"strings"

	"github.com/healthdesk/medassist/schema"
)

// ExplainSystem is the system message for grounded report explanations
// and knowledge-base answers.
const ExplainSystem = "You are a medical explanation assistant. Only use provided sources. Mark uncertainties clearly."

// UncertaintyPhrase is the marker the model is instructed to emit when
// the knowledge base does not cover a finding.
const UncertaintyPhrase = "This is unclear from available information"

// ExplainReport builds the grounded prompt for explaining report
// findings from retrieved knowledge only.
func ExplainReport(contextDocs []string, findings []schema.MedicalFinding, patient schema.PatientContext) string {
	findingLines := make([]string, 0, len(findings))
	for _, f := range findings {
		value := f.Value
		if value == "" {
			value = "observed"
		}
		findingLines = append(findingLines, fmt.Sprintf("- %s: %s (%s)", f.Finding, value, f.Severity))
	}

	conditions := strings.Join(patient.Conditions, ", ")
	if conditions == "" {
		conditions = "None"
	}
	literacy := schema.LiteracyInstruction(patient.MedicalLiteracy)

	return fmt.Sprintf(`You are a medical AI assistant. Explain this report using ONLY the provided medical knowledge.

MEDICAL KNOWLEDGE BASE:
%s

REPORT FINDINGS:
%s

PATIENT CONTEXT:
- Age: %d
- Medical literacy: %s
- Existing conditions: %s

INSTRUCTIONS:
1. Explain findings using ONLY information from the knowledge base
2. Use %s
3. If uncertain, explicitly state "%s"
4. Personalize for age %d and conditions: %s
5. Be concise but complete

Provide explanation:`,
		bulletList(contextDocs), strings.Join(findingLines, "\n"),
		patient.Age, literacy, conditions,
		literacy, UncertaintyPhrase, patient.Age, conditions)
}

// AnswerQuestion builds the grounded prompt for free-form questions.
func AnswerQuestion(contextDocs []string, question string, patient schema.PatientContext) string {
	conditions := strings.Join(patient.Conditions, ", ")
	if conditions == "" {
		conditions = "None"
	}

	return fmt.Sprintf(`You are a medical AI assistant. Answer the question using ONLY the provided medical knowledge.

MEDICAL KNOWLEDGE BASE:
%s

QUESTION:
%s

PATIENT CONTEXT:
- Age: %d
- Medical literacy: %s
- Existing conditions: %s

INSTRUCTIONS:
1. Answer using ONLY the knowledge base
2. If uncertain, explicitly state "%s"
3. Be concise and clear

Provide answer:`,
		bulletList(contextDocs), question,
		patient.Age, patient.MedicalLiteracy, conditions, UncertaintyPhrase)
}

func bulletList(docs []string) string {
	lines := make([]string, 0, len(docs))
	for _, doc := range docs {
		lines = append(lines, "- "+doc)
	}
	return strings.Join(lines, "\n")
}
