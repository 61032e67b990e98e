package extract

import (
	"regexp"
	"strings"

	"github.com/healthdesk/medassist/schema"
)

// Finding categories produced by the report scanner.
const (
	CategoryLabTest     = "lab_test"
	CategoryObservation = "observation"
)

// measurementPattern matches "Test Name: 10.2 (13.5-17.5)" style lines;
// the normal range in parentheses is optional.
var measurementPattern = regexp.MustCompile(`([A-Za-z\s]+):\s*([0-9.]+)\s*(?:\(([0-9.\-\s]+)\))?`)

var observationCues = []string{"shows", "indicates", "reveals"}

// severityOrder fixes the priority of severity keyword groups; the first
// group with a hit wins.
var severityOrder = []struct {
	level    string
	keywords []string
}{
	{schema.SeverityCritical, []string{"critical", "severe", "urgent", "emergency", "abnormal"}},
	{schema.SeverityAttention, []string{"elevated", "high", "low", "borderline", "concern"}},
	{schema.SeverityNormal, []string{"normal", "within range", "stable"}},
}

// Findings extracts structured measurements and narrative observations
// from a medical report. Measurement severity is judged against the whole
// report text (impression lines usually carry the qualifiers), narrative
// severity against the sentence itself.
func Findings(reportText string) []schema.MedicalFinding {
	var findings []schema.MedicalFinding

	for _, m := range measurementPattern.FindAllStringSubmatch(reportText, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		findings = append(findings, schema.MedicalFinding{
			Category:    CategoryLabTest,
			Finding:     name,
			Value:       m[2],
			NormalRange: strings.TrimSpace(m[3]),
			Severity:    determineSeverity(reportText + " " + name),
			Confidence:  0.85,
		})
	}

	for _, sent := range strings.Split(reportText, ".") {
		if !containsAny(strings.ToLower(sent), observationCues) {
			continue
		}
		findings = append(findings, schema.MedicalFinding{
			Category:   CategoryObservation,
			Finding:    strings.TrimSpace(sent),
			Severity:   determineSeverity(sent),
			Confidence: 0.75,
		})
	}

	return findings
}

func determineSeverity(text string) string {
	lower := strings.ToLower(text)
	for _, group := range severityOrder {
		if containsAny(lower, group.keywords) {
			return group.level
		}
	}
	return schema.SeverityNormal
}
