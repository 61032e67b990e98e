package extract

import (
	"strings"
	"testing"

	"github.com/healthdesk/medassist/schema"
)

const sampleReport = `
Patient Blood Test Results:

Hemoglobin: 10.2 (13.5-17.5)
Blood Glucose Fasting: 118 (70-100)
Creatinine: 1.1 (0.7-1.3)

Impression: Shows elevated glucose levels. Hemoglobin is below normal range
indicating possible anemia.
`

func TestFindings_Measurements(t *testing.T) {
	findings := Findings(sampleReport)

	var labs []schema.MedicalFinding
	for _, f := range findings {
		if f.Category == CategoryLabTest {
			labs = append(labs, f)
		}
	}
	if len(labs) != 3 {
		t.Fatalf("expected 3 lab findings, got %d: %+v", len(labs), labs)
	}

	hb := labs[0]
	if hb.Finding != "Hemoglobin" {
		t.Errorf("expected Hemoglobin, got %q", hb.Finding)
	}
	if hb.Value != "10.2" {
		t.Errorf("expected value 10.2, got %q", hb.Value)
	}
	if hb.NormalRange != "13.5-17.5" {
		t.Errorf("expected range 13.5-17.5, got %q", hb.NormalRange)
	}
	if hb.Confidence != 0.85 {
		t.Errorf("expected confidence 0.85, got %v", hb.Confidence)
	}
}

func TestFindings_Observations(t *testing.T) {
	findings := Findings(sampleReport)

	var obs []schema.MedicalFinding
	for _, f := range findings {
		if f.Category == CategoryObservation {
			obs = append(obs, f)
		}
	}
	if len(obs) == 0 {
		t.Fatal("expected at least one observation finding")
	}
	if !strings.Contains(obs[0].Finding, "elevated glucose") {
		t.Errorf("unexpected observation: %q", obs[0].Finding)
	}
	if obs[0].Confidence != 0.75 {
		t.Errorf("expected confidence 0.75, got %v", obs[0].Confidence)
	}
	if obs[0].Severity != schema.SeverityAttention {
		t.Errorf("expected attention severity, got %q", obs[0].Severity)
	}
}

func TestFindings_SeverityPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"critical beats attention", "WBC: 12500 (4000-11000). Result is severe and elevated.", schema.SeverityCritical},
		{"attention", "TSH: 5.1 (0.4-4.0). Value is borderline.", schema.SeverityAttention},
		{"default normal", "TSH: 2.1 (0.4-4.0).", schema.SeverityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := Findings(tt.text)
			if len(findings) == 0 {
				t.Fatal("expected findings")
			}
			if findings[0].Severity != tt.want {
				t.Errorf("expected %s, got %s", tt.want, findings[0].Severity)
			}
		})
	}
}

func TestFindings_NoRange(t *testing.T) {
	findings := Findings("Vitamin D: 18")
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].NormalRange != "" {
		t.Errorf("expected empty range, got %q", findings[0].NormalRange)
	}
}
