package triage

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		emergency bool
		severity  Level
	}{
		{"chest pain", "I have chest pain and can't breathe", true, SeverityHigh},
		{"stroke", "my father may be having a stroke", true, SeverityHigh},
		{"severe abdominal pain", "severe abdominal pain since morning", true, SeverityHigh},
		{"urgent reply", "This is urgent, go to the ER", false, SeverityHigh},
		{"call 911", "Please call 911 right away", false, SeverityHigh},
		{"er word bounded", "visit the er if it worsens", false, SeverityHigh},
		{"er not inside words", "you should drink water for your fever", false, SeverityLow},
		{"referral", "you should see a doctor about this", false, SeverityMedium},
		{"medical attention", "this needs medical attention soon", false, SeverityMedium},
		{"consult", "consult your physician if it persists", false, SeverityMedium},
		{"benign", "rest and drink fluids", false, SeverityLow},
		{"empty", "", false, SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if got.Emergency != tt.emergency {
				t.Errorf("emergency: expected %v, got %v", tt.emergency, got.Emergency)
			}
			if got.Severity != tt.severity {
				t.Errorf("severity: expected %s, got %s", tt.severity, got.Severity)
			}
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// Emergency phrases win over referral phrases in the same text.
	got := Classify("see a doctor about this chest pain")
	if !got.Emergency || got.Severity != SeverityHigh {
		t.Fatalf("expected emergency/high, got %+v", got)
	}

	// Urgency cues win over referral cues.
	got = Classify("see a doctor immediately")
	if got.Emergency {
		t.Fatal("expected no emergency flag for urgency cue")
	}
	if got.Severity != SeverityHigh {
		t.Fatalf("expected high, got %s", got.Severity)
	}
}

func TestClassify_Pure(t *testing.T) {
	text := "persistent cough, consult a doctor"
	first := Classify(text)
	for i := 0; i < 5; i++ {
		if got := Classify(text); got != first {
			t.Fatalf("classification not stable: %+v vs %+v", first, got)
		}
	}
}

func TestIsEmergency(t *testing.T) {
	if !IsEmergency("severe bleeding from the wound") {
		t.Error("expected emergency for severe bleeding")
	}
	if IsEmergency("mild headache since yesterday") {
		t.Error("expected no emergency for mild headache")
	}
}
