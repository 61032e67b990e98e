package booking

import (
	"strings"
	"testing"
	"time"
)

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"I want to book appointment for next week", true},
		{"Can you schedule appointment with a cardiologist?", true},
		{"Do I need to see a doctor about this?", true},
		{"I'd like a consultation", true},
		{"APPOINTMENT please", true},
		{"I have a headache and feel dizzy", false},
		{"what is a normal glucose level", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := DetectIntent(tt.message); got != tt.want {
			t.Errorf("DetectIntent(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestSuggestSpecialty(t *testing.T) {
	tests := []struct {
		name       string
		symptoms   []string
		conditions []string
		want       string
	}{
		{"condition wins over symptom", []string{"headache"}, []string{"diabetes"}, "Endocrinologist"},
		{"condition is case insensitive", nil, []string{"Hypertension"}, "Cardiologist"},
		{"symptom substring match", []string{"stomach ache"}, nil, "Gastroenterologist"},
		{"breathing trouble", []string{"trouble breathing"}, nil, "Pulmonologist"},
		{"rule order is deterministic", []string{"heart racing and stomach upset"}, nil, "Cardiologist"},
		{"nothing matches", []string{"fatigue"}, []string{"gout"}, "General Physician"},
		{"empty input", nil, nil, "General Physician"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestSpecialty(tt.symptoms, tt.conditions); got != tt.want {
				t.Errorf("SuggestSpecialty(%v, %v) = %q, want %q", tt.symptoms, tt.conditions, got, tt.want)
			}
		})
	}
}

func TestAvailableSlots(t *testing.T) {
	// A Friday at noon, so the scan starts on Saturday and the first
	// bookable day is the following Monday.
	now := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)

	slots := AvailableSlots("Cardiologist", 7, now)

	if len(slots) != 10 {
		t.Fatalf("expected the 10-slot cap, got %d", len(slots))
	}
	if slots[0].Date != "2026-08-24" || slots[0].Time != "09:00" {
		t.Fatalf("expected first slot Monday 2026-08-24 09:00, got %s %s", slots[0].Date, slots[0].Time)
	}

	dates := map[string]bool{}
	for _, slot := range slots {
		if slot.Specialty != "Cardiologist" {
			t.Fatalf("slot tagged %q, want Cardiologist", slot.Specialty)
		}
		if !slot.Available {
			t.Fatal("expected every synthetic slot to be available")
		}
		date, err := time.Parse("2006-01-02", slot.Date)
		if err != nil {
			t.Fatalf("bad slot date %q: %v", slot.Date, err)
		}
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("slot on a weekend: %s (%s)", slot.Date, wd)
		}
		dates[slot.Date] = true
	}
	if len(dates) > 7 {
		t.Fatalf("slots span %d distinct dates, want at most 7", len(dates))
	}

	// The cap fills Monday's seven hours and spills into Tuesday.
	if slots[7].Date != "2026-08-25" || slots[7].Time != "09:00" {
		t.Fatalf("expected slot 8 on Tuesday 09:00, got %s %s", slots[7].Date, slots[7].Time)
	}
}

func TestAvailableSlotsWeekendOnlyWindow(t *testing.T) {
	// Friday with a one-day window reaches only Saturday.
	now := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)
	if slots := AvailableSlots("General Physician", 1, now); len(slots) != 0 {
		t.Fatalf("expected no slots in a weekend-only window, got %d", len(slots))
	}
}

func TestAvailableSlotsDefaultDays(t *testing.T) {
	now := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC) // Monday
	if slots := AvailableSlots("Neurologist", 0, now); len(slots) != 10 {
		t.Fatalf("expected default window to produce 10 slots, got %d", len(slots))
	}
}

func TestFormatResponse(t *testing.T) {
	now := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)
	slots := AvailableSlots("Cardiologist", 7, now)

	got := FormatResponse("Cardiologist", slots)

	if !strings.Contains(got, "Appointment Booking - Cardiologist") {
		t.Fatalf("response missing header: %q", got)
	}
	if !strings.Contains(got, "1. Monday, 2026-08-24 at 09:00") {
		t.Fatalf("response missing first slot line: %q", got)
	}
	if strings.Contains(got, "6.") {
		t.Fatalf("response should list at most 5 slots: %q", got)
	}
	if !strings.Contains(got, "insurance") {
		t.Fatalf("response missing confirmation instructions: %q", got)
	}
}
