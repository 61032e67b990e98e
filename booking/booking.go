package booking

import (
	"fmt"
	"strings"
	"time"
)

// Package booking generates deterministic synthetic appointment slots and
// detects booking intent in chat messages. It is not a real scheduling
// system; confirmed appointments are out of scope.

// Specialties is the fixed specialty enum offered by the booking surface.
var Specialties = []string{
	"General Physician",
	"Cardiologist",
	"Endocrinologist",
	"Neurologist",
	"Dermatologist",
	"Orthopedic",
	"Gastroenterologist",
	"Pulmonologist",
}

// DefaultSpecialty is suggested when nothing in the patient's context
// points at a specialist.
const DefaultSpecialty = "General Physician"

var intentKeywords = []string{
	"book appointment", "schedule appointment", "see a doctor",
	"need appointment", "want to consult", "visit doctor",
	"book doctor", "appointment", "consultation",
}

// specialtyRule maps a condition or symptom keyword to a specialty.
// Rules are checked in order so matching stays deterministic.
type specialtyRule struct {
	keyword   string
	specialty string
}

var specialtyRules = []specialtyRule{
	{"diabetes", "Endocrinologist"},
	{"hypertension", "Cardiologist"},
	{"heart", "Cardiologist"},
	{"asthma", "Pulmonologist"},
	{"breathing", "Pulmonologist"},
	{"skin", "Dermatologist"},
	{"joint", "Orthopedic"},
	{"stomach", "Gastroenterologist"},
	{"headache", "Neurologist"},
}

// Slot is one synthetic appointment opening.
type Slot struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Specialty string `json:"specialty"`
	Available bool   `json:"available"`
}

const (
	maxSlots    = 10
	defaultDays = 7
)

// slotHours are the bookable hours on a weekday.
var slotHours = []int{9, 10, 11, 14, 15, 16, 17}

// DetectIntent reports whether the message asks for an appointment.
func DetectIntent(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range intentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// SuggestSpecialty picks a specialty from the patient's conditions and
// tracked symptoms. Conditions take precedence; a condition must name the
// keyword exactly while symptoms match on substring.
func SuggestSpecialty(symptoms, conditions []string) string {
	for _, cond := range conditions {
		lower := strings.ToLower(cond)
		for _, rule := range specialtyRules {
			if lower == rule.keyword {
				return rule.specialty
			}
		}
	}
	for _, rule := range specialtyRules {
		for _, sym := range symptoms {
			if strings.Contains(strings.ToLower(sym), rule.keyword) {
				return rule.specialty
			}
		}
	}
	return DefaultSpecialty
}

// AvailableSlots generates up to maxSlots synthetic weekday slots starting
// the day after now, scanning daysAhead calendar days. The caller injects
// now so the output is reproducible.
func AvailableSlots(specialty string, daysAhead int, now time.Time) []Slot {
	if daysAhead <= 0 {
		daysAhead = defaultDays
	}

	var slots []Slot
	start := now.AddDate(0, 0, 1)
	for day := 0; day < daysAhead; day++ {
		date := start.AddDate(0, 0, day)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for _, hour := range slotHours {
			slots = append(slots, Slot{
				Date:      date.Format("2006-01-02"),
				Time:      fmt.Sprintf("%02d:00", hour),
				Specialty: specialty,
				Available: true,
			})
			if len(slots) == maxSlots {
				return slots
			}
		}
	}
	return slots
}

// FormatResponse renders the chat reply for a booking request: the first
// slots plus how to confirm. The front end renders it as markdown.
func FormatResponse(specialty string, slots []Slot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 **Appointment Booking - %s**\n\n", specialty)
	b.WriteString("Available slots:\n\n")

	shown := slots
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for i, slot := range shown {
		if date, err := time.Parse("2006-01-02", slot.Date); err == nil {
			fmt.Fprintf(&b, "%d. %s, %s at %s\n", i+1, date.Weekday(), slot.Date, slot.Time)
		} else {
			fmt.Fprintf(&b, "%d. %s at %s\n", i+1, slot.Date, slot.Time)
		}
	}

	b.WriteString("\n📞 **To confirm your appointment:**\n")
	b.WriteString("1. Call your clinic's booking desk\n")
	b.WriteString("2. Reply with the slot number you prefer\n\n")
	b.WriteString("💡 Please have your insurance information ready.")
	return b.String()
}
