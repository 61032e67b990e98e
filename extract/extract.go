package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/healthdesk/medassist/schema"
)

// Package extract pattern-matches lightweight patient details out of free
// text. A textual mention is treated as ground truth from that point
// forward; there is no negation handling.

var agePattern = regexp.MustCompile(`\b(\d{1,3})\s*(?:years?|yrs?|yo)\b`)

var conditionVocab = []string{
	"diabetes", "hypertension", "asthma", "heart disease", "kidney disease",
	"liver disease", "cancer", "copd", "arthritis", "depression", "anxiety",
}

var medicationCues = []string{"taking", "medication", "medicine"}

var medicationVocab = []string{
	"aspirin", "metformin", "insulin", "lisinopril", "atorvastatin",
	"amlodipine", "omeprazole", "levothyroxine", "albuterol",
}

var symptomVocab = []string{
	"pain", "ache", "fever", "cough", "nausea", "vomit", "dizzy",
	"headache", "fatigue", "weakness", "bleeding", "rash", "swelling",
	"breathing", "chest", "stomach", "throat", "sore", "hurt",
}

// Patient scans text for an age, known conditions and known medications.
// Medications are only considered when the text signals the patient is
// on them (taking/medication/medicine). The result is deterministic and
// idempotent for a given input.
func Patient(text string) schema.PatientContext {
	lower := strings.ToLower(text)
	var out schema.PatientContext

	if m := agePattern.FindStringSubmatch(lower); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil {
			out.Age = age
		}
	}

	for _, cond := range conditionVocab {
		if strings.Contains(lower, cond) {
			out.Conditions = append(out.Conditions, cond)
		}
	}

	if containsAny(lower, medicationCues) {
		for _, med := range medicationVocab {
			if strings.Contains(lower, med) {
				out.Medications = append(out.Medications, med)
			}
		}
	}

	return out
}

// Symptoms returns the symptom keywords mentioned in text, in vocabulary
// order, without duplicates.
func Symptoms(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, s := range symptomVocab {
		if strings.Contains(lower, s) {
			out = append(out, s)
		}
	}
	return out
}

// MergeContext folds src into dst without ever dropping accumulated
// details: condition and medication sets grow monotonically, a non-zero
// age replaces the previous one, and literacy/language are only filled
// when newly provided. Returns true when dst changed.
func MergeContext(dst *schema.PatientContext, src schema.PatientContext) bool {
	changed := false

	if src.Age != 0 && src.Age != dst.Age {
		dst.Age = src.Age
		changed = true
	}
	for _, c := range src.Conditions {
		if !containsString(dst.Conditions, c) {
			dst.Conditions = append(dst.Conditions, c)
			changed = true
		}
	}
	for _, m := range src.Medications {
		if !containsString(dst.Medications, m) {
			dst.Medications = append(dst.Medications, m)
			changed = true
		}
	}
	if src.MedicalLiteracy != "" && src.MedicalLiteracy != dst.MedicalLiteracy {
		dst.MedicalLiteracy = src.MedicalLiteracy
		changed = true
	}
	if src.LanguagePreference != "" && src.LanguagePreference != dst.LanguagePreference {
		dst.LanguagePreference = src.LanguagePreference
		changed = true
	}

	return changed
}

// MergeSymptoms appends newly seen symptoms to the accumulated list.
func MergeSymptoms(have []string, seen []string) []string {
	for _, s := range seen {
		if !containsString(have, s) {
			have = append(have, s)
		}
	}
	return have
}

func containsAny(text string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
