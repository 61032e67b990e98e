package triage

import (
	"regexp"
	"strings"
)

// Package triage labels text with a coarse urgency level by scanning
// fixed phrase lists. It is a pure function of its input so callers can
// apply it to user messages and generated replies alike.

// Level is an urgency label over a fixed ordered set.
type Level string

const (
	SeverityLow    Level = "low"
	SeverityMedium Level = "medium"
	SeverityHigh   Level = "high"
)

// Assessment is the result of classifying one piece of text.
type Assessment struct {
	Emergency bool  `json:"emergency"`
	Severity  Level `json:"severity"`
}

// emergencyPhrases short-circuit the whole pipeline when present in a
// user message.
var emergencyPhrases = []string{
	"chest pain", "can't breathe", "can not breathe", "cannot breathe",
	"severe bleeding", "unconscious", "suicide", "overdose",
	"heart attack", "stroke", "severe headache", "confused",
	"loss of consciousness", "severe abdominal pain",
}

// urgentCues mark a generated reply as high severity without raising the
// emergency flag.
var urgentCues = []string{"emergency", "immediately", "urgent", "call 911"}

// erPattern matches the bare "ER" mention; plain substring search would
// hit words like "fever".
var erPattern = regexp.MustCompile(`\ber\b`)

// referralCues mark a reply as medium severity.
var referralCues = []string{"see a doctor", "medical attention", "consult"}

// Classify scans text against the phrase lists in priority order:
// emergency beats high beats medium beats low. First match wins.
func Classify(text string) Assessment {
	lower := strings.ToLower(text)

	for _, p := range emergencyPhrases {
		if strings.Contains(lower, p) {
			return Assessment{Emergency: true, Severity: SeverityHigh}
		}
	}
	for _, p := range urgentCues {
		if strings.Contains(lower, p) {
			return Assessment{Severity: SeverityHigh}
		}
	}
	if erPattern.MatchString(lower) {
		return Assessment{Severity: SeverityHigh}
	}
	for _, p := range referralCues {
		if strings.Contains(lower, p) {
			return Assessment{Severity: SeverityMedium}
		}
	}
	return Assessment{Severity: SeverityLow}
}

// IsEmergency reports whether text trips an emergency phrase.
func IsEmergency(text string) bool {
	return Classify(text).Emergency
}
