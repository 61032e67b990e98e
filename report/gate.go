package report

import (
	"regexp"
	"strings"
)

// unitPattern catches lab units; a question carrying one is medical no
// matter what else it says.
var unitPattern = regexp.MustCompile(`\b(mg/dl|mmhg|miu/l|ng/ml|g/dl|cells/mcl)\b`)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

var medicalKeywords = map[string]struct{}{
	"hemoglobin": {}, "glucose": {}, "cholesterol": {}, "creatinine": {},
	"wbc": {}, "white": {}, "blood": {}, "pressure": {}, "tsh": {},
	"alt": {}, "hba1c": {}, "vitamin": {}, "lab": {}, "range": {},
	"anemia": {}, "diabetes": {}, "infection": {}, "kidney": {},
	"liver": {}, "thyroid": {}, "test": {}, "result": {}, "report": {},
	"panel": {}, "count": {}, "symptom": {}, "diagnosis": {}, "pain": {},
	"ache": {}, "stomach": {}, "nausea": {}, "vomit": {}, "fever": {},
	"cough": {}, "headache": {}, "dizzy": {}, "fatigue": {}, "sick": {},
	"hurt": {}, "sore": {}, "swelling": {}, "rash": {}, "breathing": {},
	"chest": {}, "heart": {}, "medical": {}, "health": {}, "doctor": {},
	"treatment": {}, "medication": {}, "disease": {}, "condition": {},
}

// IsMedicalQuestion is the scope gate for the Q&A endpoint: a question
// qualifies when it carries a lab unit or any token from the medical
// vocabulary.
func IsMedicalQuestion(question string) bool {
	q := strings.ToLower(question)
	if unitPattern.MatchString(q) {
		return true
	}
	for _, tok := range tokenPattern.FindAllString(q, -1) {
		if _, ok := medicalKeywords[tok]; ok {
			return true
		}
	}
	return false
}
