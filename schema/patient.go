package schema

// Medical literacy levels accepted by the report pipeline.
const (
	LiteracyLow    = "low"
	LiteracyMedium = "medium"
	LiteracyHigh   = "high"
)

// PatientContext holds the lightweight patient details accumulated from
// conversation text. Zero values mean "unknown".
type PatientContext struct {
	Age                int      `json:"age,omitempty"`
	Conditions         []string `json:"conditions,omitempty"`
	Medications        []string `json:"medications,omitempty"`
	MedicalLiteracy    string   `json:"medical_literacy,omitempty"`
	LanguagePreference string   `json:"language_preference,omitempty"`
}

// IsEmpty reports whether no context has been extracted yet.
func (p PatientContext) IsEmpty() bool {
	return p.Age == 0 && len(p.Conditions) == 0 && len(p.Medications) == 0
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (p PatientContext) Clone() PatientContext {
	out := p
	if p.Conditions != nil {
		out.Conditions = append([]string(nil), p.Conditions...)
	}
	if p.Medications != nil {
		out.Medications = append([]string(nil), p.Medications...)
	}
	return out
}

// LiteracyInstruction maps a literacy level to the wording instruction
// injected into explanation prompts.
func LiteracyInstruction(level string) string {
	switch level {
	case LiteracyLow:
		return "very simple terms, avoid medical jargon"
	case LiteracyHigh:
		return "technical medical terminology is acceptable"
	default:
		return "clear language with some medical terms explained"
	}
}

// Finding severities used by the report pipeline.
const (
	SeverityCritical  = "critical"
	SeverityAttention = "attention"
	SeverityNormal    = "normal"
)

// MedicalFinding is a single measurement or observation extracted from a
// lab report.
type MedicalFinding struct {
	Category    string  `json:"category"`
	Finding     string  `json:"finding"`
	Value       string  `json:"value,omitempty"`
	NormalRange string  `json:"normal_range,omitempty"`
	Severity    string  `json:"severity"`
	Confidence  float64 `json:"confidence"`
}

// ExplanationOutput is the result of analyzing a medical report.
type ExplanationOutput struct {
	Summary                 string           `json:"summary"`
	Findings                []MedicalFinding `json:"findings"`
	PersonalizedExplanation string           `json:"personalized_explanation"`
	UncertaintyNotes        []string         `json:"uncertainty_notes,omitempty"`
	ConfidenceScore         float64          `json:"confidence_score"`
	SourcesUsed             []string         `json:"sources_used,omitempty"`
	RequiresDoctorReview    bool             `json:"requires_doctor_review"`
	DoctorNotes             string           `json:"doctor_notes,omitempty"`
}
