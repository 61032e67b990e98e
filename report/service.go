package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healthdesk/medassist/common/logger"
	"github.com/healthdesk/medassist/config"
	"github.com/healthdesk/medassist/extract"
	"github.com/healthdesk/medassist/knowledge"
	"github.com/healthdesk/medassist/llm"
	"github.com/healthdesk/medassist/metrics"
	"github.com/healthdesk/medassist/prompt"
	"github.com/healthdesk/medassist/review"
	"github.com/healthdesk/medassist/schema"
)

// Package report analyzes lab reports and answers medical questions,
// grounding every generated statement in retrieved reference passages and
// scoring how much of the result should be trusted.

// retrieveK is how many grounding passages each request pulls.
const retrieveK = 3

// ScopeAnswer is returned for questions outside the medical domain.
const ScopeAnswer = "I can answer questions about medical reports, lab values, and findings. " +
	"Please ask a medical question (e.g., about a lab value, range, or symptom)."

// ScopeNote is the uncertainty note attached to out-of-scope answers.
const ScopeNote = "Outside medical scope"

const offlineBanner = "Offline mode: using retrieved medical knowledge only; no external LLM calls were made."

// Answer is the grounded reply to a knowledge-base question.
type Answer struct {
	Answer        string   `json:"answer"`
	Confidence    float64  `json:"confidence"`
	Sources       []string `json:"sources"`
	Uncertainties []string `json:"uncertainties"`
}

// Service runs the report-analysis and Q&A pipelines.
type Service struct {
	kb        *knowledge.Base
	provider  llm.Provider
	queue     review.Queue
	threshold float64
}

// NewService wires the pipeline. queue may be nil when no review surface
// is mounted.
func NewService(cfg config.ReportConfig, kb *knowledge.Base, provider llm.Provider, queue review.Queue) *Service {
	threshold := cfg.ReviewThreshold
	if threshold <= 0 {
		threshold = 0.7
	}
	return &Service{kb: kb, provider: provider, queue: queue, threshold: threshold}
}

// AnalyzeReport explains a lab report for the given patient. The staged
// pipeline extracts findings, retrieves grounding passages for the report
// text, generates an explanation bound to those passages, scores
// confidence from retrieval similarity and hedging, and queues the output
// for doctor review when findings are critical or confidence is low.
func (s *Service) AnalyzeReport(ctx context.Context, reportID, reportText string, patient schema.PatientContext) (out *schema.ExplanationOutput, err error) {
	trace := metrics.NewChatTrace(reportID, "report")
	defer func() { trace.Finish(err) }()

	findings := extract.Findings(reportText)

	retrieveStart := time.Now()
	results, err := s.kb.Retrieve(ctx, reportText, retrieveK)
	if err != nil {
		return nil, fmt.Errorf("retrieve grounding context: %w", err)
	}
	trace.AddRetrieverStat(retrieverStat(retrieveStart, results))

	var (
		explanation   string
		conf          float64
		uncertainties []string
	)
	if s.provider.GetProviderType() == config.ProviderOffline {
		explanation, conf, uncertainties = offlineExplanation(findings, results, patient)
	} else {
		msgs := []llm.Message{
			{Role: llm.RoleSystem, Content: prompt.ExplainSystem},
			{Role: llm.RoleUser, Content: prompt.ExplainReport(docContents(results), findings, patient)},
		}
		llmStart := time.Now()
		explanation, err = s.provider.GenerateCompletion(ctx, msgs, llm.WithTemperature(0.3))
		trace.RecordLLM(s.provider.GetProviderType(), time.Since(llmStart))
		if err != nil {
			return nil, fmt.Errorf("generate explanation: %w", err)
		}
		uncertainties = Uncertainties(explanation)
		conf = confidence(averageScore(results, 1), len(uncertainties), uncertaintyPenalty)
	}

	out = &schema.ExplanationOutput{
		Summary:                 summarize(findings),
		Findings:                findings,
		PersonalizedExplanation: explanation,
		UncertaintyNotes:        uncertainties,
		ConfidenceScore:         conf,
		SourcesUsed:             knowledge.Sources(results),
		RequiresDoctorReview:    s.needsReview(findings, conf),
	}
	trace.SourcesUsed = len(out.SourcesUsed)
	trace.Confidence = conf

	if out.RequiresDoctorReview && s.queue != nil {
		if err := s.queue.Submit(ctx, reportID, *out); err != nil {
			logger.Warnf("submit review for report %s: %v", reportID, err)
		}
	}
	metrics.IncReportAnalyzed()
	return out, nil
}

// AnswerQuestion answers a free-form question from the knowledge base.
// Questions outside the medical domain get the fixed redirect without
// touching retrieval or the model.
func (s *Service) AnswerQuestion(ctx context.Context, question string, patient schema.PatientContext) (ans *Answer, err error) {
	trace := metrics.NewChatTrace(uuid.NewString(), "question")
	defer func() { trace.Finish(err) }()

	if !IsMedicalQuestion(question) {
		return &Answer{
			Answer:        ScopeAnswer,
			Confidence:    0,
			Sources:       []string{},
			Uncertainties: []string{ScopeNote},
		}, nil
	}

	retrieveStart := time.Now()
	results, err := s.kb.Retrieve(ctx, question, retrieveK)
	if err != nil {
		return nil, fmt.Errorf("retrieve grounding context: %w", err)
	}
	trace.AddRetrieverStat(retrieverStat(retrieveStart, results))
	sources := knowledge.Sources(results)
	trace.SourcesUsed = len(sources)

	if s.provider.GetProviderType() == config.ProviderOffline {
		text, conf, uncertainties := offlineAnswer(question, results, patient)
		trace.Confidence = conf
		return &Answer{Answer: text, Confidence: conf, Sources: sources, Uncertainties: uncertainties}, nil
	}

	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: prompt.ExplainSystem},
		{Role: llm.RoleUser, Content: prompt.AnswerQuestion(docContents(results), question, patient)},
	}
	llmStart := time.Now()
	text, err := s.provider.GenerateCompletion(ctx, msgs, llm.WithTemperature(0.2))
	trace.RecordLLM(s.provider.GetProviderType(), time.Since(llmStart))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	uncertainties := Uncertainties(text)
	conf := confidence(averageScore(results, 1), len(uncertainties), uncertaintyPenalty)
	trace.Confidence = conf
	return &Answer{Answer: text, Confidence: conf, Sources: sources, Uncertainties: uncertainties}, nil
}

// retrieverStat summarizes one Retrieve call for the request trace.
func retrieverStat(start time.Time, results []schema.SearchResult) metrics.RetrieverStat {
	stat := metrics.RetrieverStat{
		Type:        "knowledge",
		LatencyMs:   time.Since(start).Milliseconds(),
		ResultCount: len(results),
	}
	if len(results) > 0 {
		stat.TopScore = results[0].Score
	}
	return stat
}

func (s *Service) needsReview(findings []schema.MedicalFinding, conf float64) bool {
	for _, f := range findings {
		if f.Severity == schema.SeverityCritical {
			return true
		}
	}
	return conf < s.threshold
}

// summarize reduces the findings to one headline by severity counts.
func summarize(findings []schema.MedicalFinding) string {
	var critical, attention int
	for _, f := range findings {
		switch f.Severity {
		case schema.SeverityCritical:
			critical++
		case schema.SeverityAttention:
			attention++
		}
	}
	if critical > 0 {
		return fmt.Sprintf("CRITICAL: %d findings require immediate attention", critical)
	}
	if attention > 0 {
		return fmt.Sprintf("%d findings need attention, rest normal", attention)
	}
	return "All findings within normal ranges"
}

// offlineExplanation renders findings against the retrieved passages with
// no model call: each finding either cites its best-matching passage or
// is marked unclear.
func offlineExplanation(findings []schema.MedicalFinding, results []schema.SearchResult, patient schema.PatientContext) (string, float64, []string) {
	lines := []string{
		offlineBanner,
		fmt.Sprintf("Patient context: age %d; conditions: %s.", patient.Age, conditionsOrNone(patient.Conditions)),
	}
	var uncertainties []string

	for _, f := range findings {
		valueText := "Value observed"
		if f.Value != "" && f.NormalRange != "" {
			valueText = fmt.Sprintf("Value %s (normal %s)", f.Value, f.NormalRange)
		}
		lines = append(lines, fmt.Sprintf("%s: %s. Severity: %s.", f.Finding, valueText, f.Severity))

		if doc := bestContextDoc(f.Finding, results); doc != "" {
			lines = append(lines, "Related knowledge: "+doc)
		} else {
			lines = append(lines, prompt.UncertaintyPhrase)
			uncertainties = append(uncertainties, prompt.UncertaintyPhrase)
		}
	}

	conf := confidence(averageScore(results, 0), len(uncertainties), offlineUncertaintyPenalty) * offlineDamping
	return strings.Join(lines, "\n"), conf, uncertainties
}

// offlineAnswer lists the retrieved passages verbatim with no model call.
func offlineAnswer(question string, results []schema.SearchResult, patient schema.PatientContext) (string, float64, []string) {
	lines := []string{
		offlineBanner,
		"Question: " + question,
		fmt.Sprintf("Patient context: age %d; conditions: %s.", patient.Age, conditionsOrNone(patient.Conditions)),
	}
	var uncertainties []string

	if len(results) > 0 {
		lines = append(lines, "Relevant knowledge:")
		for _, r := range results {
			lines = append(lines, "- "+r.Document.Content)
		}
	} else {
		lines = append(lines, prompt.UncertaintyPhrase)
		uncertainties = append(uncertainties, prompt.UncertaintyPhrase)
	}

	conf := confidence(averageScore(results, 0), len(uncertainties), offlineUncertaintyPenalty) * offlineDamping
	return strings.Join(lines, "\n"), conf, uncertainties
}

// bestContextDoc picks the retrieved passage sharing the most tokens with
// the finding text; empty when nothing overlaps.
func bestContextDoc(finding string, results []schema.SearchResult) string {
	fTerms := tokenSet(finding)
	if len(fTerms) == 0 {
		return ""
	}

	var (
		best        string
		bestOverlap int
	)
	for _, r := range results {
		dTerms := tokenSet(r.Document.Content)
		overlap := 0
		for tok := range fTerms {
			if _, ok := dTerms[tok]; ok {
				overlap++
			}
		}
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = r.Document.Content
		}
	}
	return best
}

func tokenSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		set[tok] = struct{}{}
	}
	return set
}

func docContents(results []schema.SearchResult) []string {
	docs := make([]string, 0, len(results))
	for _, r := range results {
		docs = append(docs, r.Document.Content)
	}
	return docs
}

func conditionsOrNone(conditions []string) string {
	if len(conditions) == 0 {
		return "None"
	}
	return strings.Join(conditions, ", ")
}
