package metrics

import (
	"encoding/json"
	"time"

	"github.com/healthdesk/medassist/common/logger"
)

// ChatTrace records the full set of per-request measurements for one chat
// or report-analysis call. It is logged as a single JSON line at debug
// level so traffic can be replayed and timed offline.
type ChatTrace struct {
	RequestID string    `json:"request_id"`
	SessionID string    `json:"session_id,omitempty"`
	Kind      string    `json:"kind"` // "chat" | "report" | "question"
	Timestamp time.Time `json:"timestamp"`

	// Routing
	Route     string `json:"route,omitempty"` // "emergency" | "booking" | "llm"
	Emergency bool   `json:"emergency,omitempty"`
	Severity  string `json:"severity,omitempty"`

	// Extraction
	ExtractedConditions  int `json:"extracted_conditions,omitempty"`
	ExtractedMedications int `json:"extracted_medications,omitempty"`
	ExtractedSymptoms    int `json:"extracted_symptoms,omitempty"`

	// Retrieval
	RetrieverStats []RetrieverStat `json:"retriever_stats,omitempty"`
	SourcesUsed    int             `json:"sources_used,omitempty"`
	Confidence     float64         `json:"confidence,omitempty"`

	// Upstream
	Provider     string `json:"provider,omitempty"`
	LLMLatencyMs int64  `json:"llm_latency_ms,omitempty"`

	TotalLatencyMs int64  `json:"total_latency_ms"`
	Success        bool   `json:"success"`
	ErrorMsg       string `json:"error_msg,omitempty"`

	start time.Time
}

// RetrieverStat summarizes one retriever invocation inside a request.
type RetrieverStat struct {
	Type        string  `json:"type"`
	LatencyMs   int64   `json:"latency_ms"`
	ResultCount int     `json:"result_count"`
	TopScore    float64 `json:"top_score"`
}

// NewChatTrace starts a trace for the given request kind.
func NewChatTrace(requestID, kind string) *ChatTrace {
	return &ChatTrace{
		RequestID: requestID,
		Kind:      kind,
		Timestamp: time.Now(),
		start:     time.Now(),
	}
}

// AddRetrieverStat appends one retriever measurement.
func (t *ChatTrace) AddRetrieverStat(s RetrieverStat) {
	t.RetrieverStats = append(t.RetrieverStats, s)
}

// RecordRoute notes which branch handled the request.
func (t *ChatTrace) RecordRoute(route string) {
	t.Route = route
}

// RecordLLM notes the provider and upstream latency.
func (t *ChatTrace) RecordLLM(provider string, d time.Duration) {
	t.Provider = provider
	t.LLMLatencyMs = d.Milliseconds()
}

// Finish stamps the total latency and outcome and emits the trace.
func (t *ChatTrace) Finish(err error) {
	t.TotalLatencyMs = time.Since(t.start).Milliseconds()
	t.Success = err == nil
	if err != nil {
		t.ErrorMsg = err.Error()
	}
	t.Log()
}

// Log writes the trace as one JSON line.
func (t *ChatTrace) Log() {
	if data, err := json.Marshal(t); err == nil {
		logger.Debugf("[TRACE] %s", string(data))
	}
}
