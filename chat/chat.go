package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthdesk/medassist/booking"
	"github.com/healthdesk/medassist/extract"
	"github.com/healthdesk/medassist/llm"
	"github.com/healthdesk/medassist/metrics"
	"github.com/healthdesk/medassist/prompt"
	"github.com/healthdesk/medassist/schema"
	"github.com/healthdesk/medassist/session"
	"github.com/healthdesk/medassist/triage"
)

// Package chat runs the conversational loop: accumulate patient context,
// short-circuit emergencies and booking requests, and send everything else
// to the completion backend with the session history attached.

// EmergencyAlert is the canned response for messages that trip the
// emergency classifier. It is returned without calling the model.
const EmergencyAlert = `🚨 **EMERGENCY ALERT**

This sounds like a medical emergency. Please:

1. **Call emergency services immediately** (911 in US, 112 in EU, or your local emergency number)
2. **Go to the nearest emergency room**, or
3. **Call your doctor immediately**

Do not wait. Seek help now.`

// ErrEmptyMessage is returned when the user message is blank.
var ErrEmptyMessage = errors.New("no message provided")

// Reply is the outcome of one chat turn.
type Reply struct {
	SessionID      string                `json:"session_id"`
	Response       string                `json:"response"`
	IsEmergency    bool                  `json:"is_emergency"`
	Severity       string                `json:"severity"`
	PatientContext schema.PatientContext `json:"patient_context"`
	Symptoms       []string              `json:"symptoms,omitempty"`
	ShowBooking    bool                  `json:"show_booking"`
}

// Service drives chat turns against a session store and a completion
// provider.
type Service struct {
	store    session.Store
	provider llm.Provider

	now func() time.Time
}

// NewService wires the chat loop.
func NewService(store session.Store, provider llm.Provider) *Service {
	return &Service{store: store, provider: provider, now: time.Now}
}

// Chat processes one user message in the given session. An empty session
// id starts a new conversation. Patient details mentioned in the message
// are folded into the session before any routing decision, so the
// emergency and booking branches see the same accumulated context as the
// model branch.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (reply *Reply, err error) {
	trace := metrics.NewChatTrace(uuid.NewString(), "chat")
	defer func() { trace.Finish(err) }()

	if message == "" {
		return nil, ErrEmptyMessage
	}

	sess, err := s.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	trace.SessionID = sess.ID

	partial := extract.Patient(message)
	symptoms := extract.Symptoms(message)
	trace.ExtractedConditions = len(partial.Conditions)
	trace.ExtractedMedications = len(partial.Medications)
	trace.ExtractedSymptoms = len(symptoms)

	changed := false
	if !partial.IsEmpty() {
		if err := s.store.MergeContext(ctx, sess.ID, partial); err != nil {
			return nil, fmt.Errorf("merge context: %w", err)
		}
		changed = true
	}
	if len(symptoms) > 0 {
		if err := s.store.AddSymptoms(ctx, sess.ID, symptoms); err != nil {
			return nil, fmt.Errorf("add symptoms: %w", err)
		}
		changed = true
	}
	if changed {
		if sess, err = s.store.Get(ctx, sess.ID); err != nil {
			return nil, fmt.Errorf("reload session: %w", err)
		}
	}

	if assessment := triage.Classify(message); assessment.Emergency {
		trace.RecordRoute("emergency")
		trace.Emergency = true
		trace.Severity = string(triage.SeverityHigh)
		if err := s.recordExchange(ctx, sess.ID, message, EmergencyAlert); err != nil {
			return nil, err
		}
		metrics.IncEmergency()
		metrics.IncChat("emergency")
		metrics.IncSeverity(string(triage.SeverityHigh))
		return &Reply{
			SessionID:      sess.ID,
			Response:       EmergencyAlert,
			IsEmergency:    true,
			Severity:       string(triage.SeverityHigh),
			PatientContext: sess.Context,
			Symptoms:       sess.Symptoms,
		}, nil
	}

	if booking.DetectIntent(message) {
		trace.RecordRoute("booking")
		trace.Severity = string(triage.SeverityLow)
		specialty := booking.SuggestSpecialty(sess.Symptoms, sess.Context.Conditions)
		slots := booking.AvailableSlots(specialty, 7, s.now())
		response := booking.FormatResponse(specialty, slots)
		if err := s.recordExchange(ctx, sess.ID, message, response); err != nil {
			return nil, err
		}
		metrics.IncChat("booking")
		metrics.IncSeverity(string(triage.SeverityLow))
		return &Reply{
			SessionID:      sess.ID,
			Response:       response,
			Severity:       string(triage.SeverityLow),
			PatientContext: sess.Context,
			Symptoms:       sess.Symptoms,
			ShowBooking:    true,
		}, nil
	}

	trace.RecordRoute("llm")
	enhanced := prompt.EnhanceUserMessage(sess.Context, message)
	if err := s.store.AppendTurn(ctx, sess.ID, llm.RoleUser, enhanced); err != nil {
		return nil, fmt.Errorf("record user turn: %w", err)
	}
	sess, err = s.store.Get(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("reload session: %w", err)
	}

	history := make([]llm.Message, 0, len(sess.Turns))
	for _, turn := range sess.Turns {
		history = append(history, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	llmStart := time.Now()
	response, err := s.provider.GenerateCompletion(ctx, prompt.Compose(history))
	trace.RecordLLM(s.provider.GetProviderType(), time.Since(llmStart))
	if err != nil {
		metrics.IncChat("error")
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	assessment := triage.Classify(response)
	severity := assessment.Severity
	if assessment.Emergency {
		severity = triage.SeverityHigh
	}
	trace.Emergency = assessment.Emergency
	trace.Severity = string(severity)

	if err := s.store.AppendTurn(ctx, sess.ID, llm.RoleAssistant, response); err != nil {
		return nil, fmt.Errorf("record assistant turn: %w", err)
	}
	metrics.IncChat("ok")
	metrics.IncSeverity(string(severity))

	return &Reply{
		SessionID:      sess.ID,
		Response:       response,
		IsEmergency:    assessment.Emergency,
		Severity:       string(severity),
		PatientContext: sess.Context,
		Symptoms:       sess.Symptoms,
	}, nil
}

// recordExchange stores a user turn and the canned response produced for
// it. Short-circuit branches keep the transcript complete even though no
// model call happens.
func (s *Service) recordExchange(ctx context.Context, sessionID, userMsg, response string) error {
	if err := s.store.AppendTurn(ctx, sessionID, llm.RoleUser, userMsg); err != nil {
		return fmt.Errorf("record user turn: %w", err)
	}
	if err := s.store.AppendTurn(ctx, sessionID, llm.RoleAssistant, response); err != nil {
		return fmt.Errorf("record assistant turn: %w", err)
	}
	return nil
}

// Reset drops every stored conversation.
func (s *Service) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}
