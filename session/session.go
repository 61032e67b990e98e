package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/healthdesk/medassist/config"
	"github.com/healthdesk/medassist/schema"
)

// Package session stores per-conversation state: the ordered turns, the
// patient context accumulated across them and the symptoms tracked for
// appointment suggestions. Stores keep the full history; trimming to the
// model's context window happens at prompt-composition time.

// ErrSessionNotFound is returned when a session id is unknown to the store.
var ErrSessionNotFound = errors.New("session not found")

// Turn is a single utterance in a conversation.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one conversation's accumulated state.
type Session struct {
	ID        string                `json:"session_id"`
	Turns     []Turn                `json:"turns,omitempty"`
	Context   schema.PatientContext `json:"patient_context"`
	Symptoms  []string              `json:"symptoms,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Clone returns a deep copy so callers can read it without holding store
// locks.
func (s *Session) Clone() *Session {
	out := *s
	if s.Turns != nil {
		out.Turns = append([]Turn(nil), s.Turns...)
	}
	out.Context = s.Context.Clone()
	if s.Symptoms != nil {
		out.Symptoms = append([]string(nil), s.Symptoms...)
	}
	return &out
}

// Store persists sessions. Every method is safe for concurrent use and
// atomic on its own; sequences of calls on the same session are not
// transactional.
type Store interface {
	// GetOrCreate returns the session for id, creating it first when the
	// id is unknown. An empty id mints a fresh identifier.
	GetOrCreate(ctx context.Context, id string) (*Session, error)
	// Get returns the session for id or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*Session, error)
	// AppendTurn records one utterance at the end of the history.
	AppendTurn(ctx context.Context, id, role, content string) error
	// MergeContext folds newly extracted patient details into the session.
	// Accumulated details are never dropped.
	MergeContext(ctx context.Context, id string, partial schema.PatientContext) error
	// AddSymptoms records newly mentioned symptoms, keeping the list
	// deduplicated in first-seen order.
	AddSymptoms(ctx context.Context, id string, symptoms []string) error
	// Delete removes a session. Unknown ids are a no-op.
	Delete(ctx context.Context, id string) error
	// List returns all stored session ids.
	List(ctx context.Context) ([]string, error)
	// Reset drops every session.
	Reset(ctx context.Context) error
}

// NewStore builds the configured session backend.
func NewStore(cfg config.SessionConfig) (Store, error) {
	switch cfg.Backend {
	case config.SessionRedis:
		return NewRedisStore(cfg)
	case config.SessionMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend: %s", cfg.Backend)
	}
}
