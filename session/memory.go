package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthdesk/medassist/extract"
	"github.com/healthdesk/medassist/schema"
)

// MemoryStore keeps sessions in a process-local map. Sessions survive
// until deleted or the process exits; there is no TTL and, unless
// MaxTurns is set, no capacity bound.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// MaxTurns bounds the stored history per session when positive;
	// the oldest turns are dropped first. Zero keeps everything.
	MaxTurns int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		id = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[id]; ok {
		return sess.Clone(), nil
	}
	now := time.Now()
	sess := &Session{ID: id, CreatedAt: now, UpdatedAt: now}
	m.sessions[id] = sess
	return sess.Clone(), nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess.Clone(), nil
}

func (m *MemoryStore) AppendTurn(ctx context.Context, id, role, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Turns = append(sess.Turns, Turn{Role: role, Content: content, Timestamp: time.Now()})
	if m.MaxTurns > 0 && len(sess.Turns) > m.MaxTurns {
		sess.Turns = sess.Turns[len(sess.Turns)-m.MaxTurns:]
	}
	sess.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) MergeContext(ctx context.Context, id string, partial schema.PatientContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if extract.MergeContext(&sess.Context, partial) {
		sess.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MemoryStore) AddSymptoms(ctx context.Context, id string, symptoms []string) error {
	if len(symptoms) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	merged := extract.MergeSymptoms(sess.Symptoms, symptoms)
	if len(merged) != len(sess.Symptoms) {
		sess.UpdatedAt = time.Now()
	}
	sess.Symptoms = merged
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = make(map[string]*Session)
	return nil
}
