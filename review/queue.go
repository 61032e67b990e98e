package review

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/healthdesk/medassist/common/logger"
	"github.com/healthdesk/medassist/metrics"
	"github.com/healthdesk/medassist/schema"
)

// Package review holds AI-generated explanations that need a human
// verdict. Doctor escalation is data, not a workflow engine: the queue
// records submissions and verdicts, nothing more.

// Review statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ErrReviewNotFound is returned for report ids the queue has never seen.
var ErrReviewNotFound = errors.New("review not found")

// Item is one explanation awaiting or holding a doctor's verdict.
type Item struct {
	ReportID    string                   `json:"report_id"`
	Output      schema.ExplanationOutput `json:"output"`
	Status      string                   `json:"status"`
	Notes       string                   `json:"notes,omitempty"`
	SubmittedAt time.Time                `json:"submitted_at"`
	ReviewedAt  *time.Time               `json:"reviewed_at,omitempty"`
}

// Queue is the review store shared by the report pipeline and the HTTP
// review endpoints.
type Queue interface {
	// Submit records an explanation for review with status pending.
	Submit(ctx context.Context, reportID string, out schema.ExplanationOutput) error
	// Verify records a doctor's verdict on the oldest submission for
	// reportID, stamping the review time and copying notes into the
	// output's doctor notes. Returns ErrReviewNotFound for unknown ids.
	Verify(ctx context.Context, reportID string, approved bool, notes string) (*Item, error)
	// Pending returns submissions still waiting for a verdict, oldest first.
	Pending(ctx context.Context) ([]Item, error)
	// Get returns the oldest submission for reportID in any status.
	Get(ctx context.Context, reportID string) (*Item, error)
}

// MemoryQueue keeps reviews in process memory in submission order.
type MemoryQueue struct {
	mu    sync.RWMutex
	items []*Item
}

// NewMemoryQueue returns an empty queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Submit(ctx context.Context, reportID string, out schema.ExplanationOutput) error {
	q.mu.Lock()
	q.items = append(q.items, &Item{
		ReportID:    reportID,
		Output:      out,
		Status:      StatusPending,
		SubmittedAt: time.Now(),
	})
	q.mu.Unlock()

	reason := "low confidence"
	for _, f := range out.Findings {
		if f.Severity == schema.SeverityCritical {
			reason = "critical findings"
			break
		}
	}
	logger.Infof("doctor review required: report=%s reason=%s confidence=%.2f findings=%d",
		reportID, reason, out.ConfidenceScore, len(out.Findings))
	metrics.IncReviewSubmitted()
	return nil
}

func (q *MemoryQueue) Verify(ctx context.Context, reportID string, approved bool, notes string) (*Item, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, item := range q.items {
		if item.ReportID != reportID {
			continue
		}
		if approved {
			item.Status = StatusApproved
		} else {
			item.Status = StatusRejected
		}
		item.Notes = notes
		item.Output.DoctorNotes = notes
		now := time.Now()
		item.ReviewedAt = &now

		logger.Infof("report %s %s by doctor", reportID, item.Status)
		copied := *item
		return &copied, nil
	}
	return nil, ErrReviewNotFound
}

func (q *MemoryQueue) Pending(ctx context.Context) ([]Item, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]Item, 0, len(q.items))
	for _, item := range q.items {
		if item.Status == StatusPending {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (q *MemoryQueue) Get(ctx context.Context, reportID string) (*Item, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	for _, item := range q.items {
		if item.ReportID == reportID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, ErrReviewNotFound
}
