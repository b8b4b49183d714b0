// Package audit captures enrollment lifecycle events. Events are emitted
// best-effort from the coordinator: a full buffer or a failing sink never
// blocks or fails the request that produced the event.
package audit

import (
	"context"
	"log/slog"
	"time"
)

const (
	EventEnrollmentCreated   = "enrollment.created"
	EventEnrollmentWithdrawn = "enrollment.withdrawn"
	EventCounterSyncFailed   = "enrollment.counter_sync_failed"
)

// Event records one enrollment lifecycle action.
type Event struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	EnrollmentID string    `json:"enrollmentId"`
	CourseID     string    `json:"courseId"`
	StudentID    string    `json:"studentId"`
	Detail       string    `json:"detail,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Store is an append-only event sink.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher decouples event emission from persistence through a buffered
// channel drained by a Worker.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{inbox: make(chan Event, buffer), logger: logger}
}

// Emit queues an event without blocking. When the buffer is full the event
// is dropped and counted against the caller in the log only.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit buffer full, event dropped",
			"type", event.Type, "enrollment_id", event.EnrollmentID)
	}
}

// Inbox exposes the event channel for the draining worker.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }

// Worker consumes events from a publisher and persists them.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox until ctx is cancelled. Append failures are logged
// and the worker keeps going.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"type", event.Type, "error", err)
			}
		}
	}
}
