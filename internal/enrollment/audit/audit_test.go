package audit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestPublisherAndWorkerDeliver(t *testing.T) {
	store := NewInMemory()
	pub := NewPublisher(16, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := NewWorker(store, pub.Inbox(), discardLogger())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	pub.Emit(ctx, Event{Type: EventEnrollmentCreated, EnrollmentID: "e-1", CourseID: "c-1", StudentID: "st-1"})
	pub.Emit(ctx, Event{Type: EventCounterSyncFailed, EnrollmentID: "e-1", Detail: "catalog service unavailable"})

	require.Eventually(t, func() bool {
		return len(store.Events()) == 2
	}, time.Second, 10*time.Millisecond)

	events := store.Events()
	assert.Equal(t, EventEnrollmentCreated, events[0].Type)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, EventCounterSyncFailed, events[1].Type)

	cancel()
	<-done
}

func TestEmitDropsWhenBufferFull(t *testing.T) {
	pub := NewPublisher(1, discardLogger())
	ctx := context.Background()

	// No worker draining: the second emit must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		pub.Emit(ctx, Event{Type: EventEnrollmentCreated, EnrollmentID: "e-1"})
		pub.Emit(ctx, Event{Type: EventEnrollmentCreated, EnrollmentID: "e-2"})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a full buffer")
	}
}

type fakeSource struct {
	mu        sync.Mutex
	entries   []Entry
	published []string
}

func (f *fakeSource) FetchUnpublished(_ context.Context, limit int) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func (f *fakeSource) MarkPublished(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, id)
	for i, entry := range f.entries {
		if entry.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			break
		}
	}
	return nil
}

type fakeProducer struct {
	records [][]byte
	fail    bool
}

func (f *fakeProducer) Produce(_ context.Context, _, value []byte) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.records = append(f.records, value)
	return nil
}

func TestRelayDrainsOutbox(t *testing.T) {
	source := &fakeSource{entries: []Entry{
		{ID: "1", AggregateID: "e-1", EventType: EventEnrollmentCreated, Payload: []byte(`{"a":1}`)},
		{ID: "2", AggregateID: "e-2", EventType: EventEnrollmentWithdrawn, Payload: []byte(`{"b":2}`)},
	}}
	producer := &fakeProducer{}
	relay := NewRelay(source, producer, time.Second, discardLogger())

	require.NoError(t, relay.drainOnce(context.Background()))

	assert.Len(t, producer.records, 2)
	assert.Equal(t, []string{"1", "2"}, source.published)
	assert.Empty(t, source.entries)
}

func TestRelayKeepsEntriesOnProduceFailure(t *testing.T) {
	source := &fakeSource{entries: []Entry{
		{ID: "1", AggregateID: "e-1", EventType: EventEnrollmentCreated, Payload: []byte(`{}`)},
	}}
	producer := &fakeProducer{fail: true}
	relay := NewRelay(source, producer, time.Second, discardLogger())

	require.Error(t, relay.drainOnce(context.Background()))
	assert.Empty(t, source.published)
	assert.Len(t, source.entries, 1)
}
