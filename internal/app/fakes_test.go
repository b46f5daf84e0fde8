package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// stubUploader returns a scripted outcome per document ID (success by default).
type stubUploader struct {
	mu       sync.Mutex
	outcomes map[string]domain.Outcome
	calls    []string
	onSubmit func(doc domain.DocumentRef)
}

func (s *stubUploader) Submit(ctx context.Context, doc domain.DocumentRef) domain.Outcome {
	s.mu.Lock()
	s.calls = append(s.calls, doc.ID)
	out, ok := s.outcomes[doc.ID]
	s.mu.Unlock()

	if s.onSubmit != nil {
		s.onSubmit(doc)
	}
	if !ok {
		return domain.Success()
	}
	return out
}

func (s *stubUploader) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.calls...)
}

// memLedger is an in-memory ports.FailureLedger.
type memLedger struct {
	entries   []domain.LedgerEntry
	resets    int
	resetErr  error
	recordErr error
}

func (l *memLedger) Reset(ctx context.Context) error {
	if l.resetErr != nil {
		return l.resetErr
	}
	l.resets++
	l.entries = nil
	return nil
}

func (l *memLedger) Record(ctx context.Context, id, errMsg string) error {
	if l.recordErr != nil {
		return l.recordErr
	}
	l.entries = append(l.entries, domain.LedgerEntry{Filename: id, Error: errMsg})
	return nil
}

func (l *memLedger) LoadAll(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(l.entries))
	for _, e := range domain.DedupEntries(l.entries) {
		ids = append(ids, e.Filename)
	}
	return ids, nil
}

// sliceSource is a ports.DocumentSource over a fixed list of IDs.
type sliceSource []domain.DocumentRef

func newSliceSource(ids ...string) sliceSource {
	s := make(sliceSource, 0, len(ids))
	for _, id := range ids {
		s = append(s, domain.DocumentRef{ID: id, Path: "/docs/" + id})
	}
	return s
}

func (s sliceSource) Len() int                    { return len(s) }
func (s sliceSource) Items() []domain.DocumentRef { return append([]domain.DocumentRef{}, s...) }

// ledgerSnapshot builds a source from the ledger's current contents.
func ledgerSnapshot(l *memLedger) sliceSource {
	ids, _ := l.LoadAll(context.Background())
	return newSliceSource(ids...)
}

// fakeClock advances only when Sleep is called.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration{}, c.sleeps...)
}

// noWait is a ports.RateLimiter that never blocks.
type noWait struct{ waits, dones int }

func (n *noWait) Wait(ctx context.Context) error {
	n.waits++
	return ctx.Err()
}

func (n *noWait) Done() { n.dones++ }

// recordingObserver captures every progress callback.
type recordingObserver struct {
	started  []domain.Progress
	updates  []domain.Progress
	finished []domain.Progress
}

func (o *recordingObserver) OnStart(p domain.Progress) { o.started = append(o.started, p) }
func (o *recordingObserver) OnProgress(p domain.Progress, _ domain.DocumentRef, _ domain.Outcome) {
	o.updates = append(o.updates, p)
}
func (o *recordingObserver) OnFinish(p domain.Progress) { o.finished = append(o.finished, p) }
