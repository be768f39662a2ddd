package triage

import (
	"context"
	"errors"
	"sync"
	"time"
)

var fixedNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() Clock {
	return Clock{Now: func() time.Time { return fixedNow }, Location: time.UTC}
}

type fakeOracle struct {
	decision *Decision
	err      error
	calls    int
	last     Email
}

func (f *fakeOracle) Decide(ctx context.Context, email Email) (*Decision, error) {
	f.calls++
	f.last = email
	if f.err != nil {
		return nil, f.err
	}
	return f.decision, nil
}

type blockingOracle struct{}

func (blockingOracle) Decide(ctx context.Context, _ Email) (*Decision, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fakeSender struct {
	mu     sync.Mutex
	alerts []Alert
	err    error
}

func (f *fakeSender) SendAlert(_ context.Context, a Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, a)
	return f.err
}

type memStore struct {
	mu      sync.Mutex
	entries []string
	err     error
}

func (m *memStore) Append(_ context.Context, entry string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

var errBoom = errors.New("boom")
