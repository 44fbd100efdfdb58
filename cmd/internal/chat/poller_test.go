package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustInsert(t *testing.T, st MessageStore, from, to, body string) InsertResult {
	t.Helper()
	res, err := st.Insert(context.Background(), InsertInput{SenderID: from, RecipientID: to, Body: body})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return res
}

func recvMessage(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case m, ok := <-ch:
		if !ok {
			t.Fatalf("message channel closed early")
		}
		return m
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for poller delivery")
	}
	return Message{}
}

// flakyStore fails a fixed number of FetchSince calls, then defers to the
// wrapped store.
type flakyStore struct {
	MessageStore

	mu       sync.Mutex
	failures int
}

func (f *flakyStore) FetchSince(ctx context.Context, in FetchSinceInput) ([]Message, error) {
	f.mu.Lock()
	fail := f.failures > 0
	if fail {
		f.failures--
	}
	f.mu.Unlock()

	if fail {
		return nil, errors.New("synthetic fetch failure")
	}
	return f.MessageStore.FetchSince(ctx, in)
}

func TestPoller_DeliversNewMessagesAscending(t *testing.T) {
	defer goleak.VerifyNone(t)

	st := NewInMemoryStore()
	mustInsert(t, st, "11111111", "22222222", "one")
	mustInsert(t, st, "22222222", "11111111", "two")
	mustInsert(t, st, "11111111", "33333333", "other conversation")

	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(testLogger(), st, "11111111", "22222222", 0, 2*time.Millisecond)
	ch := p.Start(ctx)

	first := recvMessage(t, ch)
	second := recvMessage(t, ch)
	if first.ID >= second.ID {
		t.Fatalf("ids not ascending: %d then %d", first.ID, second.ID)
	}
	if first.Body != "one" || second.Body != "two" {
		t.Fatalf("unexpected bodies %q, %q", first.Body, second.Body)
	}

	// A later write is picked up on a subsequent cycle.
	mustInsert(t, st, "22222222", "11111111", "three")
	third := recvMessage(t, ch)
	if third.Body != "three" || third.ID <= second.ID {
		t.Fatalf("unexpected third delivery %+v", third)
	}

	cancel()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not stop after cancel")
	}
}

func TestPoller_SwallowsFetchFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	inner := NewInMemoryStore()
	st := &flakyStore{MessageStore: inner, failures: 3}
	mustInsert(t, inner, "11111111", "22222222", "survives outage")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPoller(testLogger(), st, "11111111", "22222222", 0, 2*time.Millisecond)
	ch := p.Start(ctx)

	// Delivery arrives despite the first cycles failing; the poller never
	// terminated in between.
	m := recvMessage(t, ch)
	if m.Body != "survives outage" {
		t.Fatalf("unexpected delivery %+v", m)
	}

	cancel()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not stop after cancel")
	}
}

func TestPoller_CancelBeforeFirstSleep(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPoller(testLogger(), NewInMemoryStore(), "11111111", "22222222", 0, time.Hour)
	ch := p.Start(ctx)

	// Cancellation is observed before the sleep, not after a full interval.
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("poller ignored pre-cancelled context")
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel with no deliveries")
	}
}
