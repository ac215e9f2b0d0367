package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jpalmerr/outreach/internal/digest"
	"github.com/jpalmerr/outreach/internal/store"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSender records every message it is asked to send.
type fakeSender struct {
	name string
	err  error
	// block, when non-nil, holds Send until closed or ctx is done
	block chan struct{}

	mu   sync.Mutex
	msgs []Message
	sent chan Message
}

func newFakeSender(name string) *fakeSender {
	return &fakeSender{name: name, sent: make(chan Message, 200)}
}

func (f *fakeSender) Name() string { return f.name }

func (f *fakeSender) Send(ctx context.Context, msg Message) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	f.msgs = append(f.msgs, msg)
	f.mu.Unlock()

	f.sent <- msg
	return f.err
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func waitForMessage(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for message")
		return Message{}
	}
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	sender := newFakeSender("fake")
	d := NewDispatcher(testLogger(), time.Second, sender)
	d.Start(context.Background())
	defer d.Stop()

	d.Notify(store.Event{Kind: store.EventAdded, Name: "Lincoln High", Status: store.StatusNotContacted})

	msg := waitForMessage(t, sender.sent)
	if msg.Subject != "School added" {
		t.Errorf("Subject = %q, want %q", msg.Subject, "School added")
	}
	if msg.Text != "Lincoln High has been added to your tracking list." {
		t.Errorf("Text = %q", msg.Text)
	}
}

func TestDispatcher_DeliversDigest(t *testing.T) {
	sender := newFakeSender("fake")
	d := NewDispatcher(testLogger(), time.Second, sender)
	d.Start(context.Background())
	defer d.Stop()

	d.Report(digest.Summary{Counts: store.Counts{Total: 2, Called: 2}})

	msg := waitForMessage(t, sender.sent)
	if msg.Subject != "Outreach digest" {
		t.Errorf("Subject = %q, want %q", msg.Subject, "Outreach digest")
	}
}

func TestDispatcher_PreservesOrder(t *testing.T) {
	sender := newFakeSender("fake")
	d := NewDispatcher(testLogger(), time.Second, sender)

	names := []string{"A", "B", "C", "D", "E"}
	for _, n := range names {
		d.Notify(store.Event{Kind: store.EventAdded, Name: n})
	}

	// queued before Start, delivered once the worker runs
	d.Start(context.Background())
	defer d.Stop()

	for _, n := range names {
		msg := waitForMessage(t, sender.sent)
		want := n + " has been added to your tracking list."
		if msg.Text != want {
			t.Errorf("Text = %q, want %q", msg.Text, want)
		}
	}
}

func TestDispatcher_FailingSenderDoesNotStopOthers(t *testing.T) {
	failing := newFakeSender("failing")
	failing.err = errors.New("sink down")
	healthy := newFakeSender("healthy")

	d := NewDispatcher(testLogger(), time.Second, failing, healthy)
	d.Start(context.Background())
	defer d.Stop()

	d.Notify(store.Event{Kind: store.EventStatusChanged, Name: "Lincoln High", Status: store.StatusCalled})

	waitForMessage(t, failing.sent)
	msg := waitForMessage(t, healthy.sent)
	if msg.Text != "Lincoln High status updated to called." {
		t.Errorf("Text = %q", msg.Text)
	}
}

func TestDispatcher_SendTimeout(t *testing.T) {
	slow := newFakeSender("slow")
	slow.block = make(chan struct{}) // never closed
	fast := newFakeSender("fast")

	d := NewDispatcher(testLogger(), 50*time.Millisecond, slow, fast)
	d.Start(context.Background())
	defer d.Stop()

	d.Notify(store.Event{Kind: store.EventAdded, Name: "Lincoln High"})

	// the slow sender times out, then the fast one still gets the message
	waitForMessage(t, fast.sent)
	if slow.count() != 0 {
		t.Errorf("slow sender recorded %d messages, want 0", slow.count())
	}
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	sender := newFakeSender("fake")
	d := NewDispatcher(testLogger(), time.Second, sender)

	// not started: nothing drains the queue
	for i := 0; i < queueSize+50; i++ {
		d.Notify(store.Event{Kind: store.EventAdded, Name: "X"})
	}

	if got := len(d.queue); got != queueSize {
		t.Errorf("queue length = %d, want %d", got, queueSize)
	}
}

func TestDispatcher_NoSendersIsNoop(t *testing.T) {
	d := NewDispatcher(testLogger(), 0)
	d.Notify(store.Event{Kind: store.EventAdded, Name: "X"})

	if got := len(d.queue); got != 0 {
		t.Errorf("queue length = %d, want 0", got)
	}
	if d.timeout != DefaultSendTimeout {
		t.Errorf("timeout = %v, want %v", d.timeout, DefaultSendTimeout)
	}
}

func TestDispatcher_StopBeforeStart(t *testing.T) {
	d := NewDispatcher(testLogger(), time.Second, newFakeSender("fake"))

	// this must not panic or block
	d.Stop()

	d.Start(context.Background())
	if d.started {
		t.Error("Start() after Stop() should be a no-op")
	}
}

func TestDispatcher_StopTwice(t *testing.T) {
	d := NewDispatcher(testLogger(), time.Second, newFakeSender("fake"))
	d.Start(context.Background())

	// both calls must complete without panic or deadlock
	d.Stop()
	d.Stop()
}

func TestDispatcher_ContextCancelStopsWorker(t *testing.T) {
	d := NewDispatcher(testLogger(), time.Second, newFakeSender("fake"))

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after context cancel")
	}
}

func TestDispatcher_AsStoreNotifier(t *testing.T) {
	sender := newFakeSender("fake")
	d := NewDispatcher(testLogger(), time.Second, sender)
	d.Start(context.Background())
	defer d.Stop()

	m := store.NewMemoryStore(store.WithNotifier(d))
	school, _ := m.Add(store.Draft{Name: "Lincoln High"})
	m.UpdateStatus(school.ID, store.StatusResponded)

	first := waitForMessage(t, sender.sent)
	second := waitForMessage(t, sender.sent)

	if first.Subject != "School added" {
		t.Errorf("first Subject = %q, want %q", first.Subject, "School added")
	}
	if second.Text != "Lincoln High status updated to responded." {
		t.Errorf("second Text = %q", second.Text)
	}
}

// timedSender declares its own send timeout.
type timedSender struct {
	*fakeSender
	d time.Duration
}

func (s timedSender) Timeout() time.Duration { return s.d }

func TestDispatcher_TimeoutFor(t *testing.T) {
	d := NewDispatcher(testLogger(), time.Second)

	tests := []struct {
		name   string
		sender Sender
		want   time.Duration
	}{
		{"plain sender", newFakeSender("a"), time.Second},
		{"own timeout", timedSender{newFakeSender("b"), 3 * time.Second}, 3 * time.Second},
		{"zero own timeout", timedSender{newFakeSender("c"), 0}, time.Second},
		{"webhook default", NewWebhookSender("http://example.com", 0, nil), time.Second},
		{"webhook custom", NewWebhookSender("http://example.com", 2*time.Second, nil), 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.timeoutFor(tt.sender); got != tt.want {
				t.Errorf("timeoutFor() = %v, want %v", got, tt.want)
			}
		})
	}
}
