package digest

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jpalmerr/outreach/internal/store"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	tests := []string{
		"",
		"not a cron",
		"* * *",
		"61 * * * *",
	}

	for _, spec := range tests {
		t.Run(spec, func(t *testing.T) {
			_, err := NewScheduler(spec, store.NewMemoryStore(), testLogger())
			if err == nil {
				t.Errorf("NewScheduler(%q) expected error", spec)
			}
		})
	}
}

func TestNewScheduler_ValidSpecs(t *testing.T) {
	tests := []string{
		"0 9 * * 1-5",
		"*/15 * * * *",
		"@daily",
		"@every 1h",
	}

	for _, spec := range tests {
		t.Run(spec, func(t *testing.T) {
			if _, err := NewScheduler(spec, store.NewMemoryStore(), testLogger()); err != nil {
				t.Errorf("NewScheduler(%q) unexpected error: %v", spec, err)
			}
		})
	}
}

func TestScheduler_RunOnce_DeliversToReporters(t *testing.T) {
	m := store.NewMemoryStore()
	m.Add(store.Draft{Name: "Lincoln High"})

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) Reporter {
		return ReporterFunc(func(s Summary) {
			mu.Lock()
			defer mu.Unlock()
			if s.Counts.Total != 1 {
				t.Errorf("%s: Counts.Total = %d, want 1", name, s.Counts.Total)
			}
			order = append(order, name)
		})
	}

	s, err := NewScheduler("@daily", m, testLogger(), record("first"), record("second"))
	if err != nil {
		t.Fatalf("NewScheduler() error: %v", err)
	}

	fixed := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	summary := s.RunOnce()
	if !summary.At.Equal(fixed) {
		t.Errorf("At = %v, want %v", summary.At, fixed)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("reporter order = %v, want [first second]", order)
	}
}

func TestScheduler_RunOnce_RecoversReporterPanic(t *testing.T) {
	called := false
	panicking := ReporterFunc(func(Summary) { panic("boom") })
	after := ReporterFunc(func(Summary) { called = true })

	s, err := NewScheduler("@daily", store.NewMemoryStore(), testLogger(), panicking, after)
	if err != nil {
		t.Fatalf("NewScheduler() error: %v", err)
	}

	s.RunOnce()

	if !called {
		t.Error("reporter after a panicking reporter was not called")
	}
}

func TestScheduler_Fires(t *testing.T) {
	fired := make(chan Summary, 4)
	reporter := ReporterFunc(func(s Summary) {
		select {
		case fired <- s:
		default:
		}
	})

	s, err := NewScheduler("@every 1s", store.NewMemoryStore(), testLogger(), reporter)
	if err != nil {
		t.Fatalf("NewScheduler() error: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("digest did not fire within 3s")
	}
}

// TestScheduler_StopBeforeStart verifies that Stop on a scheduler that was
// never started is a safe no-op and that a later Start does nothing.
func TestScheduler_StopBeforeStart(t *testing.T) {
	s, err := NewScheduler("@daily", store.NewMemoryStore(), testLogger())
	if err != nil {
		t.Fatalf("NewScheduler() error: %v", err)
	}

	s.Stop()

	if err := s.Start(context.Background()); err != nil {
		t.Errorf("Start() after Stop() error: %v", err)
	}
	if s.started {
		t.Error("Start() after Stop() should be a no-op")
	}
}

func TestScheduler_StopTwice(t *testing.T) {
	s, err := NewScheduler("@daily", store.NewMemoryStore(), testLogger())
	if err != nil {
		t.Fatalf("NewScheduler() error: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	// both calls must complete without panic or deadlock
	s.Stop()
	s.Stop()
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	s, err := NewScheduler("@daily", store.NewMemoryStore(), testLogger())
	if err != nil {
		t.Fatalf("NewScheduler() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	cancel()

	deadline := time.After(time.Second)
	for {
		s.mu.Lock()
		stopped := s.stopped
		s.mu.Unlock()
		if stopped {
			return
		}
		select {
		case <-deadline:
			t.Fatal("scheduler did not stop after context cancel")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
