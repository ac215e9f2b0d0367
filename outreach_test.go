package outreach

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTracker_LincolnWashingtonScenario(t *testing.T) {
	tr, err := New(WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lincoln, ok := tr.Add(Draft{Name: "Lincoln High", ContactPerson: "Jane Doe"})
	if !ok {
		t.Fatal("Add(Lincoln High) was not applied")
	}
	washington, ok := tr.Add(Draft{Name: "Washington Elementary"})
	if !ok {
		t.Fatal("Add(Washington Elementary) was not applied")
	}

	if _, ok := tr.UpdateStatus(lincoln.ID, StatusCalled); !ok {
		t.Fatal("UpdateStatus(lincoln, called) was not applied")
	}
	if _, ok := tr.UpdateStatus(washington.ID, StatusFollowUp); !ok {
		t.Fatal("UpdateStatus(washington, follow-up) was not applied")
	}

	counts := tr.StatusCounts()
	if counts.Total != 2 || counts.Called != 1 || counts.FollowUp != 1 || counts.NotContacted != 0 {
		t.Errorf("StatusCounts() = %+v", counts)
	}

	if got := tr.Search("jane"); len(got) != 1 || got[0].ID != lincoln.ID {
		t.Errorf("Search(jane) = %+v, want Lincoln High", got)
	}
	if got := tr.Search("high school"); len(got) != 0 {
		t.Errorf("Search(high school) = %+v, want empty", got)
	}

	school, ok := tr.School(washington.ID)
	if !ok {
		t.Fatal("School(washington) not found")
	}
	if school.Status != StatusFollowUp || school.LastContacted == nil {
		t.Errorf("School(washington) = %+v", school)
	}
}

func TestTracker_RejectedOperations(t *testing.T) {
	tr, _ := New(WithLogger(testLogger()))

	if _, ok := tr.Add(Draft{Name: "   "}); ok {
		t.Error("Add(blank) should not be applied")
	}
	if _, ok := tr.UpdateStatus("missing", StatusCalled); ok {
		t.Error("UpdateStatus(unknown id) should not be applied")
	}

	s, _ := tr.Add(Draft{Name: "Lincoln High"})
	if _, ok := tr.UpdateStatus(s.ID, Status("emailed")); ok {
		t.Error("UpdateStatus(invalid status) should not be applied")
	}
	if got, _ := tr.School(s.ID); got.Status != StatusNotContacted || got.LastContacted != nil {
		t.Errorf("school mutated by rejected update: %+v", got)
	}
}

func TestWithEventCallback_ReceivesEvents(t *testing.T) {
	var (
		mu     sync.Mutex
		events []Event
	)

	tr, err := New(
		WithLogger(testLogger()),
		WithEventCallback(func(e Event) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s, _ := tr.Add(Draft{Name: "Lincoln High"})
	tr.UpdateStatus(s.ID, StatusResponded)
	tr.Add(Draft{Name: ""}) // rejected: no event

	mu.Lock()
	defer mu.Unlock()

	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Kind != EventAdded || events[0].Message() != "Lincoln High has been added to your tracking list." {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Kind != EventStatusChanged || events[1].Message() != "Lincoln High status updated to responded." {
		t.Errorf("events[1] = %+v", events[1])
	}
	if events[1].SchoolID != s.ID {
		t.Errorf("events[1].SchoolID = %q, want %q", events[1].SchoolID, s.ID)
	}
}

func TestWithEventCallback_SeedsDoNotNotify(t *testing.T) {
	var calls int
	tr, err := New(
		WithLogger(testLogger()),
		WithSchools(Draft{Name: "Lincoln High"}, Draft{Name: "Washington Elementary"}),
		WithEventCallback(func(Event) { calls++ }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if calls != 0 {
		t.Errorf("callback invoked %d times for seeds, want 0", calls)
	}

	tr.Add(Draft{Name: "Roosevelt Middle"})
	if calls != 1 {
		t.Errorf("callback invoked %d times, want 1", calls)
	}
}

func TestWithEventCallback_ExecutionOrder(t *testing.T) {
	var order []int

	tr, err := New(
		WithLogger(testLogger()),
		WithEventCallback(func(Event) { order = append(order, 1) }),
		WithEventCallback(func(Event) { order = append(order, 2) }),
		WithEventCallback(func(Event) { order = append(order, 3) }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s, _ := tr.Add(Draft{Name: "A"})
	tr.UpdateStatus(s.ID, StatusCalled)

	want := []int{1, 2, 3, 1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d (callbacks should execute in registration order)", i, order[i], want[i])
		}
	}
}

func TestWithEventCallback_PanicRecovery(t *testing.T) {
	var normalCalled bool

	// use a logger that captures output to verify panic was logged
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	tr, err := New(
		WithLogger(logger),
		WithEventCallback(func(Event) { panic("intentional test panic") }),
		WithEventCallback(func(Event) { normalCalled = true }), // should still be called after panic
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// should not panic
	if _, ok := tr.Add(Draft{Name: "Lincoln High"}); !ok {
		t.Fatal("Add() should be applied even when a callback panics")
	}

	if !normalCalled {
		t.Error("subsequent callbacks should still run after panic")
	}
	if !bytes.Contains(logBuf.Bytes(), []byte("event callback panicked")) {
		t.Errorf("panic should have been logged, got: %s", logBuf.String())
	}
}

func TestWithEventCallback_CanReadTracker(t *testing.T) {
	var seen int
	var tr *Tracker

	tr, err := New(
		WithLogger(testLogger()),
		WithEventCallback(func(e Event) {
			// reading inside a callback must not deadlock
			seen = tr.StatusCounts().Total
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		tr.Add(Draft{Name: "Lincoln High"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Add() deadlocked with a reading callback")
	}
	if seen != 1 {
		t.Errorf("callback saw Total = %d, want 1", seen)
	}
}

func TestSchools_Immutability(t *testing.T) {
	tr, _ := New(WithSchools(Draft{Name: "Lincoln High"}))

	schools := tr.Schools()
	schools[0].Name = "mutated"
	_ = append(schools, School{Name: "extra"})

	got := tr.Schools()
	if len(got) != 1 || got[0].Name != "Lincoln High" {
		t.Errorf("Schools() mutation affected the tracker: %+v", got)
	}
}

func TestStatuses_Aliases(t *testing.T) {
	statuses := Statuses()
	want := []Status{StatusNotContacted, StatusCalled, StatusResponded, StatusNoResponse, StatusFollowUp}
	if len(statuses) != len(want) {
		t.Fatalf("Statuses() = %v", statuses)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("Statuses()[%d] = %q, want %q", i, statuses[i], want[i])
		}
	}

	if s, err := ParseStatus("follow-up"); err != nil || s != StatusFollowUp {
		t.Errorf("ParseStatus(follow-up) = %q, %v", s, err)
	}
	if _, err := ParseStatus("Follow Up"); err == nil {
		t.Error("ParseStatus(label) expected error")
	}
}
