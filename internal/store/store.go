package store

import (
	"fmt"
	"time"
)

// School is one tracked institution.
//
// School values are snapshots: the store hands out copies, so changing a
// returned School (including the time behind LastContacted) never affects
// stored state. Optional text fields use the empty string for "absent".
type School struct {
	// ID is assigned by the store on creation and never changes.
	ID string `json:"id"`

	// Name is the school's display name. Never empty.
	Name string `json:"name"`

	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
	Notes         string `json:"notes,omitempty"`

	// Status is the current outreach status.
	Status Status `json:"status"`

	// LastContacted is nil until the first status update, then the time of
	// the most recent one.
	LastContacted *time.Time `json:"last_contacted,omitempty"`
}

// clone returns a copy that shares no pointers with s.
func (s School) clone() School {
	if s.LastContacted != nil {
		t := *s.LastContacted
		s.LastContacted = &t
	}
	return s
}

// Draft is the input to [MemoryStore.Add].
//
// Callers are expected to trim Name before submitting; the store trims it
// again and refuses blank names.
type Draft struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

// EventKind identifies the mutation an [Event] describes.
type EventKind string

const (
	// EventAdded is emitted after a school is created.
	EventAdded EventKind = "added"

	// EventStatusChanged is emitted after a status update is applied.
	EventStatusChanged EventKind = "status-changed"
)

// Event describes a committed mutation.
//
// Name is read in the same critical section as the mutation itself, so it
// always matches the record the event refers to.
type Event struct {
	Kind     EventKind `json:"kind"`
	SchoolID string    `json:"school_id"`
	Name     string    `json:"name"`

	// Status is the new status for EventStatusChanged, and the initial
	// status for EventAdded.
	Status Status `json:"status"`

	At time.Time `json:"at"`
}

// Message renders the event as a short human-readable sentence.
func (e Event) Message() string {
	switch e.Kind {
	case EventAdded:
		return fmt.Sprintf("%s has been added to your tracking list.", e.Name)
	case EventStatusChanged:
		return fmt.Sprintf("%s status updated to %s.", e.Name, e.Status)
	default:
		return fmt.Sprintf("%s: %s", e.Name, e.Kind)
	}
}

// Counts is the per-status aggregate returned by [MemoryStore.StatusCounts].
//
// Total always equals the collection size and the sum of the five counters.
type Counts struct {
	Total        int `json:"total"`
	NotContacted int `json:"not-contacted"`
	Called       int `json:"called"`
	Responded    int `json:"responded"`
	NoResponse   int `json:"no-response"`
	FollowUp     int `json:"follow-up"`
}

// Of returns the counter for a single status. Unknown statuses return 0.
func (c Counts) Of(s Status) int {
	switch s {
	case StatusNotContacted:
		return c.NotContacted
	case StatusCalled:
		return c.Called
	case StatusResponded:
		return c.Responded
	case StatusNoResponse:
		return c.NoResponse
	case StatusFollowUp:
		return c.FollowUp
	default:
		return 0
	}
}

// Tally aggregates an arbitrary slice of schools by status.
func Tally(schools []School) Counts {
	counts := Counts{Total: len(schools)}
	for _, s := range schools {
		counts.inc(s.Status)
	}
	return counts
}

func (c *Counts) inc(s Status) {
	switch s {
	case StatusNotContacted:
		c.NotContacted++
	case StatusCalled:
		c.Called++
	case StatusResponded:
		c.Responded++
	case StatusNoResponse:
		c.NoResponse++
	case StatusFollowUp:
		c.FollowUp++
	}
}

// Notifier receives events after each committed mutation.
//
// Notify is called synchronously, in commit order, after the store's data
// lock has been released. Implementations may read the store but must not
// mutate it from inside Notify.
type Notifier interface {
	Notify(event Event)
}

// NotifierFunc adapts an ordinary function to the [Notifier] interface.
type NotifierFunc func(Event)

// Notify calls f(event).
func (f NotifierFunc) Notify(event Event) {
	f(event)
}

// Store defines the school store contract.
//
// Store implementations must be safe for concurrent access. All read
// methods return snapshots; modifying them does not affect the store.
type Store interface {
	// Add creates a school from the draft. Returns false, and creates
	// nothing, when the trimmed name is empty.
	Add(draft Draft) (School, bool)

	// UpdateStatus sets the status and stamps LastContacted. Returns false,
	// and changes nothing, for an unknown id or an invalid status.
	UpdateStatus(id string, status Status) (School, bool)

	// Get returns the school with the given id.
	Get(id string) (School, bool)

	// GetAll returns every school in insertion order.
	GetAll() []School

	// Search returns schools whose name or contact person contains term,
	// case-insensitively, in insertion order. An empty term matches all.
	Search(term string) []School

	// StatusCounts aggregates the current collection by status.
	StatusCounts() Counts

	// Subscribe returns a channel that receives events.
	// The returned channel has a buffer; slow consumers may miss events.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Event

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Event)
}
