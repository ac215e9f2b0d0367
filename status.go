package outreach

import "github.com/jpalmerr/outreach/internal/store"

// Status is the outreach state of a school.
//
// Status is a string type restricted to five values: [StatusNotContacted],
// [StatusCalled], [StatusResponded], [StatusNoResponse] and [StatusFollowUp].
// The tracker refuses any other value, and decoding an unknown value from
// JSON or YAML fails.
type Status = store.Status

const (
	// StatusNotContacted is the initial status of every school.
	StatusNotContacted = store.StatusNotContacted

	// StatusCalled means the school has been phoned.
	StatusCalled = store.StatusCalled

	// StatusResponded means the school answered.
	StatusResponded = store.StatusResponded

	// StatusNoResponse means contact was attempted without an answer.
	StatusNoResponse = store.StatusNoResponse

	// StatusFollowUp marks a school that needs another touch.
	StatusFollowUp = store.StatusFollowUp
)

// School is one tracked school. See the field docs in the store package.
type School = store.School

// Draft is the input to [Tracker.Add].
type Draft = store.Draft

// Counts holds per-status totals.
type Counts = store.Counts

// Event describes a committed change, delivered to callbacks registered
// with [WithEventCallback].
type Event = store.Event

// EventKind identifies the type of an [Event].
type EventKind = store.EventKind

const (
	// EventAdded is emitted once per successfully added school.
	EventAdded = store.EventAdded

	// EventStatusChanged is emitted on every applied status update,
	// including updates to the current status.
	EventStatusChanged = store.EventStatusChanged
)

// Statuses returns every [Status] in canonical order.
func Statuses() []Status {
	return store.Statuses()
}

// ParseStatus returns the [Status] named by s, or an error if s is not one
// of the five known values.
func ParseStatus(s string) (Status, error) {
	return store.ParseStatus(s)
}
