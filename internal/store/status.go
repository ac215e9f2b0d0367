package store

import "fmt"

// Status is the outreach state of a school.
//
// Only the five constants below are valid. [MemoryStore] refuses any other
// value, and [Status.UnmarshalText] rejects unknown strings so decoding JSON
// or YAML cannot smuggle one in.
type Status string

const (
	// StatusNotContacted is the initial status of every new school.
	StatusNotContacted Status = "not-contacted"

	// StatusCalled means the school has been called.
	StatusCalled Status = "called"

	// StatusResponded means the school answered.
	StatusResponded Status = "responded"

	// StatusNoResponse means contact was attempted without an answer.
	StatusNoResponse Status = "no-response"

	// StatusFollowUp marks a school that needs another contact.
	StatusFollowUp Status = "follow-up"
)

var statusLabels = map[Status]string{
	StatusNotContacted: "Not Contacted",
	StatusCalled:       "Called",
	StatusResponded:    "Responded",
	StatusNoResponse:   "No Response",
	StatusFollowUp:     "Follow Up",
}

// Statuses returns every valid status in canonical display order.
func Statuses() []Status {
	return []Status{
		StatusNotContacted,
		StatusCalled,
		StatusResponded,
		StatusNoResponse,
		StatusFollowUp,
	}
}

// String returns the wire form of the status.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human-readable name, e.g. "No Response".
// Unknown values return their raw string.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseStatus converts a wire string into a [Status].
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
