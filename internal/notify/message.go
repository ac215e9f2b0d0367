package notify

import (
	"context"

	"github.com/jpalmerr/outreach/internal/digest"
	"github.com/jpalmerr/outreach/internal/store"
)

// Message is a sink-neutral notification.
type Message struct {
	// Subject is a short title, e.g. "School added".
	Subject string

	// Text is the human-readable body.
	Text string

	// Payload is the structured body sent to machine sinks as JSON.
	Payload any
}

// Sender delivers a [Message] to one sink.
type Sender interface {
	// Name identifies the sink in log lines.
	Name() string

	// Send delivers msg. It must honour ctx cancellation.
	Send(ctx context.Context, msg Message) error
}

// eventPayload is the JSON body for a store event.
type eventPayload struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Event   store.Event `json:"event"`
}

// digestPayload is the JSON body for a digest summary.
type digestPayload struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Digest  digest.Summary `json:"digest"`
}

// EventMessage converts a store event into a [Message].
func EventMessage(e store.Event) Message {
	subject := "School updated"
	if e.Kind == store.EventAdded {
		subject = "School added"
	}

	text := e.Message()
	return Message{
		Subject: subject,
		Text:    text,
		Payload: eventPayload{Type: "event", Message: text, Event: e},
	}
}

// DigestMessage converts a digest summary into a [Message].
func DigestMessage(s digest.Summary) Message {
	text := s.Message()
	return Message{
		Subject: "Outreach digest",
		Text:    text,
		Payload: digestPayload{Type: "digest", Message: text, Digest: s},
	}
}
