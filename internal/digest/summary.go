package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/jpalmerr/outreach/internal/store"
)

// Source is the read side of the store a digest needs.
type Source interface {
	GetAll() []store.School
}

// Summary is a point-in-time digest of the outreach list.
type Summary struct {
	At     time.Time    `json:"at"`
	Counts store.Counts `json:"counts"`

	// FollowUps lists schools in follow-up status, in insertion order.
	FollowUps []string `json:"follow_ups"`

	// Uncontacted lists schools still in not-contacted status.
	Uncontacted []string `json:"uncontacted"`
}

// Build snapshots src into a [Summary]. Counts and name lists come from the
// same snapshot, so they always agree.
func Build(src Source, at time.Time) Summary {
	schools := src.GetAll()

	summary := Summary{
		At:          at,
		Counts:      store.Tally(schools),
		FollowUps:   []string{},
		Uncontacted: []string{},
	}
	for _, s := range schools {
		switch s.Status {
		case store.StatusFollowUp:
			summary.FollowUps = append(summary.FollowUps, s.Name)
		case store.StatusNotContacted:
			summary.Uncontacted = append(summary.Uncontacted, s.Name)
		}
	}
	return summary
}

// Message renders the summary as plain text suitable for chat or logs.
func (s Summary) Message() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Outreach digest: %d schools", s.Counts.Total)
	for _, st := range store.Statuses() {
		fmt.Fprintf(&b, ", %d %s", s.Counts.Of(st), strings.ToLower(st.Label()))
	}
	b.WriteString(".")

	if len(s.FollowUps) > 0 {
		fmt.Fprintf(&b, "\nFollow up: %s.", strings.Join(s.FollowUps, ", "))
	}
	if len(s.Uncontacted) > 0 {
		fmt.Fprintf(&b, "\nNot yet contacted: %s.", strings.Join(s.Uncontacted, ", "))
	}
	return b.String()
}

// Reporter receives summaries.
type Reporter interface {
	Report(summary Summary)
}

// ReporterFunc adapts an ordinary function to the [Reporter] interface.
type ReporterFunc func(Summary)

// Report calls f(summary).
func (f ReporterFunc) Report(summary Summary) {
	f(summary)
}
