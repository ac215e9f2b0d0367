// Package store provides the in-memory school record store and its
// notification fan-out.
//
// This package owns the authoritative, insertion-ordered collection of
// [School] records. It exposes the four operations the rest of the tracker is
// built on:
//
//   - [MemoryStore.Add]: create a record from a [Draft]
//   - [MemoryStore.UpdateStatus]: move a record to another [Status]
//   - [MemoryStore.Search]: case-insensitive filter on name and contact person
//   - [MemoryStore.StatusCounts]: per-status aggregate, always computed fresh
//
// Every committed mutation produces an [Event] that is handed synchronously
// to the registered [Notifier] values and fanned out to channel subscribers.
// Subscribers receive events via buffered channels with non-blocking sends
// (slow subscribers miss events rather than block writers).
//
// The store is safe for concurrent access. Users of the outreach library
// reach it through [outreach.Tracker] rather than directly.
package store
