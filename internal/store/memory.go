package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxIDAttempts bounds how often Add re-draws an id that collides with an
// existing record before giving up.
const maxIDAttempts = 8

// subscriberBuffer is the channel capacity handed to each subscriber.
const subscriberBuffer = 100

// Option configures a [MemoryStore] at construction.
type Option func(*MemoryStore)

// WithNotifier registers a [Notifier]. May be given multiple times;
// notifiers run in registration order. Nil notifiers are ignored.
func WithNotifier(n Notifier) Option {
	return func(m *MemoryStore) {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
}

// WithIDGenerator replaces the default UUID id generator.
// Ids that collide with an existing record are re-drawn.
func WithIDGenerator(gen func() string) Option {
	return func(m *MemoryStore) {
		if gen != nil {
			m.newID = gen
		}
	}
}

// WithClock replaces time.Now for LastContacted and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// MemoryStore is an in-memory implementation of [Store].
//
// Records live in an insertion-ordered slice with an id index. A single
// RWMutex guards both, so a reader never sees a status change without its
// LastContacted stamp. Events are built inside the write lock and delivered
// after it is released, in commit order.
type MemoryStore struct {
	mu      sync.RWMutex
	schools []School
	index   map[string]int

	issued     uint64
	delivered  uint64
	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	notifiers  []Notifier

	subscribers map[chan Event]struct{}
	subMu       sync.RWMutex

	newID func() string
	now   func() time.Time
}

// NewMemoryStore creates an empty [MemoryStore].
//
// The store is immediately ready for use. No cleanup is required when done.
func NewMemoryStore(opts ...Option) *MemoryStore {
	m := &MemoryStore{
		index:       make(map[string]int),
		subscribers: make(map[chan Event]struct{}),
		newID:       uuid.NewString,
		now:         time.Now,
	}
	m.notifyCond = sync.NewCond(&m.notifyMu)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddNotifier registers n after construction. Events committed before the
// call are not replayed. Nil notifiers are ignored.
func (m *MemoryStore) AddNotifier(n Notifier) {
	if n == nil {
		return
	}

	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	m.notifiers = append(m.notifiers, n)
}

// Add creates a school from draft and appends it to the collection.
//
// The name is trimmed; a blank name creates nothing and emits nothing. The
// new school starts as [StatusNotContacted] with no LastContacted. Returns
// false if the name is blank or no unique id could be drawn.
func (m *MemoryStore) Add(draft Draft) (School, bool) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return School{}, false
	}

	m.mu.Lock()
	id, ok := m.uniqueID()
	if !ok {
		m.mu.Unlock()
		return School{}, false
	}

	school := School{
		ID:            id,
		Name:          name,
		ContactPerson: draft.ContactPerson,
		Phone:         draft.Phone,
		Email:         draft.Email,
		Address:       draft.Address,
		Notes:         draft.Notes,
		Status:        StatusNotContacted,
	}
	m.index[id] = len(m.schools)
	m.schools = append(m.schools, school)

	event := Event{
		Kind:     EventAdded,
		SchoolID: id,
		Name:     name,
		Status:   StatusNotContacted,
		At:       m.now(),
	}
	m.commit(event)

	return school, true
}

// UpdateStatus moves the school with the given id to status and sets its
// LastContacted to now.
//
// Any transition is allowed, including to the current status. Unknown ids
// and invalid statuses are ignored: nothing changes and nothing is emitted.
func (m *MemoryStore) UpdateStatus(id string, status Status) (School, bool) {
	if !status.Valid() {
		return School{}, false
	}

	m.mu.Lock()
	i, ok := m.index[id]
	if !ok {
		m.mu.Unlock()
		return School{}, false
	}

	now := m.now()
	school := &m.schools[i]
	school.Status = status
	school.LastContacted = &now
	updated := school.clone()

	event := Event{
		Kind:     EventStatusChanged,
		SchoolID: id,
		Name:     school.Name,
		Status:   status,
		At:       now,
	}
	m.commit(event)

	return updated, true
}

// Get returns the school with the given id.
func (m *MemoryStore) Get(id string) (School, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[id]
	if !ok {
		return School{}, false
	}
	return m.schools[i].clone(), true
}

// GetAll returns a snapshot of every school in insertion order.
//
// The returned slice is a copy; modifications do not affect the store.
func (m *MemoryStore) GetAll() []School {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]School, len(m.schools))
	for i, s := range m.schools {
		results[i] = s.clone()
	}
	return results
}

// Len returns the number of stored schools.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.schools)
}

// Search returns the schools whose Name or ContactPerson contains term,
// ignoring case, in insertion order. An empty term returns every school.
func (m *MemoryStore) Search(term string) []School {
	needle := strings.ToLower(term)

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]School, 0, len(m.schools))
	for _, s := range m.schools {
		if matches(s, needle) {
			results = append(results, s.clone())
		}
	}
	return results
}

// matches reports whether s matches an already lower-cased needle.
// An absent contact person never matches a non-empty needle.
func matches(s School, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.Name), needle) {
		return true
	}
	return s.ContactPerson != "" && strings.Contains(strings.ToLower(s.ContactPerson), needle)
}

// StatusCounts aggregates the current collection by status.
// It is recomputed on every call.
func (m *MemoryStore) StatusCounts() Counts {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Tally(m.schools)
}

// Subscribe creates a new subscription and returns a channel for receiving events.
//
// The returned channel has a buffer of 100 events. If the buffer fills
// (slow consumer), new events are dropped for this subscriber.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// After calling Unsubscribe, the channel will be closed and no further
// events will be sent. Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// uniqueID draws ids until one is unused. Caller must hold mu.
func (m *MemoryStore) uniqueID() (string, bool) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := m.newID()
		if id == "" {
			continue
		}
		if _, taken := m.index[id]; !taken {
			return id, true
		}
	}
	return "", false
}

// commit stamps event with the next delivery ticket, releases the write
// lock and delivers. Caller must hold mu; commit releases it.
//
// Tickets are handed out under mu, so delivery order equals commit order
// even when writers race. Notifiers run without mu held and may read the
// store.
func (m *MemoryStore) commit(event Event) {
	ticket := m.issued
	m.issued++
	m.mu.Unlock()

	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	for m.delivered != ticket {
		m.notifyCond.Wait()
	}
	defer func() {
		m.delivered++
		m.notifyCond.Broadcast()
	}()

	for _, n := range m.notifiers {
		n.Notify(event)
	}
	m.notifySubscribers(event)
}

// notifySubscribers sends the event to all active subscribers.
//
// This is non-blocking: if a subscriber's channel buffer is full, the event
// is dropped for that subscriber rather than blocking the write path.
func (m *MemoryStore) notifySubscribers(event Event) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- event:
		default:
			// subscriber is slow, drop the event
		}
	}
}
