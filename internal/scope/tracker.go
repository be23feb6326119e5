// Package scope keeps the client's read-mostly caches consistent with
// the scopes they were fetched for. Every fetch is issued against a
// ticket capturing the scope and a monotonic sequence number; a response
// is applied only if its ticket still matches the current scope and no
// newer request has been issued since. Responses for abandoned scopes
// or superseded requests are silently discarded — that is the normal
// shutdown path for a cancelled polling loop, not an error.
package scope

import (
	"slices"

	"taskdeck/internal/model"
)

// Ticket identifies one fetch: the scope active when it was issued and
// its position in the per-tracker request order.
type Ticket[S comparable] struct {
	Scope S
	Seq   uint64
}

// Tracker holds the cached list for one polling loop.
type Tracker[S, E comparable] struct {
	scope   S
	seq     uint64 // latest issued request
	applied uint64 // request whose response currently backs the cache
	items   []E
}

func NewTracker[S, E comparable](scope S) *Tracker[S, E] {
	return &Tracker[S, E]{scope: scope}
}

func (t *Tracker[S, E]) Scope() S { return t.scope }

// SetScope moves the tracker to a new scope. The old result set is
// invalidated immediately so no stale-scope data stays visible, and any
// in-flight tickets for the old scope become undeliverable.
func (t *Tracker[S, E]) SetScope(scope S) bool {
	if scope == t.scope {
		return false
	}
	t.scope = scope
	t.items = nil
	return true
}

// Reset drops the cached items and invalidates any in-flight request
// without changing the scope. Used on teardown so the next consumer of
// this tracker starts blank instead of seeing the previous result set.
func (t *Tracker[S, E]) Reset() {
	t.seq++
	t.applied = t.seq
	t.items = nil
}

// Begin registers a fetch and returns its ticket. Call at request time,
// before the network call suspends.
func (t *Tracker[S, E]) Begin() Ticket[S] {
	t.seq++
	return Ticket[S]{Scope: t.scope, Seq: t.seq}
}

// Apply installs a response. The first return reports whether the
// response was accepted; the second whether the cache content actually
// changed (identical re-fetches are no-ops for consumers).
func (t *Tracker[S, E]) Apply(ticket Ticket[S], items []E) (accepted, changed bool) {
	if ticket.Scope != t.scope {
		return false, false
	}
	if ticket.Seq < t.seq {
		// A newer request for this scope has been issued; its response
		// is the authoritative one even if it has not landed yet.
		return false, false
	}
	t.applied = ticket.Seq
	if slices.Equal(t.items, items) {
		return true, false
	}
	t.items = items
	return true, true
}

// Items returns the cached list in server order.
func (t *Tracker[S, E]) Items() []E { return t.items }

// Loading reports whether a request is outstanding with no response
// applied yet.
func (t *Tracker[S, E]) Loading() bool { return t.seq > t.applied }

// Concrete trackers for the three polling loops.
type (
	// TaskList is scoped by the dashboard's view filter.
	TaskList = Tracker[model.ViewFilter, model.Task]
	// Room is the broadcast chat; it has a single scope, so only the
	// sequence ordering applies.
	Room = Tracker[struct{}, model.ChatMessage]
	// Thread is the private chat, scoped by peer id (0 = no peer).
	Thread = Tracker[int64, model.ChatMessage]
)

func NewTaskList(filter model.ViewFilter) *TaskList {
	return NewTracker[model.ViewFilter, model.Task](filter)
}

func NewRoom() *Room {
	return NewTracker[struct{}, model.ChatMessage](struct{}{})
}

func NewThread() *Thread {
	return NewTracker[int64, model.ChatMessage](0)
}
