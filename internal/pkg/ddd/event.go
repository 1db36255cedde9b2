// Package ddd holds the building blocks shared by aggregates and the adapters
// that publish what aggregates record.
package ddd

import "time"

// DomainEvent is a fact recorded by an aggregate and published after the
// transaction that produced it commits.
type DomainEvent interface {
	// EventName is the stable routing name, e.g. "escrow.released".
	EventName() string
	// AggregateID is the key events of the same aggregate are ordered by.
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder is implemented by aggregates that accumulate domain events.
type EventRecorder interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}
