package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Transition is the audit record of one item status change: who moved the
// item, in what capacity, and when.
type Transition struct {
	id        kernel.UUID
	itemID    kernel.UUID
	from      Status
	to        Status
	actorID   kernel.UUID
	actorRole kernel.Role
	at        time.Time
}

func newTransition(itemID kernel.UUID, from, to Status, actor kernel.Actor, at time.Time) Transition {
	return Transition{
		id:        kernel.NewUUID(),
		itemID:    itemID,
		from:      from,
		to:        to,
		actorID:   actor.ID(),
		actorRole: actor.Role(),
		at:        at,
	}
}

func (t Transition) ID() kernel.UUID        { return t.id }
func (t Transition) ItemID() kernel.UUID    { return t.itemID }
func (t Transition) From() Status           { return t.from }
func (t Transition) To() Status             { return t.to }
func (t Transition) ActorID() kernel.UUID   { return t.actorID }
func (t Transition) ActorRole() kernel.Role { return t.actorRole }
func (t Transition) At() time.Time          { return t.at }
