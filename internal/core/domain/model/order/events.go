package order

import (
	"time"

	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/pkg/ddd"
)

const (
	EventOrderPlaced       = "order.placed"
	EventItemStatusChanged = "order.item_status_changed"
	EventEscrowReleased    = "escrow.released"
	EventEscrowRefunded    = "escrow.refunded"
	EventEscrowCancelled   = "escrow.cancelled"
)

// OrderPlacedEvent is recorded when checkout creates the order.
type OrderPlacedEvent struct {
	OrderID    string    `json:"order_id"`
	BuyerID    string    `json:"buyer_id"`
	ItemCount  int       `json:"item_count"`
	GrandTotal string    `json:"grand_total"`
	At         time.Time `json:"at"`
}

func (e OrderPlacedEvent) EventName() string     { return EventOrderPlaced }
func (e OrderPlacedEvent) AggregateID() string   { return e.OrderID }
func (e OrderPlacedEvent) OccurredAt() time.Time { return e.At }

// ItemStatusChangedEvent is recorded for every item transition together with
// the order status derived after it.
type ItemStatusChangedEvent struct {
	OrderID     string    `json:"order_id"`
	ItemID      string    `json:"item_id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	OrderStatus string    `json:"order_status"`
	ActorID     string    `json:"actor_id"`
	ActorRole   string    `json:"actor_role"`
	At          time.Time `json:"at"`
}

func (e ItemStatusChangedEvent) EventName() string     { return EventItemStatusChanged }
func (e ItemStatusChangedEvent) AggregateID() string   { return e.OrderID }
func (e ItemStatusChangedEvent) OccurredAt() time.Time { return e.At }

// EscrowFinalizedEvent is recorded when an escrow record leaves Holding.
// Name is one of EventEscrowReleased, EventEscrowRefunded, EventEscrowCancelled.
type EscrowFinalizedEvent struct {
	Name        string    `json:"name"`
	OrderID     string    `json:"order_id"`
	ItemID      string    `json:"item_id"`
	EscrowID    string    `json:"escrow_id"`
	Kind        string    `json:"kind"`
	RecipientID string    `json:"recipient_id"`
	Amount      string    `json:"amount"`
	FinalizedBy string    `json:"finalized_by"`
	At          time.Time `json:"at"`
}

func (e EscrowFinalizedEvent) EventName() string     { return e.Name }
func (e EscrowFinalizedEvent) AggregateID() string   { return e.OrderID }
func (e EscrowFinalizedEvent) OccurredAt() time.Time { return e.At }

func newEscrowFinalizedEvent(o *Order, item *Item, instr escrow.Instruction) EscrowFinalizedEvent {
	rec := item.Escrow()

	name := EventEscrowReleased
	switch rec.Status() {
	case escrow.Refunded:
		name = EventEscrowRefunded
	case escrow.Cancelled:
		name = EventEscrowCancelled
	case escrow.Unknown, escrow.Holding, escrow.Released:
	}

	var finalizedBy string
	if by := rec.FinalizedBy(); by != nil {
		finalizedBy = by.String()
	}
	var at time.Time
	if ts := rec.FinalizedAt(); ts != nil {
		at = *ts
	}

	return EscrowFinalizedEvent{
		Name:        name,
		OrderID:     o.id.String(),
		ItemID:      item.ID().String(),
		EscrowID:    rec.ID().String(),
		Kind:        string(instr.Kind),
		RecipientID: instr.Recipient.String(),
		Amount:      instr.Amount.String(),
		FinalizedBy: finalizedBy,
		At:          at,
	}
}

var (
	_ ddd.DomainEvent = OrderPlacedEvent{}
	_ ddd.DomainEvent = ItemStatusChangedEvent{}
	_ ddd.DomainEvent = EscrowFinalizedEvent{}
)
