package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of an order item. The overall order status
// uses the same enum and is derived from its items by DeriveStatus.
//
// State transitions:
//
//	Pending ─> Processing ─> AwaitingPickup ─> InWarehouse ─> OutForDelivery ─> Delivered
//	   │           │               │                │                │              │
//	   ├───────────┴─> Cancelled   │                │                │              │
//	   └───────────────────────────┴────────────────┴────────────────┴──────────────┴─> Refunded
//
// Cancelled and Refunded are final. Every legal transition strictly increases Rank,
// so the statuses recorded for an item never go backwards.
type Status int

const (
	// Unknown catches uninitialised values and unrecognised database values.
	Unknown Status = iota

	// Pending is the initial status after checkout.
	Pending

	// Processing means the seller accepted the item and is preparing it.
	Processing

	// AwaitingPickup means the item is packed and waits for a courier.
	AwaitingPickup

	// InWarehouse means a courier collected the item into the warehouse.
	InWarehouse

	// OutForDelivery means a courier left the warehouse with the item.
	OutForDelivery

	// Delivered means the courier submitted photographic proof of delivery.
	Delivered

	// Cancelled means the item was cancelled before it was handed off.
	Cancelled

	// Refunded means an administrator returned the buyer's money.
	Refunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Pending:        "Pending",
		Processing:     "Processing",
		AwaitingPickup: "AwaitingPickup",
		InWarehouse:    "InWarehouse",
		OutForDelivery: "OutForDelivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
		Refunded:       "Refunded",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "Pending",
		Processing:     "Processing",
		AwaitingPickup: "AwaitingPickup",
		InWarehouse:    "InWarehouse",
		OutForDelivery: "OutForDelivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
		Refunded:       "Refunded",
	}
}

// getTransitions is the complete transition table. A status missing from the
// table, or a target missing from its list, is an illegal move.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // final statuses have no outgoing transitions
	return map[Status][]Status{
		Pending:        {Processing, Cancelled, Refunded},
		Processing:     {AwaitingPickup, Cancelled, Refunded},
		AwaitingPickup: {InWarehouse, Refunded},
		InWarehouse:    {OutForDelivery, Refunded},
		OutForDelivery: {Delivered, Refunded},
		Delivered:      {Refunded},
	}
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Processing, AwaitingPickup, InWarehouse, OutForDelivery, Delivered, Cancelled, Refunded}
}

// ParseStatus maps a status name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and any value outside the enum.
//
// Values read from storage go through Validate; an unrecognised value is a
// data error and is never coerced to a default.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the status name, or "Unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Rank orders statuses along the lifecycle. Final side branches rank above
// Delivered so that every legal transition increases the rank.
func (s Status) Rank() int {
	if err := s.Validate(); err != nil {
		return 0
	}
	return int(s)
}

// IsClosed reports whether the item left the fulfillment flow (Cancelled or Refunded).
func (s Status) IsClosed() bool {
	return s == Cancelled || s == Refunded
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range getTransitions()[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Process transitions Pending to Processing.
func (s Status) Process() (Status, error) {
	return s.transition("mark processed", Processing)
}

// HandOff transitions Processing to AwaitingPickup.
func (s Status) HandOff() (Status, error) {
	return s.transition("hand off for pickup", AwaitingPickup)
}

// ReceiveAtWarehouse transitions AwaitingPickup to InWarehouse.
func (s Status) ReceiveAtWarehouse() (Status, error) {
	return s.transition("receive at warehouse", InWarehouse)
}

// Dispatch transitions InWarehouse to OutForDelivery.
func (s Status) Dispatch() (Status, error) {
	return s.transition("dispatch for delivery", OutForDelivery)
}

// Deliver transitions OutForDelivery to Delivered.
func (s Status) Deliver() (Status, error) {
	return s.transition("confirm delivery", Delivered)
}

// Cancel transitions Pending or Processing to Cancelled.
// Once the seller handed the item off it can only be refunded.
func (s Status) Cancel() (Status, error) {
	return s.transition("cancel", Cancelled)
}

// Refund transitions any open status, Delivered included, to Refunded.
func (s Status) Refund() (Status, error) {
	return s.transition("refund", Refunded)
}

func (s Status) transition(action string, next Status) (Status, error) {
	if s.CanTransitionTo(next) {
		return next, nil
	}
	if s.IsClosed() {
		return Unknown, errs.NewInvalidTransitionErrorWithReason(action, s.String(), "which is final")
	}
	return Unknown, errs.NewInvalidTransitionError(action, s.String(), sourcesOf(next)...)
}

// sourcesOf lists, in lifecycle order, the statuses from which next is reachable.
func sourcesOf(next Status) []string {
	sources := make([]string, 0)
	for _, candidate := range AllStatuses() {
		if candidate.CanTransitionTo(next) {
			sources = append(sources, candidate.String())
		}
	}
	return sources
}
