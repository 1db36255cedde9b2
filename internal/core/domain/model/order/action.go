package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Action is a forward step of the item workflow performed by a seller or a courier.
// Delivery confirmation, cancellation and refunds have dedicated methods because
// they carry proof or move money.
type Action int

const (
	ActionUnknown Action = iota
	// ActionProcess is the seller accepting the item (Pending -> Processing).
	ActionProcess
	// ActionHandOff is the seller packing the item for pickup (Processing -> AwaitingPickup).
	ActionHandOff
	// ActionPickUp is a courier bringing the item into the warehouse (AwaitingPickup -> InWarehouse).
	ActionPickUp
	// ActionDispatch is a courier leaving the warehouse with the item (InWarehouse -> OutForDelivery).
	ActionDispatch
)

func getActionStrings() map[Action]string {
	return map[Action]string{
		ActionProcess:  "process",
		ActionHandOff:  "handoff",
		ActionPickUp:   "pickup",
		ActionDispatch: "dispatch",
	}
}

// ParseAction maps the action name used in item URLs to an Action.
func ParseAction(s string) (Action, error) {
	for action, name := range getActionStrings() {
		if name == s {
			return action, nil
		}
	}
	return ActionUnknown, errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a valid action", s))
}

func (a Action) Validate() error {
	if _, ok := getActionStrings()[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%d is not a valid action", a))
	}
	return nil
}

func (a Action) String() string {
	if s, ok := getActionStrings()[a]; ok {
		return s
	}
	return "unknown"
}

// IsCourierAction reports whether the action is performed by a courier rather than the seller.
func (a Action) IsCourierAction() bool {
	return a == ActionPickUp || a == ActionDispatch
}
