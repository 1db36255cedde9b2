package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrAdvanceItemCommandIsNotConstructed = errors.New(
	"AdvanceItemCommand must be created via NewAdvanceItemCommand constructor",
)

// AdvanceItemCommand moves an item one step forward on behalf of its seller
// (process, handoff) or a courier (pickup, dispatch).
type AdvanceItemCommand struct { //nolint:recvcheck //using for validation
	itemID kernel.UUID
	action order.Action
	actor  kernel.Actor

	guard guard.ConstructorGuard
}

func NewAdvanceItemCommand(itemID kernel.UUID, action order.Action, actor kernel.Actor) (AdvanceItemCommand, error) {
	if err := errors.Join(itemID.Validate(), action.Validate(), actor.Validate()); err != nil {
		return AdvanceItemCommand{}, err
	}

	return AdvanceItemCommand{
		itemID: itemID,
		action: action,
		actor:  actor,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceItemCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceItemCommandIsNotConstructed)
}

func (c AdvanceItemCommand) ItemID() kernel.UUID  { return c.itemID }
func (c AdvanceItemCommand) Action() order.Action { return c.action }
func (c AdvanceItemCommand) Actor() kernel.Actor  { return c.actor }
