package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelItemCommandIsNotConstructed = errors.New(
	"CancelItemCommand must be created via NewCancelItemCommand constructor",
)

// CancelItemCommand cancels a single item before it is handed off. The buyer
// of the order, the item's seller or an administrator may cancel.
type CancelItemCommand struct { //nolint:recvcheck //using for validation
	itemID kernel.UUID
	actor  kernel.Actor

	guard guard.ConstructorGuard
}

func NewCancelItemCommand(itemID kernel.UUID, actor kernel.Actor) (CancelItemCommand, error) {
	if err := errors.Join(itemID.Validate(), actor.Validate()); err != nil {
		return CancelItemCommand{}, err
	}

	return CancelItemCommand{
		itemID: itemID,
		actor:  actor,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c CancelItemCommand) Validate() error {
	return c.guard.Validate(ErrCancelItemCommandIsNotConstructed)
}

func (c CancelItemCommand) ItemID() kernel.UUID { return c.itemID }
func (c CancelItemCommand) Actor() kernel.Actor { return c.actor }
