package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRefundItemCommandIsNotConstructed = errors.New(
	"RefundItemCommand must be created via NewRefundItemCommand constructor",
)

// RefundItemCommand is the administrator's manual dispute override.
type RefundItemCommand struct { //nolint:recvcheck //using for validation
	itemID kernel.UUID
	admin  kernel.Actor

	guard guard.ConstructorGuard
}

// NewRefundItemCommand returns a ForbiddenError for anyone but an administrator.
func NewRefundItemCommand(itemID kernel.UUID, admin kernel.Actor) (RefundItemCommand, error) {
	if err := errors.Join(itemID.Validate(), admin.Validate()); err != nil {
		return RefundItemCommand{}, err
	}
	if !admin.IsAdmin() {
		return RefundItemCommand{}, errs.NewForbiddenError(admin.ID(), "refund items")
	}

	return RefundItemCommand{
		itemID: itemID,
		admin:  admin,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c RefundItemCommand) Validate() error {
	return c.guard.Validate(ErrRefundItemCommandIsNotConstructed)
}

func (c RefundItemCommand) ItemID() kernel.UUID { return c.itemID }
func (c RefundItemCommand) Admin() kernel.Actor { return c.admin }
