package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReleaseEscrowCommandIsNotConstructed = errors.New(
	"ReleaseEscrowCommand must be created via NewReleaseEscrowCommand constructor",
)

// ReleaseEscrowCommand asks to pay a held escrow record out to the seller.
// The transaction id is the escrow record id shown in the release queue.
//
// Example:
//
//	cmd, err := NewReleaseEscrowCommand(transactionID, admin)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrAlreadyReleased):
//	    // someone else released it first
//	case errors.Is(err, errs.ErrStateConflict):
//	    // re-read the queue and retry
//	}
type ReleaseEscrowCommand struct { //nolint:recvcheck //using for validation
	transactionID kernel.UUID
	admin         kernel.Actor

	guard guard.ConstructorGuard
}

// NewReleaseEscrowCommand returns a ForbiddenError for anyone but an administrator.
func NewReleaseEscrowCommand(transactionID kernel.UUID, admin kernel.Actor) (ReleaseEscrowCommand, error) {
	if err := errors.Join(transactionID.Validate(), admin.Validate()); err != nil {
		return ReleaseEscrowCommand{}, err
	}
	if !admin.IsAdmin() {
		return ReleaseEscrowCommand{}, errs.NewForbiddenError(admin.ID(), "release escrow")
	}

	return ReleaseEscrowCommand{
		transactionID: transactionID,
		admin:         admin,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c ReleaseEscrowCommand) Validate() error {
	return c.guard.Validate(ErrReleaseEscrowCommandIsNotConstructed)
}

func (c ReleaseEscrowCommand) TransactionID() kernel.UUID { return c.transactionID }
func (c ReleaseEscrowCommand) Admin() kernel.Actor        { return c.admin }
