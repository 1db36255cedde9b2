package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// ReleaseEscrowCommandHandler pays a delivered item's escrow out to its seller.
//
// Exactly one payout per record: a second release fails with AlreadyReleased,
// and of two concurrent releases the loser fails the version check with a
// StateConflictError before the gateway is called.
type ReleaseEscrowCommandHandler struct {
	uowFactory OrderUoWFactory
	payments   ports.PaymentGateway
	logger     logrus.FieldLogger
	now        func() time.Time
}

func NewReleaseEscrowCommandHandler(
	uowFactory OrderUoWFactory,
	payments ports.PaymentGateway,
	logger logrus.FieldLogger,
) ReleaseEscrowCommandHandler {
	return ReleaseEscrowCommandHandler{
		uowFactory: uowFactory,
		payments:   payments,
		logger:     logger.WithField("command", "release_escrow"),
		now:        time.Now,
	}
}

func (h ReleaseEscrowCommandHandler) Handle(ctx context.Context, cmd ReleaseEscrowCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetByEscrowID(ctx, cmd.TransactionID())
	if err != nil {
		return err
	}

	instruction, err := o.ReleaseEscrow(cmd.TransactionID(), cmd.Admin(), h.now().UTC())
	if err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	logger := h.logger.WithFields(logrus.Fields{
		"order_id": o.ID().String(),
		"admin_id": cmd.Admin().ID().String(),
	})
	if err = submitInstruction(ctx, h.payments, logger, instruction); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
