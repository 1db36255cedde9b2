package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// CancelItemCommandHandler cancels one item and refunds its held price to the
// buyer. Other items of the order are not touched.
type CancelItemCommandHandler struct {
	uowFactory OrderUoWFactory
	payments   ports.PaymentGateway
	logger     logrus.FieldLogger
	now        func() time.Time
}

func NewCancelItemCommandHandler(
	uowFactory OrderUoWFactory,
	payments ports.PaymentGateway,
	logger logrus.FieldLogger,
) CancelItemCommandHandler {
	return CancelItemCommandHandler{
		uowFactory: uowFactory,
		payments:   payments,
		logger:     logger.WithField("command", "cancel_item"),
		now:        time.Now,
	}
}

func (h CancelItemCommandHandler) Handle(ctx context.Context, cmd CancelItemCommand) error {
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
	o, err := repo.GetByItemID(ctx, cmd.ItemID())
	if err != nil {
		return err
	}

	instruction, err := o.CancelItem(cmd.ItemID(), cmd.Actor(), h.now().UTC())
	if err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	logger := h.logger.WithFields(logrus.Fields{
		"order_id": o.ID().String(),
		"actor_id": cmd.Actor().ID().String(),
	})
	if err = submitInstruction(ctx, h.payments, logger, instruction); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
