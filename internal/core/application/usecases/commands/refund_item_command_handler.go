package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// RefundItemCommandHandler refunds an item's full held amount to the buyer.
// A Delivered item can only be refunded within the dispute window.
type RefundItemCommandHandler struct {
	uowFactory    OrderUoWFactory
	payments      ports.PaymentGateway
	disputeWindow time.Duration
	logger        logrus.FieldLogger
	now           func() time.Time
}

func NewRefundItemCommandHandler(
	uowFactory OrderUoWFactory,
	payments ports.PaymentGateway,
	disputeWindow time.Duration,
	logger logrus.FieldLogger,
) RefundItemCommandHandler {
	return RefundItemCommandHandler{
		uowFactory:    uowFactory,
		payments:      payments,
		disputeWindow: disputeWindow,
		logger:        logger.WithField("command", "refund_item"),
		now:           time.Now,
	}
}

func (h RefundItemCommandHandler) Handle(ctx context.Context, cmd RefundItemCommand) error {
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

	instruction, err := o.RefundItem(cmd.ItemID(), cmd.Admin(), h.now().UTC(), h.disputeWindow)
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
