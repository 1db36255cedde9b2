package commands

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// ConfirmDeliveryCommandHandler records the delivery proof and moves the item
// to Delivered. The escrow stays Holding; it only becomes eligible for an
// administrator's release.
type ConfirmDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     logrus.FieldLogger
	now        func() time.Time
}

func NewConfirmDeliveryCommandHandler(uowFactory OrderUoWFactory, logger logrus.FieldLogger) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.WithField("command", "confirm_delivery"),
		now:        time.Now,
	}
}

func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) error {
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

	proof, err := o.ConfirmItemDelivery(cmd.ItemID(), cmd.Courier(), cmd.Photos(), h.now().UTC())
	if err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"order_id":   o.ID().String(),
		"item_id":    cmd.ItemID().String(),
		"courier_id": cmd.Courier().ID().String(),
		"proof_id":   proof.ID().String(),
		"photos":     len(proof.Photos()),
	}).Info("delivery confirmed, escrow awaiting release")

	return nil
}
