package commands

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// AdvanceItemCommandHandler applies a seller or courier step to one item.
// The item is written with a version check, so of two concurrent steps on
// the same item exactly one commits and the other gets a StateConflictError.
type AdvanceItemCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     logrus.FieldLogger
	now        func() time.Time
}

func NewAdvanceItemCommandHandler(uowFactory OrderUoWFactory, logger logrus.FieldLogger) AdvanceItemCommandHandler {
	return AdvanceItemCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.WithField("command", "advance_item"),
		now:        time.Now,
	}
}

func (h AdvanceItemCommandHandler) Handle(ctx context.Context, cmd AdvanceItemCommand) error {
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

	if err = o.AdvanceItem(cmd.ItemID(), cmd.Action(), cmd.Actor(), h.now().UTC()); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"order_id": o.ID().String(),
		"item_id":  cmd.ItemID().String(),
		"action":   cmd.Action().String(),
		"actor_id": cmd.Actor().ID().String(),
	}).Debug("item advanced")

	return nil
}
