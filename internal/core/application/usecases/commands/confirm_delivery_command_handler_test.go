package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConfirmDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	p := newPlacedOrder(t)
	now := time.Now()
	require.NoError(t, p.order.AdvanceItem(p.itemID, order.ActionProcess, p.seller, now))
	require.NoError(t, p.order.AdvanceItem(p.itemID, order.ActionHandOff, p.seller, now))
	require.NoError(t, p.order.AdvanceItem(p.itemID, order.ActionPickUp, p.courier, now))
	require.NoError(t, p.order.AdvanceItem(p.itemID, order.ActionDispatch, p.courier, now))

	cmd, err := commands.NewConfirmDeliveryCommand(p.itemID, p.courier, []string{"door.jpg", "parcel.jpg"})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetByItemID", ctx, p.itemID).Return(p.order, nil).Once(),
		repo.On("Update", ctx, p.order).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	logger, hook := newLogger()

	err = commands.NewConfirmDeliveryCommandHandler(factory, logger).Handle(ctx, cmd)

	require.NoError(t, err)
	item, _ := p.order.Item(p.itemID)
	assert.Equal(t, order.Delivered, item.Status())
	assert.Equal(t, escrow.Holding, item.Escrow().Status())
	require.Len(t, item.PendingProofs(), 1)
	assert.Equal(t, 2, hook.LastEntry().Data["photos"])
	uow.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestConfirmDeliveryCommandHandler_Handle_PendingItem(t *testing.T) {
	ctx := t.Context()
	p := newPlacedOrder(t)
	cmd, err := commands.NewConfirmDeliveryCommand(p.itemID, p.courier, []string{"door.jpg"})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("GetByItemID", ctx, p.itemID).Return(p.order, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	logger, _ := newLogger()

	err = commands.NewConfirmDeliveryCommandHandler(factory, logger).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	item, _ := p.order.Item(p.itemID)
	assert.Equal(t, order.Pending, item.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
