package http_test

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/mock"
)

type MockCommandHandler[C any] struct {
	mock.Mock
}

func (m *MockCommandHandler[C]) Handle(ctx context.Context, cmd C) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

type MockQueryHandler[Q any, R any] struct {
	mock.Mock
}

func (m *MockQueryHandler[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	args := m.Called(ctx, query)
	var result R
	if v := args.Get(0); v != nil {
		result = v.(R)
	}
	return result, args.Error(1)
}

type mockHandlers struct {
	createOrder         *MockCommandHandler[commands.CreateOrderCommand]
	advanceItem         *MockCommandHandler[commands.AdvanceItemCommand]
	confirmDelivery     *MockCommandHandler[commands.ConfirmDeliveryCommand]
	cancelItem          *MockCommandHandler[commands.CancelItemCommand]
	refundItem          *MockCommandHandler[commands.RefundItemCommand]
	releaseEscrow       *MockCommandHandler[commands.ReleaseEscrowCommand]
	getOrderDetail      *MockQueryHandler[queries.GetOrderDetailQuery, queries.GetOrderDetailQueryResponse]
	listPickupItems     *MockQueryHandler[queries.ListPickupItemsQuery, []queries.ListPickupItemsQueryResponse]
	listAwaitingRelease *MockQueryHandler[queries.ListAwaitingReleaseQuery, queries.ListAwaitingReleaseQueryResponse]
}

func newMockHandlers() *mockHandlers {
	return &mockHandlers{
		createOrder:         new(MockCommandHandler[commands.CreateOrderCommand]),
		advanceItem:         new(MockCommandHandler[commands.AdvanceItemCommand]),
		confirmDelivery:     new(MockCommandHandler[commands.ConfirmDeliveryCommand]),
		cancelItem:          new(MockCommandHandler[commands.CancelItemCommand]),
		refundItem:          new(MockCommandHandler[commands.RefundItemCommand]),
		releaseEscrow:       new(MockCommandHandler[commands.ReleaseEscrowCommand]),
		getOrderDetail:      new(MockQueryHandler[queries.GetOrderDetailQuery, queries.GetOrderDetailQueryResponse]),
		listPickupItems:     new(MockQueryHandler[queries.ListPickupItemsQuery, []queries.ListPickupItemsQueryResponse]),
		listAwaitingRelease: new(MockQueryHandler[queries.ListAwaitingReleaseQuery, queries.ListAwaitingReleaseQueryResponse]),
	}
}
