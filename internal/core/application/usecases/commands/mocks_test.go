package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByItemID(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByEscrowID(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Capture(ctx context.Context, req ports.CaptureRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) Confirm(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}

func (m *MockPaymentGateway) Submit(ctx context.Context, instruction escrow.Instruction) error {
	args := m.Called(ctx, instruction)
	return args.Error(0)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) GetProduct(ctx context.Context, id kernel.UUID) (ports.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Product), args.Error(1)
}

type MockAddressBook struct{ mock.Mock }

func (m *MockAddressBook) GetAddress(ctx context.Context, id kernel.UUID) (ports.Address, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Address), args.Error(1)
}

type MockFeePolicy struct{ mock.Mock }

func (m *MockFeePolicy) FeeRate(ctx context.Context, sellerID kernel.UUID) (kernel.FeeRate, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(kernel.FeeRate), args.Error(1)
}

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func newLogger() (logrus.FieldLogger, *logrustest.Hook) {
	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

// placedOrder is a single item order by buyer for seller, priced 80.00 with a 10% fee.
type placedOrder struct {
	order   *order.Order
	itemID  kernel.UUID
	buyer   kernel.Actor
	seller  kernel.Actor
	courier kernel.Actor
	admin   kernel.Actor
}

func newPlacedOrder(t *testing.T) placedOrder {
	t.Helper()
	p := placedOrder{
		itemID:  kernel.NewUUID(),
		buyer:   newActor(t, kernel.RoleBuyer),
		seller:  newActor(t, kernel.RoleSeller),
		courier: newActor(t, kernel.RoleCourier),
		admin:   newActor(t, kernel.RoleAdmin),
	}

	product, err := order.NewProductSnapshot(kernel.NewUUID(), "Wool coat", "", "good", "clothing")
	require.NoError(t, err)
	address, err := order.NewAddressSnapshot("Ana", "3 Pine St", "Austin", "TX", "73301", "US", "")
	require.NoError(t, err)
	price, err := kernel.MoneyFromString("80.00")
	require.NoError(t, err)
	rate, err := kernel.NewFeeRate(decimal.RequireFromString("0.10"))
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), p.buyer.ID(), address, "card", []order.LineItem{{
		ItemID:      p.itemID,
		Product:     product,
		SellerID:    p.seller.ID(),
		Price:       price,
		ShippingFee: kernel.ZeroMoney(),
		FeeRate:     rate,
	}}, time.Now())
	require.NoError(t, err)

	p.order = o
	return p
}

// deliver moves the only item to Delivered an hour ago.
func (p placedOrder) deliver(t *testing.T) {
	t.Helper()
	now := time.Now().Add(-time.Hour)
	require.NoError(t, p.order.AdvanceItem(p.itemID, order.ActionProcess, p.seller, now))
	require.NoError(t, p.order.AdvanceItem(p.itemID, order.ActionHandOff, p.seller, now))
	require.NoError(t, p.order.AdvanceItem(p.itemID, order.ActionPickUp, p.courier, now))
	require.NoError(t, p.order.AdvanceItem(p.itemID, order.ActionDispatch, p.courier, now))
	_, err := p.order.ConfirmItemDelivery(p.itemID, p.courier, []string{"proof.jpg"}, now)
	require.NoError(t, err)
}

func (p placedOrder) escrowID(t *testing.T) kernel.UUID {
	t.Helper()
	item, err := p.order.Item(p.itemID)
	require.NoError(t, err)
	return item.Escrow().ID()
}
