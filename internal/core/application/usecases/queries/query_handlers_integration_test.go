package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

// QueryHandlersTestSuite seeds orders through the repository and reads them
// back through the query handlers.
type QueryHandlersTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *orderrepo.GormOrderRepository

	buyer   kernel.Actor
	sellerA kernel.Actor
	sellerB kernel.Actor
	courier kernel.Actor
	admin   kernel.Actor
	base    time.Time
}

func (suite *QueryHandlersTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(orderrepo.Migrate(db))
	suite.repo = orderrepo.NewGormOrderRepository(db, noopTracker{})
}

func (suite *QueryHandlersTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, escrow_records, delivery_proofs, order_item_transitions",
	).Error)

	suite.buyer = suite.actor(kernel.RoleBuyer)
	suite.sellerA = suite.actor(kernel.RoleSeller)
	suite.sellerB = suite.actor(kernel.RoleSeller)
	suite.courier = suite.actor(kernel.RoleCourier)
	suite.admin = suite.actor(kernel.RoleAdmin)
	suite.base = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
}

func (suite *QueryHandlersTestSuite) TestGetOrderDetail_GroupsBySellerAndDerivesStatus() {
	ctx := suite.T().Context()
	o := suite.place(suite.base, suite.sellerA, suite.sellerB, suite.sellerA)
	items := o.Items()
	suite.deliver(o, items[0].ID(), suite.base.Add(time.Hour))
	suite.Require().NoError(suite.repo.Update(ctx, o))

	handler := queries.NewGetOrderDetailQueryHandler(suite.db)
	query, err := queries.NewGetOrderDetailQuery(o.ID(), suite.buyer)
	suite.Require().NoError(err)

	detail, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.True(detail.ID.IsEqual(o.ID()))
	suite.Equal(order.Pending, detail.Status)
	suite.Equal("Springfield", detail.Address.City)
	suite.Equal("30.00", detail.ItemsTotal.String())
	suite.Equal("6.00", detail.ShippingTotal.String())
	suite.Equal("36.00", detail.GrandTotal.String())
	suite.Equal("3.00", detail.PlatformFeeTotal.String())

	suite.Require().Len(detail.Sellers, 2)
	suite.True(detail.Sellers[0].SellerID.IsEqual(suite.sellerA.ID()))
	suite.Require().Len(detail.Sellers[0].Items, 2)
	suite.Equal(0, detail.Sellers[0].Items[0].Position)
	suite.Equal(2, detail.Sellers[0].Items[1].Position)
	suite.True(detail.Sellers[1].SellerID.IsEqual(suite.sellerB.ID()))

	delivered := detail.Sellers[0].Items[0]
	suite.Equal(order.Delivered, delivered.Status)
	suite.Equal(escrow.Holding, delivered.Escrow.Status)
	suite.True(delivered.Escrow.TransactionID.IsEqual(items[0].Escrow().ID()))
	suite.Equal("9.00", delivered.Escrow.Payout.String())
	suite.Require().NotNil(delivered.Escrow.DeliveredAt)
	suite.True(delivered.Escrow.DeliveredAt.Equal(suite.base.Add(time.Hour)))
	suite.Nil(delivered.Escrow.ReleasedAt)
	suite.Require().NotNil(delivered.CourierID)
	suite.True(delivered.CourierID.IsEqual(suite.courier.ID()))
}

func (suite *QueryHandlersTestSuite) TestGetOrderDetail_Access() {
	ctx := suite.T().Context()
	o := suite.place(suite.base, suite.sellerA)
	handler := queries.NewGetOrderDetailQueryHandler(suite.db)

	allowed := []kernel.Actor{suite.buyer, suite.sellerA, suite.admin}
	for _, requester := range allowed {
		query, err := queries.NewGetOrderDetailQuery(o.ID(), requester)
		suite.Require().NoError(err)
		_, err = handler.Handle(ctx, query)
		suite.Require().NoError(err, requester.Role().String())
	}

	denied := []kernel.Actor{suite.sellerB, suite.courier, suite.actor(kernel.RoleBuyer)}
	for _, requester := range denied {
		query, err := queries.NewGetOrderDetailQuery(o.ID(), requester)
		suite.Require().NoError(err)
		_, err = handler.Handle(ctx, query)
		suite.Require().ErrorIs(err, errs.ErrForbidden, requester.Role().String())
	}

	query, err := queries.NewGetOrderDetailQuery(kernel.NewUUID(), suite.buyer)
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersTestSuite) TestGetOrderDetail_CorruptStatusIsAnError() {
	ctx := suite.T().Context()
	o := suite.place(suite.base, suite.sellerA)
	suite.Require().NoError(suite.db.Exec("UPDATE order_items SET status = 99").Error)

	query, err := queries.NewGetOrderDetailQuery(o.ID(), suite.buyer)
	suite.Require().NoError(err)
	_, err = queries.NewGetOrderDetailQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().ErrorIs(err, errs.ErrCorruptData)
	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *QueryHandlersTestSuite) TestGetOrderDetail_CorruptOrderStillForbidsStrangers() {
	ctx := suite.T().Context()
	o := suite.place(suite.base, suite.sellerA)
	suite.Require().NoError(suite.db.Exec("UPDATE order_items SET status = 99").Error)

	query, err := queries.NewGetOrderDetailQuery(o.ID(), suite.actor(kernel.RoleSeller))
	suite.Require().NoError(err)
	_, err = queries.NewGetOrderDetailQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().ErrorIs(err, errs.ErrForbidden)
	suite.Require().NotErrorIs(err, errs.ErrCorruptData)
}

func (suite *QueryHandlersTestSuite) TestListPickupItems_PoolAndOwnItems() {
	ctx := suite.T().Context()
	otherCourier := suite.actor(kernel.RoleCourier)

	older := suite.place(suite.base, suite.sellerA, suite.sellerA, suite.sellerA)
	newer := suite.place(suite.base.Add(time.Hour), suite.sellerB, suite.sellerB)

	// older: awaiting pickup, carried by our courier, carried by another courier
	suite.handOff(older, older.Items()[0].ID())
	suite.handOff(older, older.Items()[1].ID())
	suite.advance(older, older.Items()[1].ID(), order.ActionPickUp, suite.courier)
	suite.handOff(older, older.Items()[2].ID())
	suite.advance(older, older.Items()[2].ID(), order.ActionPickUp, otherCourier)
	suite.Require().NoError(suite.repo.Update(ctx, older))

	// newer: awaiting pickup, and delivered by our courier
	suite.handOff(newer, newer.Items()[0].ID())
	suite.deliver(newer, newer.Items()[1].ID(), suite.base.Add(2*time.Hour))
	suite.Require().NoError(suite.repo.Update(ctx, newer))

	query, err := queries.NewListPickupItemsQuery(suite.courier.ID(), suite.courier)
	suite.Require().NoError(err)
	items, err := queries.NewListPickupItemsQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(items, 3)
	suite.True(items[0].ItemID.IsEqual(older.Items()[0].ID()))
	suite.Equal(order.AwaitingPickup, items[0].Status)
	suite.True(items[1].ItemID.IsEqual(older.Items()[1].ID()))
	suite.Equal(order.InWarehouse, items[1].Status)
	suite.True(items[2].ItemID.IsEqual(newer.Items()[0].ID()))
	suite.Equal("12 Market St", items[2].Address.Street)
	suite.True(items[2].SellerID.IsEqual(suite.sellerB.ID()))
}

func (suite *QueryHandlersTestSuite) TestListAwaitingRelease_PagesNewestFirst() {
	ctx := suite.T().Context()
	o := suite.place(suite.base, suite.sellerA, suite.sellerA, suite.sellerB, suite.sellerB)
	items := o.Items()
	for i, item := range items[:3] {
		suite.deliver(o, item.ID(), suite.base.Add(time.Duration(i+1)*time.Hour))
	}
	_, err := o.ReleaseEscrow(items[2].Escrow().ID(), suite.admin, suite.base.Add(5*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Update(ctx, o))

	handler := queries.NewListAwaitingReleaseQueryHandler(suite.db)

	query, err := queries.NewListAwaitingReleaseQuery(suite.admin, 1, 1)
	suite.Require().NoError(err)
	page, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(int64(2), page.Total)
	suite.Require().Len(page.Items, 1)
	first := page.Items[0]
	suite.True(first.TransactionID.IsEqual(items[1].Escrow().ID()))
	suite.True(first.ItemID.IsEqual(items[1].ID()))
	suite.True(first.OrderID.IsEqual(o.ID()))
	suite.True(first.BuyerID.IsEqual(suite.buyer.ID()))
	suite.True(first.SellerID.IsEqual(suite.sellerA.ID()))
	suite.Equal("10.00", first.Held.String())
	suite.Equal("1.00", first.Fee.String())
	suite.Equal("9.00", first.Payout.String())
	suite.True(first.DeliveredAt.Equal(suite.base.Add(2 * time.Hour)))

	query, err = queries.NewListAwaitingReleaseQuery(suite.admin, 2, 1)
	suite.Require().NoError(err)
	page, err = handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(page.Items, 1)
	suite.True(page.Items[0].ItemID.IsEqual(items[0].ID()))

	query, err = queries.NewListAwaitingReleaseQuery(suite.admin, 3, 1)
	suite.Require().NoError(err)
	page, err = handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Empty(page.Items)
	suite.Equal(int64(2), page.Total)
}

func (suite *QueryHandlersTestSuite) TestGetReleaseBacklog() {
	ctx := suite.T().Context()
	handler := queries.NewGetReleaseBacklogQueryHandler(suite.db)

	empty, err := handler.Handle(ctx, queries.NewGetReleaseBacklogQuery(suite.base))
	suite.Require().NoError(err)
	suite.Equal(int64(0), empty.Count)
	suite.True(empty.HeldTotal.IsZero())
	suite.Nil(empty.OldestDeliveredAt)

	o := suite.place(suite.base, suite.sellerA, suite.sellerB, suite.sellerB)
	suite.deliver(o, o.Items()[0].ID(), suite.base.Add(time.Hour))
	suite.deliver(o, o.Items()[1].ID(), suite.base.Add(10*time.Hour))
	suite.Require().NoError(suite.repo.Update(ctx, o))

	stats, err := handler.Handle(ctx, queries.NewGetReleaseBacklogQuery(suite.base.Add(5*time.Hour)))
	suite.Require().NoError(err)

	suite.Equal(int64(2), stats.Count)
	suite.Equal(int64(1), stats.Overdue)
	suite.Equal("20.00", stats.HeldTotal.String())
	suite.Require().NotNil(stats.OldestDeliveredAt)
	suite.True(stats.OldestDeliveredAt.Equal(suite.base.Add(time.Hour)))
}

func (suite *QueryHandlersTestSuite) actor(role kernel.Role) kernel.Actor {
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	suite.Require().NoError(err)
	return a
}

// place stores an order with one 10.00 item (2.00 shipping, 10% fee) per seller given.
func (suite *QueryHandlersTestSuite) place(at time.Time, sellers ...kernel.Actor) *order.Order {
	address, err := order.NewAddressSnapshot("Dana Lee", "12 Market St", "Springfield", "IL", "62701", "US", "")
	suite.Require().NoError(err)
	rate, err := kernel.NewFeeRate(decimal.RequireFromString("0.10"))
	suite.Require().NoError(err)
	price, err := kernel.MoneyFromString("10.00")
	suite.Require().NoError(err)
	shipping, err := kernel.MoneyFromString("2.00")
	suite.Require().NoError(err)

	lines := make([]order.LineItem, 0, len(sellers))
	for _, seller := range sellers {
		product, productErr := order.NewProductSnapshot(kernel.NewUUID(), "Leather boots", "", "good", "shoes")
		suite.Require().NoError(productErr)
		lines = append(lines, order.LineItem{
			ItemID:      kernel.NewUUID(),
			Product:     product,
			SellerID:    seller.ID(),
			Price:       price,
			ShippingFee: shipping,
			FeeRate:     rate,
		})
	}

	o, err := order.NewOrder(kernel.NewUUID(), suite.buyer.ID(), address, "card", lines, at)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(suite.T().Context(), o))
	return o
}

func (suite *QueryHandlersTestSuite) sellerOf(o *order.Order, itemID kernel.UUID) kernel.Actor {
	item, err := o.Item(itemID)
	suite.Require().NoError(err)
	seller, err := kernel.NewActor(item.SellerID(), kernel.RoleSeller)
	suite.Require().NoError(err)
	return seller
}

func (suite *QueryHandlersTestSuite) advance(o *order.Order, itemID kernel.UUID, action order.Action, actor kernel.Actor) {
	suite.Require().NoError(o.AdvanceItem(itemID, action, actor, suite.base))
}

func (suite *QueryHandlersTestSuite) handOff(o *order.Order, itemID kernel.UUID) {
	seller := suite.sellerOf(o, itemID)
	suite.advance(o, itemID, order.ActionProcess, seller)
	suite.advance(o, itemID, order.ActionHandOff, seller)
}

func (suite *QueryHandlersTestSuite) deliver(o *order.Order, itemID kernel.UUID, at time.Time) {
	suite.handOff(o, itemID)
	suite.advance(o, itemID, order.ActionPickUp, suite.courier)
	suite.advance(o, itemID, order.ActionDispatch, suite.courier)
	_, err := o.ConfirmItemDelivery(itemID, suite.courier, []string{"s3://proofs/1.jpg"}, at)
	suite.Require().NoError(err)
}

func TestQueryHandlers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(QueryHandlersTestSuite))
}
