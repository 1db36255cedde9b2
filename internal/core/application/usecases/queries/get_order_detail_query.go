package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderDetailQueryIsNotConstructed = errors.New(
		"GetOrderDetailQuery must be created via NewGetOrderDetailQuery constructor",
	)
)

// GetOrderDetailQuery reads one order as seen by its buyer, one of its
// sellers, or an administrator.
type GetOrderDetailQuery struct {
	orderID   kernel.UUID
	requester kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetOrderDetailQuery(orderID kernel.UUID, requester kernel.Actor) (GetOrderDetailQuery, error) {
	if err := errors.Join(orderID.Validate(), requester.Validate()); err != nil {
		return GetOrderDetailQuery{}, err
	}

	return GetOrderDetailQuery{
		orderID:   orderID,
		requester: requester,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderDetailQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDetailQueryIsNotConstructed)
}

func (q GetOrderDetailQuery) OrderID() kernel.UUID    { return q.orderID }
func (q GetOrderDetailQuery) Requester() kernel.Actor { return q.requester }

// GetOrderDetailQueryResponse is the order header with its items grouped by
// seller. Status is derived from the item statuses.
type GetOrderDetailQueryResponse struct {
	ID               kernel.UUID
	BuyerID          kernel.UUID
	Status           order.Status
	PaymentMethod    string
	PaymentReference string
	Address          AddressView
	ItemsTotal       kernel.Money
	ShippingTotal    kernel.Money
	PlatformFeeTotal kernel.Money
	GrandTotal       kernel.Money
	CreatedAt        time.Time
	Sellers          []SellerItemsView
}

type AddressView struct {
	Recipient  string
	Street     string
	City       string
	Region     string
	PostalCode string
	Country    string
	Phone      string
}

// SellerItemsView groups the items one seller has to fulfil.
type SellerItemsView struct {
	SellerID kernel.UUID
	Items    []OrderItemView
}

type OrderItemView struct {
	ID          kernel.UUID
	Position    int
	ProductID   kernel.UUID
	Title       string
	ImageURL    string
	Condition   string
	Category    string
	Price       kernel.Money
	ShippingFee kernel.Money
	Notes       string
	Status      order.Status
	CourierID   *kernel.UUID
	Escrow      EscrowView
}

// EscrowView exposes the escrow record of an item. TransactionID is the id
// administrators release by.
type EscrowView struct {
	TransactionID kernel.UUID
	Status        escrow.Status
	Held          kernel.Money
	Fee           kernel.Money
	Payout        kernel.Money
	DeliveredAt   *time.Time
	ReleasedAt    *time.Time
}
