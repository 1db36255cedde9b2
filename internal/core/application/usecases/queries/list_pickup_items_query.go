package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrListPickupItemsQueryIsNotConstructed = errors.New(
		"ListPickupItemsQuery must be created via NewListPickupItemsQuery constructor",
	)
)

// ListPickupItemsQuery returns the work list of one courier: every item
// waiting for pickup plus the items that courier already carries.
//
// Example:
//
//	query, err := NewListPickupItemsQuery(courierID, requester)
//	if err != nil {
//	    return err // Forbidden unless requester is that courier or an admin
//	}
//	items, err := handler.Handle(ctx, query)
type ListPickupItemsQuery struct {
	courierID kernel.UUID
	requester kernel.Actor

	guard guard.ConstructorGuard
}

func NewListPickupItemsQuery(courierID kernel.UUID, requester kernel.Actor) (ListPickupItemsQuery, error) {
	if err := errors.Join(courierID.Validate(), requester.Validate()); err != nil {
		return ListPickupItemsQuery{}, err
	}
	if !requester.IsAdmin() && !requester.Is(courierID, kernel.RoleCourier) {
		return ListPickupItemsQuery{}, errs.NewForbiddenError(requester.ID(), "list pickup items of another courier")
	}

	return ListPickupItemsQuery{
		courierID: courierID,
		requester: requester,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q ListPickupItemsQuery) Validate() error {
	return q.guard.Validate(ErrListPickupItemsQueryIsNotConstructed)
}

func (q ListPickupItemsQuery) CourierID() kernel.UUID { return q.courierID }

type ListPickupItemsQueryResponse struct {
	ItemID         kernel.UUID
	OrderID        kernel.UUID
	SellerID       kernel.UUID
	Status         order.Status
	Title          string
	Notes          string
	Address        AddressView
	OrderCreatedAt time.Time
}
