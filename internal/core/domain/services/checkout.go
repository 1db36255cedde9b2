package services

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// Listing is a catalog product as seen at checkout, together with the seller's
// current platform fee rate.
type Listing struct {
	Product     order.ProductSnapshot
	SellerID    kernel.UUID
	Price       kernel.Money
	ShippingFee kernel.Money
	FeeRate     kernel.FeeRate
	Listed      bool
	Sold        bool
}

// CartLine is one listing the buyer wants, with an optional note for the seller.
type CartLine struct {
	Listing Listing
	Notes   string
}

// Checkout is a domain service that turns a cart of marketplace listings into
// an Order.
//
// Business rules:
//   - Every listing must still be listed and not sold
//   - A buyer cannot purchase their own listing
//   - The cart must not be empty or contain the same product twice
//
// Example usage:
//
//	checkout := services.NewCheckout()
//	o, err := checkout.Place(orderID, buyerID, address, "card", lines, time.Now())
//	if errors.Is(err, errs.ErrProductUnavailable) {
//	    // tell the buyer which listing is gone
//	    return
//	}
type Checkout struct{}

func NewCheckout() Checkout {
	return Checkout{}
}

// Place checks availability of every listing and creates the order.
//
// Parameters:
//   - orderID: id of the new order
//   - buyerID: the purchasing user
//   - address: shipping address snapshot, already checked to belong to the buyer
//   - paymentMethod: the payment method the buyer selected
//   - lines: the cart
//   - at: checkout time
//
// Returns:
//   - *order.Order: a Pending order with every escrow record Holding
//   - error: errs.ErrProductUnavailable, errs.ErrEmptyCart or validation errors
func (c Checkout) Place(
	orderID, buyerID kernel.UUID,
	address order.AddressSnapshot,
	paymentMethod string,
	lines []CartLine,
	at time.Time,
) (*order.Order, error) {
	if len(lines) == 0 {
		return nil, errs.ErrEmptyCart
	}

	items := make([]order.LineItem, 0, len(lines))
	for _, line := range lines {
		if err := c.checkAvailable(line.Listing, buyerID); err != nil {
			return nil, err
		}

		items = append(items, order.LineItem{
			ItemID:      kernel.NewUUID(),
			Product:     line.Listing.Product,
			SellerID:    line.Listing.SellerID,
			Price:       line.Listing.Price,
			ShippingFee: line.Listing.ShippingFee,
			FeeRate:     line.Listing.FeeRate,
			Notes:       line.Notes,
		})
	}

	return order.NewOrder(orderID, buyerID, address, paymentMethod, items, at)
}

func (c Checkout) checkAvailable(listing Listing, buyerID kernel.UUID) error {
	productID := listing.Product.ProductID()

	switch {
	case listing.Sold:
		return errs.NewProductUnavailableError(productID, "is already sold")
	case !listing.Listed:
		return errs.NewProductUnavailableError(productID, "is not listed for sale")
	case listing.SellerID.IsEqual(buyerID):
		return errs.NewProductUnavailableError(productID, "is your own listing")
	}
	return nil
}
