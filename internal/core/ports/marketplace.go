package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// Listing statuses reported by the catalog.
const (
	ProductListed   = "listed"
	ProductSold     = "sold"
	ProductUnlisted = "unlisted"
)

// Product is a catalog listing as returned by the marketplace.
type Product struct {
	ID          kernel.UUID
	SellerID    kernel.UUID
	Title       string
	ImageURL    string
	Condition   string
	Category    string
	Price       kernel.Money
	ShippingFee kernel.Money
	Status      string
}

// Address is an entry of a user's address book.
type Address struct {
	ID         kernel.UUID
	OwnerID    kernel.UUID
	Recipient  string
	Street     string
	City       string
	Region     string
	PostalCode string
	Country    string
	Phone      string
}

// Catalog reads product listings.
type Catalog interface {
	// GetProduct returns errs.ObjectNotFoundError for unknown products.
	GetProduct(ctx context.Context, id kernel.UUID) (Product, error)
}

// AddressBook reads saved shipping addresses.
type AddressBook interface {
	// GetAddress returns errs.ObjectNotFoundError for unknown addresses.
	GetAddress(ctx context.Context, id kernel.UUID) (Address, error)
}

// FeePolicy knows the platform fee rate of each seller, which depends on
// their membership tier.
type FeePolicy interface {
	FeeRate(ctx context.Context, sellerID kernel.UUID) (kernel.FeeRate, error)
}
