package order

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ProductSnapshot copies the listing details at checkout so later catalog
// edits never change what the buyer paid for.
type ProductSnapshot struct {
	productID kernel.UUID
	title     string
	imageURL  string
	condition string
	category  string
}

func NewProductSnapshot(productID kernel.UUID, title, imageURL, condition, category string) (ProductSnapshot, error) {
	if err := productID.Validate(); err != nil {
		return ProductSnapshot{}, err
	}
	if strings.TrimSpace(title) == "" {
		return ProductSnapshot{}, errs.NewValueIsRequiredError("product title")
	}
	return ProductSnapshot{
		productID: productID,
		title:     title,
		imageURL:  imageURL,
		condition: condition,
		category:  category,
	}, nil
}

func (p ProductSnapshot) ProductID() kernel.UUID { return p.productID }
func (p ProductSnapshot) Title() string          { return p.title }
func (p ProductSnapshot) ImageURL() string       { return p.imageURL }
func (p ProductSnapshot) Condition() string      { return p.condition }
func (p ProductSnapshot) Category() string       { return p.category }

// AddressSnapshot is the shipping address copied from the buyer's address book
// at checkout. It is immutable for the life of the order.
type AddressSnapshot struct {
	recipient  string
	street     string
	city       string
	region     string
	postalCode string
	country    string
	phone      string
}

// NewAddressSnapshot requires recipient, street, city and country; region,
// postal code and phone are optional.
func NewAddressSnapshot(recipient, street, city, region, postalCode, country, phone string) (AddressSnapshot, error) {
	if err := errors.Join(
		required("recipient", recipient),
		required("street", street),
		required("city", city),
		required("country", country),
	); err != nil {
		return AddressSnapshot{}, err
	}

	return AddressSnapshot{
		recipient:  recipient,
		street:     street,
		city:       city,
		region:     region,
		postalCode: postalCode,
		country:    country,
		phone:      phone,
	}, nil
}

func (a AddressSnapshot) Recipient() string  { return a.recipient }
func (a AddressSnapshot) Street() string     { return a.street }
func (a AddressSnapshot) City() string       { return a.city }
func (a AddressSnapshot) Region() string     { return a.region }
func (a AddressSnapshot) PostalCode() string { return a.postalCode }
func (a AddressSnapshot) Country() string    { return a.country }
func (a AddressSnapshot) Phone() string      { return a.phone }

// validate rejects the zero AddressSnapshot.
func (a AddressSnapshot) validate() error {
	if a.recipient == "" {
		return errs.NewValueIsRequiredError("shipping address")
	}
	return nil
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
