package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CartEntry is one product the buyer wants to purchase.
type CartEntry struct {
	ProductID kernel.UUID
	Notes     string
}

// CreateOrderCommand is a buyer's checkout request.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), buyer, addressID, "card", []CartEntry{
//	    {ProductID: productID, Notes: "please wrap"},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog, addresses, fees, payments, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("checkout failed: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	buyer         kernel.Actor
	addressID     kernel.UUID
	paymentMethod string
	entries       []CartEntry

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the checkout input. The cart must not be
// empty or list the same product twice.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	buyer kernel.Actor,
	addressID kernel.UUID,
	paymentMethod string,
	entries []CartEntry,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setBuyer(buyer),
		cmd.setAddressID(addressID),
		cmd.setPaymentMethod(paymentMethod),
		cmd.setEntries(entries),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Buyer() kernel.Actor {
	return c.buyer
}

func (c CreateOrderCommand) AddressID() kernel.UUID {
	return c.addressID
}

func (c CreateOrderCommand) PaymentMethod() string {
	return c.paymentMethod
}

// Entries returns a copy of the cart.
func (c CreateOrderCommand) Entries() []CartEntry {
	return append([]CartEntry(nil), c.entries...)
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setBuyer(buyer kernel.Actor) error {
	if err := buyer.Validate(); err != nil {
		return err
	}
	if buyer.Role() != kernel.RoleBuyer {
		return errs.NewForbiddenError(buyer.ID(), "place orders as "+buyer.Role().String())
	}

	c.buyer = buyer
	return nil
}

func (c *CreateOrderCommand) setAddressID(addressID kernel.UUID) error {
	if err := addressID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shipping address id", err)
	}

	c.addressID = addressID
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method string) error {
	if strings.TrimSpace(method) == "" {
		return errs.NewValueIsRequiredError("payment method")
	}

	c.paymentMethod = method
	return nil
}

func (c *CreateOrderCommand) setEntries(entries []CartEntry) error {
	if len(entries) == 0 {
		return errs.ErrEmptyCart
	}

	seen := make(map[kernel.UUID]struct{}, len(entries))
	for _, entry := range entries {
		if err := entry.ProductID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("product id", err)
		}
		if _, dup := seen[entry.ProductID]; dup {
			return errs.NewValueIsInvalidErrorWithCause(
				"items",
				fmt.Errorf("product %s appears more than once", entry.ProductID),
			)
		}
		seen[entry.ProductID] = struct{}{}
	}

	c.entries = append([]CartEntry(nil), entries...)
	return nil
}
