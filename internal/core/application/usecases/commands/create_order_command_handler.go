package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/sirupsen/logrus"
)

// CreateOrderCommandHandler checks the cart against the marketplace, captures
// the buyer's payment and stores the order. It is all or nothing: if the
// capture or its confirmation fails, the order is never committed.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog, addresses, fees, payments, logger)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrProductUnavailable):
//	    // a listing was sold meanwhile
//	case errors.Is(err, errs.ErrExternalPayment):
//	    // the card was declined; nothing was stored
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.Catalog
	addresses  ports.AddressBook
	fees       ports.FeePolicy
	payments   ports.PaymentGateway
	checkout   services.Checkout
	logger     logrus.FieldLogger
	now        func() time.Time
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.Catalog,
	addresses ports.AddressBook,
	fees ports.FeePolicy,
	payments ports.PaymentGateway,
	logger logrus.FieldLogger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		addresses:  addresses,
		fees:       fees,
		payments:   payments,
		checkout:   services.NewCheckout(),
		logger:     logger.WithField("command", "create_order"),
		now:        time.Now,
	}
}

// Handle resolves the address and listings, builds the order and then, in one
// transaction, captures the payment, stores the order and confirms the capture.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	address, err := h.shippingAddress(ctx, cmd)
	if err != nil {
		return err
	}

	lines := make([]services.CartLine, 0, len(cmd.Entries()))
	for _, entry := range cmd.Entries() {
		listing, err := h.listing(ctx, entry)
		if err != nil {
			return err
		}
		lines = append(lines, services.CartLine{Listing: listing, Notes: entry.Notes})
	}

	o, err := h.checkout.Place(cmd.OrderID(), cmd.Buyer().ID(), address, cmd.PaymentMethod(), lines, h.now().UTC())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	reference, err := h.payments.Capture(ctx, ports.CaptureRequest{
		OrderID:        o.ID(),
		BuyerID:        o.BuyerID(),
		Method:         o.PaymentMethod(),
		Amount:         o.GrandTotal(),
		IdempotencyKey: o.ID().String(),
	})
	if err != nil {
		return errs.NewExternalPaymentError("capture", err)
	}
	if err = o.RecordPayment(reference); err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = h.payments.Confirm(ctx, reference); err != nil {
		return errs.NewExternalPaymentError("confirm", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"order_id":    o.ID().String(),
		"buyer_id":    o.BuyerID().String(),
		"items":       len(o.Items()),
		"grand_total": o.GrandTotal().String(),
		"payment_ref": reference,
	}).Info("order placed, payment captured into escrow")

	return nil
}

func (h CreateOrderCommandHandler) shippingAddress(ctx context.Context, cmd CreateOrderCommand) (order.AddressSnapshot, error) {
	addr, err := h.addresses.GetAddress(ctx, cmd.AddressID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.AddressSnapshot{}, errs.NewInvalidAddressError(cmd.AddressID(), "does not exist")
	}
	if err != nil {
		return order.AddressSnapshot{}, err
	}
	if !addr.OwnerID.IsEqual(cmd.Buyer().ID()) {
		return order.AddressSnapshot{}, errs.NewInvalidAddressError(cmd.AddressID(), "belongs to another user")
	}

	snapshot, err := order.NewAddressSnapshot(
		addr.Recipient, addr.Street, addr.City, addr.Region, addr.PostalCode, addr.Country, addr.Phone,
	)
	if err != nil {
		return order.AddressSnapshot{}, errors.Join(errs.NewInvalidAddressError(cmd.AddressID(), "is incomplete"), err)
	}
	return snapshot, nil
}

func (h CreateOrderCommandHandler) listing(ctx context.Context, entry CartEntry) (services.Listing, error) {
	product, err := h.catalog.GetProduct(ctx, entry.ProductID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return services.Listing{}, errs.NewProductUnavailableError(entry.ProductID, "does not exist")
	}
	if err != nil {
		return services.Listing{}, err
	}

	snapshot, err := order.NewProductSnapshot(product.ID, product.Title, product.ImageURL, product.Condition, product.Category)
	if err != nil {
		return services.Listing{}, err
	}

	rate, err := h.fees.FeeRate(ctx, product.SellerID)
	if err != nil {
		return services.Listing{}, err
	}

	return services.Listing{
		Product:     snapshot,
		SellerID:    product.SellerID,
		Price:       product.Price,
		ShippingFee: product.ShippingFee,
		FeeRate:     rate,
		Listed:      product.Status == ports.ProductListed,
		Sold:        product.Status == ports.ProductSold,
	}, nil
}
