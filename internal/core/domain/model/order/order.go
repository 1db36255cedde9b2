package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/ddd"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// LineItem is one validated cart entry handed to NewOrder.
type LineItem struct {
	ItemID      kernel.UUID
	Product     ProductSnapshot
	SellerID    kernel.UUID
	Price       kernel.Money
	ShippingFee kernel.Money
	FeeRate     kernel.FeeRate
	Notes       string
}

// Order is the aggregate root of one checkout. It owns the buyer, the
// shipping address snapshot, the items and, through them, their escrow records.
//
// Order follows these invariants:
//   - At least one item, each for a different product, none sold by the buyer
//   - The shipping address and item amounts never change after checkout
//   - The overall status is always DeriveStatus of the item statuses
//   - Item state changes only through the Order methods below
//
// The Order struct uses private fields so these invariants cannot be bypassed.
type Order struct {
	id      kernel.UUID
	buyerID kernel.UUID

	address          AddressSnapshot
	paymentMethod    string
	paymentReference string

	items  []*Item
	status Status

	createdAt time.Time

	events []ddd.DomainEvent

	isConstructed bool
}

// NewOrder creates an order with all items Pending and every escrow record
// Holding, and records an OrderPlacedEvent.
//
// Parameters:
//   - id: the order id, also used as the payment capture idempotency key
//   - buyerID: the purchasing user
//   - address: shipping address copied at checkout
//   - paymentMethod: the method the buyer chose, e.g. "card"
//   - lines: validated cart entries with their seller fee rates
//   - createdAt: checkout time
//
// Returns:
//   - *Order: the new order
//   - error: errs.ErrEmptyCart for no lines, ProductUnavailable for the buyer's
//     own listing, or validation errors
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), buyerID, address, "card", lines, time.Now())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(o.Status()) // Pending
func NewOrder(
	id, buyerID kernel.UUID,
	address AddressSnapshot,
	paymentMethod string,
	lines []LineItem,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		address:       address,
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setBuyerID(buyerID),
		o.setPaymentMethod(paymentMethod),
		address.validate(),
	); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, errs.ErrEmptyCart
	}

	seen := make(map[kernel.UUID]struct{}, len(lines))
	for pos, line := range lines {
		productID := line.Product.ProductID()
		if _, dup := seen[productID]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"items",
				fmt.Errorf("product %s appears more than once", productID),
			)
		}
		seen[productID] = struct{}{}

		if line.SellerID.IsEqual(buyerID) {
			return nil, errs.NewProductUnavailableError(productID, "is your own listing")
		}

		item, err := NewItem(line.ItemID, id, pos, line.Product, line.SellerID,
			line.Price, line.ShippingFee, line.FeeRate, line.Notes)
		if err != nil {
			return nil, err
		}
		o.items = append(o.items, item)
	}

	o.refreshStatus()
	o.raise(OrderPlacedEvent{
		OrderID:    id.String(),
		BuyerID:    buyerID.String(),
		ItemCount:  len(o.items),
		GrandTotal: o.GrandTotal().String(),
		At:         createdAt,
	})

	return o, nil
}

// RestoreOrder rebuilds an order from storage. Items must belong to the order;
// the status is derived, never read back.
func RestoreOrder(
	id, buyerID kernel.UUID,
	address AddressSnapshot,
	paymentMethod, paymentReference string,
	items []*Item,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		address:          address,
		paymentReference: paymentReference,
		createdAt:        createdAt,
		isConstructed:    true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setBuyerID(buyerID),
		o.setPaymentMethod(paymentMethod),
	); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("order items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if !item.OrderID().IsEqual(id) {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"order items",
				fmt.Errorf("item %s belongs to order %s", item.ID(), item.OrderID()),
			)
		}
	}

	o.items = items
	o.refreshStatus()
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

func (o *Order) Address() AddressSnapshot {
	return o.address
}

func (o *Order) PaymentMethod() string {
	return o.paymentMethod
}

// PaymentReference is the gateway capture id; empty until RecordPayment.
func (o *Order) PaymentReference() string {
	return o.paymentReference
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Status returns the status derived from the items.
func (o *Order) Status() Status {
	return o.status
}

// Items returns the items in cart order. The slice is a copy; the items are not.
func (o *Order) Items() []*Item {
	return append([]*Item(nil), o.items...)
}

// Item finds an item of this order.
func (o *Order) Item(itemID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.ID().IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("order item", itemID.String())
}

// ItemByEscrowID finds the item whose escrow record has the given id.
func (o *Order) ItemByEscrowID(escrowID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.Escrow().ID().IsEqual(escrowID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("escrow record", escrowID.String())
}

// HasSeller reports whether any item of the order is sold by sellerID.
func (o *Order) HasSeller(sellerID kernel.UUID) bool {
	for _, item := range o.items {
		if item.SellerID().IsEqual(sellerID) {
			return true
		}
	}
	return false
}

// ItemsTotal is the sum of item prices.
func (o *Order) ItemsTotal() kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range o.items {
		total = total.Add(item.Price())
	}
	return total
}

// ShippingTotal is the sum of item shipping fees.
func (o *Order) ShippingTotal() kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range o.items {
		total = total.Add(item.ShippingFee())
	}
	return total
}

// PlatformFeeTotal is the sum of the platform fees withheld from sellers.
func (o *Order) PlatformFeeTotal() kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range o.items {
		total = total.Add(item.PlatformFee())
	}
	return total
}

// GrandTotal is what the buyer is charged: item prices plus shipping.
func (o *Order) GrandTotal() kernel.Money {
	return o.ItemsTotal().Add(o.ShippingTotal())
}

// RecordPayment stores the gateway capture reference. It can be set once.
func (o *Order) RecordPayment(reference string) error {
	if strings.TrimSpace(reference) == "" {
		return errs.NewValueIsRequiredError("payment reference")
	}
	if o.paymentReference != "" {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment reference",
			fmt.Errorf("order %s already has payment %s", o.id, o.paymentReference),
		)
	}
	o.paymentReference = reference
	return nil
}

// AdvanceItem performs a seller or courier step on one item.
//
// Sellers (or admins) process and hand off their own items; any courier may
// pick up or dispatch and becomes the item's assigned courier.
func (o *Order) AdvanceItem(itemID kernel.UUID, action Action, actor kernel.Actor, at time.Time) error {
	item, err := o.Item(itemID)
	if err != nil {
		return err
	}

	from := item.Status()
	if err = item.advance(action, actor, at); err != nil {
		return err
	}

	o.itemChanged(item, from, actor, at)
	return nil
}

// ConfirmItemDelivery moves an OutForDelivery item to Delivered with proof.
// Only the assigned courier may confirm, and at least one photo is required.
// The escrow record stays Holding and becomes eligible for release.
func (o *Order) ConfirmItemDelivery(itemID kernel.UUID, actor kernel.Actor, photos []string, at time.Time) (DeliveryProof, error) {
	if err := ValidatePhotos(photos); err != nil {
		return DeliveryProof{}, err
	}

	item, err := o.Item(itemID)
	if err != nil {
		return DeliveryProof{}, err
	}

	from := item.Status()
	proof, err := item.confirmDelivery(actor, photos, at)
	if err != nil {
		return DeliveryProof{}, err
	}

	o.itemChanged(item, from, actor, at)
	return proof, nil
}

// CancelItem cancels one item before hand-off and returns the buyer refund
// instruction. Other items of the order are unaffected.
func (o *Order) CancelItem(itemID kernel.UUID, actor kernel.Actor, at time.Time) (escrow.Instruction, error) {
	item, err := o.Item(itemID)
	if err != nil {
		return escrow.Instruction{}, err
	}

	from := item.Status()
	instruction, err := item.cancel(actor, o.buyerID, at)
	if err != nil {
		return escrow.Instruction{}, err
	}

	o.itemChanged(item, from, actor, at)
	o.raise(newEscrowFinalizedEvent(o, item, instruction))
	return instruction, nil
}

// RefundItem is the administrator's dispute override. A Delivered item can
// only be refunded within disputeWindow of its delivery.
func (o *Order) RefundItem(
	itemID kernel.UUID,
	actor kernel.Actor,
	at time.Time,
	disputeWindow time.Duration,
) (escrow.Instruction, error) {
	item, err := o.Item(itemID)
	if err != nil {
		return escrow.Instruction{}, err
	}

	from := item.Status()
	instruction, err := item.refund(actor, o.buyerID, at, disputeWindow)
	if err != nil {
		return escrow.Instruction{}, err
	}

	o.itemChanged(item, from, actor, at)
	o.raise(newEscrowFinalizedEvent(o, item, instruction))
	return instruction, nil
}

// ReleaseEscrow releases the escrow record identified by escrowID to the
// seller and returns the payout instruction.
func (o *Order) ReleaseEscrow(escrowID kernel.UUID, actor kernel.Actor, at time.Time) (escrow.Instruction, error) {
	item, err := o.ItemByEscrowID(escrowID)
	if err != nil {
		return escrow.Instruction{}, err
	}

	instruction, err := item.releaseEscrow(actor, at)
	if err != nil {
		return escrow.Instruction{}, err
	}

	o.raise(newEscrowFinalizedEvent(o, item, instruction))
	return instruction, nil
}

// DomainEvents returns events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []ddd.DomainEvent {
	return append([]ddd.DomainEvent(nil), o.events...)
}

func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) itemChanged(item *Item, from Status, actor kernel.Actor, at time.Time) {
	o.refreshStatus()
	o.raise(ItemStatusChangedEvent{
		OrderID:     o.id.String(),
		ItemID:      item.ID().String(),
		From:        from.String(),
		To:          item.Status().String(),
		OrderStatus: o.status.String(),
		ActorID:     actor.ID().String(),
		ActorRole:   actor.Role().String(),
		At:          at,
	})
}

func (o *Order) refreshStatus() {
	statuses := make([]Status, 0, len(o.items))
	for _, item := range o.items {
		statuses = append(statuses, item.Status())
	}
	o.status = DeriveStatus(statuses...)
}

func (o *Order) raise(event ddd.DomainEvent) {
	o.events = append(o.events, event)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBuyerID(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return err
	}
	o.buyerID = buyerID
	return nil
}

func (o *Order) setPaymentMethod(method string) error {
	if strings.TrimSpace(method) == "" {
		return errs.NewValueIsRequiredError("payment method")
	}
	o.paymentMethod = method
	return nil
}
