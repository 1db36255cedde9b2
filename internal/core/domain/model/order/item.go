package order

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// MaxNotesLength is the longest buyer note accepted on an item, in characters.
const MaxNotesLength = 500

var (
	// ErrItemIsNotConstructed is returned when an Item was not created through
	// NewItem or RestoreItem.
	ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem")
)

// Item is one purchased listing inside an Order. Each item is fulfilled
// independently: it has its own status, courier and escrow record.
//
// Item follows these invariants:
//   - Status changes only through the transition table in Status
//   - Exactly one escrow record, opened in Holding at checkout
//   - Every status change appends an audit Transition
//   - The version is the optimistic lock used by the repository
//
// Items are mutated only through their Order so the derived order status
// stays in step.
type Item struct {
	id       kernel.UUID
	orderID  kernel.UUID
	position int

	product     ProductSnapshot
	sellerID    kernel.UUID
	price       kernel.Money
	shippingFee kernel.Money
	notes       string

	status    Status
	courierID *kernel.UUID
	escrow    *escrow.Record

	version        int
	dirty          bool
	newTransitions []Transition
	newProofs      []DeliveryProof

	isConstructed bool
}

// NewItem creates a Pending item and opens its escrow record.
//
// Parameters:
//   - position: zero-based index of the item in the cart, preserved for display
//   - feeRate: the seller's platform fee rate; fee = price × rate rounded half-up
//
// The escrow holds the item price only. The shipping fee is charged to the
// buyer but never escrowed.
func NewItem(
	id, orderID kernel.UUID,
	position int,
	product ProductSnapshot,
	sellerID kernel.UUID,
	price, shippingFee kernel.Money,
	feeRate kernel.FeeRate,
	notes string,
) (*Item, error) {
	item := &Item{
		position:      position,
		product:       product,
		price:         price,
		shippingFee:   shippingFee,
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setOrderID(orderID),
		item.setSellerID(sellerID),
		item.setNotes(notes),
		product.productID.Validate(),
	); err != nil {
		return nil, err
	}

	record, err := escrow.Hold(kernel.NewUUID(), id, price, price.ApplyRate(feeRate))
	if err != nil {
		return nil, err
	}
	item.escrow = record

	return item, nil
}

// RestoreItem rebuilds an item from storage without recording any transition.
func RestoreItem(
	id, orderID kernel.UUID,
	position int,
	product ProductSnapshot,
	sellerID kernel.UUID,
	price, shippingFee kernel.Money,
	notes string,
	status Status,
	courierID *kernel.UUID,
	version int,
	record *escrow.Record,
) (*Item, error) {
	item := &Item{
		position:      position,
		product:       product,
		price:         price,
		shippingFee:   shippingFee,
		courierID:     courierID,
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setOrderID(orderID),
		item.setSellerID(sellerID),
		item.setNotes(notes),
		status.Validate(),
		record.Validate(),
	); err != nil {
		return nil, err
	}

	if !record.ItemID().IsEqual(id) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"escrow record",
			fmt.Errorf("record %s belongs to item %s, not %s", record.ID(), record.ItemID(), id),
		)
	}

	item.status = status
	item.escrow = record
	return item, nil
}

func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

func (i *Item) ID() kernel.UUID               { return i.id }
func (i *Item) OrderID() kernel.UUID          { return i.orderID }
func (i *Item) Position() int                 { return i.position }
func (i *Item) Product() ProductSnapshot      { return i.product }
func (i *Item) SellerID() kernel.UUID         { return i.sellerID }
func (i *Item) Price() kernel.Money           { return i.price }
func (i *Item) ShippingFee() kernel.Money     { return i.shippingFee }
func (i *Item) Notes() string                 { return i.notes }
func (i *Item) Status() Status                { return i.status }
func (i *Item) Escrow() *escrow.Record        { return i.escrow }
func (i *Item) Version() int                  { return i.version }
func (i *Item) PlatformFee() kernel.Money     { return i.escrow.Fee() }
func (i *Item) AssignedCourier() *kernel.UUID { return i.courierID }

// IsDirty reports whether the item or its escrow record changed since it was
// loaded or last persisted.
func (i *Item) IsDirty() bool {
	return i.dirty
}

// PendingTransitions returns audit records not yet persisted.
func (i *Item) PendingTransitions() []Transition {
	return append([]Transition(nil), i.newTransitions...)
}

// PendingProofs returns delivery proofs not yet persisted.
func (i *Item) PendingProofs() []DeliveryProof {
	return append([]DeliveryProof(nil), i.newProofs...)
}

// MarkPersisted is called by the repository after the versioned write
// succeeded. It bumps the version and clears pending changes.
func (i *Item) MarkPersisted() {
	if !i.dirty {
		return
	}
	i.version++
	i.dirty = false
	i.newTransitions = nil
	i.newProofs = nil
}

func (i *Item) advance(action Action, actor kernel.Actor, at time.Time) error {
	if err := i.authorizeAction(action, actor); err != nil {
		return err
	}

	var (
		next Status
		err  error
	)
	switch action {
	case ActionProcess:
		next, err = i.status.Process()
	case ActionHandOff:
		next, err = i.status.HandOff()
	case ActionPickUp:
		next, err = i.status.ReceiveAtWarehouse()
	case ActionDispatch:
		next, err = i.status.Dispatch()
	default:
		return action.Validate()
	}
	if err != nil {
		return err
	}

	if action.IsCourierAction() {
		courierID := actor.ID()
		i.courierID = &courierID
	}
	i.moveTo(next, actor, at)
	return nil
}

func (i *Item) authorizeAction(action Action, actor kernel.Actor) error {
	if action.IsCourierAction() {
		if actor.Role() != kernel.RoleCourier {
			return errs.NewForbiddenError(actor.ID(), action.String()+" items")
		}
		return nil
	}
	if !actor.IsAdmin() && !actor.Is(i.sellerID, kernel.RoleSeller) {
		return errs.NewForbiddenError(actor.ID(), action.String()+" items of another seller")
	}
	return nil
}

// confirmDelivery validates the photos first so an empty proof never touches state.
func (i *Item) confirmDelivery(actor kernel.Actor, photos []string, at time.Time) (DeliveryProof, error) {
	if err := ValidatePhotos(photos); err != nil {
		return DeliveryProof{}, err
	}
	if actor.Role() != kernel.RoleCourier {
		return DeliveryProof{}, errs.NewForbiddenError(actor.ID(), "confirm delivery")
	}

	next, err := i.status.Deliver()
	if err != nil {
		return DeliveryProof{}, err
	}
	if i.courierID == nil || !i.courierID.IsEqual(actor.ID()) {
		return DeliveryProof{}, errs.NewForbiddenError(actor.ID(), "confirm delivery of an item assigned to another courier")
	}

	proof, err := NewDeliveryProof(kernel.NewUUID(), i.id, photos, actor.ID(), at)
	if err != nil {
		return DeliveryProof{}, err
	}
	if err = i.escrow.MarkDelivered(at); err != nil {
		return DeliveryProof{}, err
	}

	i.newProofs = append(i.newProofs, proof)
	i.moveTo(next, actor, at)
	return proof, nil
}

func (i *Item) cancel(actor kernel.Actor, buyerID kernel.UUID, at time.Time) (escrow.Instruction, error) {
	if !actor.IsAdmin() && !actor.Is(buyerID, kernel.RoleBuyer) && !actor.Is(i.sellerID, kernel.RoleSeller) {
		return escrow.Instruction{}, errs.NewForbiddenError(actor.ID(), "cancel this item")
	}

	next, err := i.status.Cancel()
	if err != nil {
		return escrow.Instruction{}, err
	}

	instruction, err := i.escrow.Cancel(actor.ID(), buyerID, at)
	if err != nil {
		return escrow.Instruction{}, err
	}

	i.moveTo(next, actor, at)
	return instruction, nil
}

// refund checks the status, the dispute window and the escrow in that order,
// and only then mutates, so a refused refund leaves the item untouched.
func (i *Item) refund(actor kernel.Actor, buyerID kernel.UUID, at time.Time, disputeWindow time.Duration) (escrow.Instruction, error) {
	if !actor.IsAdmin() {
		return escrow.Instruction{}, errs.NewForbiddenError(actor.ID(), "refund items")
	}

	next, err := i.status.Refund()
	if err != nil {
		return escrow.Instruction{}, err
	}

	if i.status == Delivered {
		deliveredAt := i.escrow.DeliveredAt()
		if deliveredAt != nil && at.After(deliveredAt.Add(disputeWindow)) {
			return escrow.Instruction{}, errs.NewInvalidTransitionErrorWithReason(
				"refund",
				i.status.String(),
				fmt.Sprintf("dispute window closed at %s", deliveredAt.Add(disputeWindow).UTC().Format(time.RFC3339)),
			)
		}
	}

	instruction, err := i.escrow.Refund(actor.ID(), buyerID, at)
	if err != nil {
		return escrow.Instruction{}, err
	}

	i.moveTo(next, actor, at)
	return instruction, nil
}

// releaseEscrow pays the seller. The item must be Delivered; its status does
// not change but the item version is bumped so concurrent releases conflict.
func (i *Item) releaseEscrow(actor kernel.Actor, at time.Time) (escrow.Instruction, error) {
	if !actor.IsAdmin() {
		return escrow.Instruction{}, errs.NewForbiddenError(actor.ID(), "release escrow")
	}

	if i.escrow.Status() == escrow.Released {
		return escrow.Instruction{}, errs.NewAlreadyReleasedError(i.escrow.ID())
	}
	if i.status != Delivered {
		return escrow.Instruction{}, errs.NewNotEligibleForReleaseError(
			i.escrow.ID(),
			fmt.Sprintf("item is %s, expected %s", i.status, Delivered),
		)
	}

	instruction, err := i.escrow.Release(actor.ID(), i.sellerID, at)
	if err != nil {
		return escrow.Instruction{}, err
	}

	i.dirty = true
	return instruction, nil
}

func (i *Item) moveTo(next Status, actor kernel.Actor, at time.Time) {
	i.newTransitions = append(i.newTransitions, newTransition(i.id, i.status, next, actor, at))
	i.status = next
	i.dirty = true
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	i.orderID = orderID
	return nil
}

func (i *Item) setSellerID(sellerID kernel.UUID) error {
	if err := sellerID.Validate(); err != nil {
		return err
	}
	i.sellerID = sellerID
	return nil
}

func (i *Item) setNotes(notes string) error {
	if n := utf8.RuneCountInString(notes); n > MaxNotesLength {
		return errs.NewValueIsOutOfRangeError("notes length", n, 0, MaxNotesLength)
	}
	i.notes = notes
	return nil
}
