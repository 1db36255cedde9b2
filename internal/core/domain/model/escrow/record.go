package escrow

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrRecordIsNotConstructed is returned when a Record was not created through
	// Hold or RestoreRecord.
	ErrRecordIsNotConstructed = errors.New("Record must be created via Hold or RestoreRecord")
)

// Record is the escrow ledger entry of one order item. It is the only place
// where money changes state.
//
// Record follows these invariants:
//   - Held, fee and payout are fixed when the record is created
//   - Payout always equals held minus fee, and fee never exceeds held
//   - Status leaves Holding at most once (Released, Refunded or Cancelled)
//   - Release requires a delivery timestamp
//
// Each successful state change returns the Instruction the payment gateway
// must execute. The record itself never talks to the gateway.
type Record struct {
	id     kernel.UUID
	itemID kernel.UUID

	held   kernel.Money
	fee    kernel.Money
	payout kernel.Money

	status Status

	deliveredAt *time.Time
	releasedAt  *time.Time
	finalizedAt *time.Time
	finalizedBy *kernel.UUID

	isConstructed bool
}

// Hold opens an escrow record in Holding for an item at checkout.
//
// Parameters:
//   - id: the escrow record id, also the "transaction id" shown to administrators
//   - itemID: the order item whose price is held
//   - held: the captured item price
//   - fee: the platform fee, which must not exceed held
//
// Returns:
//   - *Record: a record in Holding with payout = held - fee
//   - error: validation error if an id is missing or fee > held
//
// Example:
//
//	rec, err := escrow.Hold(kernel.NewUUID(), itemID, price, price.ApplyRate(rate))
func Hold(id, itemID kernel.UUID, held, fee kernel.Money) (*Record, error) {
	r := &Record{
		status:        Holding,
		isConstructed: true,
	}

	if err := errors.Join(
		r.setID(id),
		r.setItemID(itemID),
		r.setAmounts(held, fee),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRecord rebuilds a record from storage. The stored payout must match
// held minus fee and the status must be a known value; anything else is
// reported as corrupt data instead of being repaired.
func RestoreRecord(
	id, itemID kernel.UUID,
	held, fee, payout kernel.Money,
	status Status,
	deliveredAt, releasedAt, finalizedAt *time.Time,
	finalizedBy *kernel.UUID,
) (*Record, error) {
	r := &Record{
		isConstructed: true,
		deliveredAt:   deliveredAt,
		releasedAt:    releasedAt,
		finalizedAt:   finalizedAt,
		finalizedBy:   finalizedBy,
	}

	if err := errors.Join(
		r.setID(id),
		r.setItemID(itemID),
		r.setAmounts(held, fee),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if !r.payout.IsEqual(payout) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"escrow payout",
			fmt.Errorf("stored payout %s does not equal held %s minus fee %s", payout, held, fee),
		)
	}

	r.status = status
	return r, nil
}

func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

func (r *Record) ID() kernel.UUID {
	return r.id
}

func (r *Record) ItemID() kernel.UUID {
	return r.itemID
}

func (r *Record) Held() kernel.Money {
	return r.held
}

func (r *Record) Fee() kernel.Money {
	return r.fee
}

func (r *Record) Payout() kernel.Money {
	return r.payout
}

func (r *Record) Status() Status {
	return r.status
}

// DeliveredAt is set when the item is confirmed delivered; nil before.
func (r *Record) DeliveredAt() *time.Time {
	return r.deliveredAt
}

func (r *Record) ReleasedAt() *time.Time {
	return r.releasedAt
}

// FinalizedAt is set when the record leaves Holding for any final status.
func (r *Record) FinalizedAt() *time.Time {
	return r.finalizedAt
}

// FinalizedBy is the actor that released, refunded or cancelled the record.
func (r *Record) FinalizedBy() *kernel.UUID {
	return r.finalizedBy
}

// MarkDelivered stamps the delivery time, which makes the record eligible for
// release. The status stays Holding.
func (r *Record) MarkDelivered(at time.Time) error {
	if r.status != Holding {
		return errs.NewAlreadyFinalizedError(r.id, r.status.String())
	}
	r.deliveredAt = &at
	return nil
}

// Release moves the record to Released and returns the seller payout
// instruction for held minus fee.
//
// Errors:
//   - AlreadyReleased if the record is already Released
//   - NotEligibleForRelease if it was refunded or cancelled, or delivery was never stamped
func (r *Record) Release(by, seller kernel.UUID, at time.Time) (Instruction, error) {
	next, err := r.status.Release(r.id)
	if err != nil {
		return Instruction{}, err
	}
	if r.deliveredAt == nil {
		return Instruction{}, errs.NewNotEligibleForReleaseError(r.id, "delivery has not been confirmed")
	}

	r.finalize(next, by, at)
	r.releasedAt = &at

	return Instruction{
		Kind:      Payout,
		RecordID:  r.id,
		ItemID:    r.itemID,
		Recipient: seller,
		Amount:    r.payout,
	}, nil
}

// Refund moves a Holding record to Refunded and returns the buyer refund
// instruction for the full held amount.
func (r *Record) Refund(by, buyer kernel.UUID, at time.Time) (Instruction, error) {
	next, err := r.status.Refund(r.id)
	if err != nil {
		return Instruction{}, err
	}

	r.finalize(next, by, at)
	return r.refundInstruction(buyer), nil
}

// Cancel moves a Holding record to Cancelled and returns the buyer refund
// instruction for the full held amount.
func (r *Record) Cancel(by, buyer kernel.UUID, at time.Time) (Instruction, error) {
	next, err := r.status.Cancel(r.id)
	if err != nil {
		return Instruction{}, err
	}

	r.finalize(next, by, at)
	return r.refundInstruction(buyer), nil
}

func (r *Record) finalize(status Status, by kernel.UUID, at time.Time) {
	r.status = status
	r.finalizedAt = &at
	r.finalizedBy = &by
}

func (r *Record) refundInstruction(buyer kernel.UUID) Instruction {
	return Instruction{
		Kind:      Refund,
		RecordID:  r.id,
		ItemID:    r.itemID,
		Recipient: buyer,
		Amount:    r.held,
	}
}

func (r *Record) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Record) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	r.itemID = itemID
	return nil
}

func (r *Record) setAmounts(held, fee kernel.Money) error {
	payout, err := held.Sub(fee)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"escrow fee",
			fmt.Errorf("fee %s exceeds held amount %s", fee, held),
		)
	}
	r.held = held
	r.fee = fee
	r.payout = payout
	return nil
}
