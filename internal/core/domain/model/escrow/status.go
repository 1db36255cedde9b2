package escrow

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the state of an escrow record.
//
// State transitions:
//
//	Holding ──┬──> Released
//	          ├──> Refunded
//	          └──> Cancelled
//
// Every state other than Holding is final.
type Status int

const (
	// Unknown catches uninitialised values and unrecognised database values.
	Unknown Status = iota

	// Holding means funds were captured and are held for the item.
	Holding

	// Released means the seller payout instruction was issued.
	Released

	// Refunded means the buyer refund instruction was issued after a dispute.
	Refunded

	// Cancelled means the item was cancelled before shipping and the buyer refunded.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Holding:   "Holding",
		Released:  "Released",
		Refunded:  "Refunded",
		Cancelled: "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Holding:   "Holding",
		Released:  "Released",
		Refunded:  "Refunded",
		Cancelled: "Cancelled",
	}
}

// Validate rejects Unknown and any value outside the enum. Records restored
// from storage with such a value are a data error, never coerced.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("escrow status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsFinal reports whether funds have left the escrow.
func (s Status) IsFinal() bool {
	return s == Released || s == Refunded || s == Cancelled
}

// Release transitions Holding to Released.
// A record that is already Released yields AlreadyReleased; any other
// final state yields NotEligibleForRelease.
func (s Status) Release(recordID any) (Status, error) {
	switch s {
	case Holding:
		return Released, nil
	case Released:
		return Unknown, errs.NewAlreadyReleasedError(recordID)
	default:
		return Unknown, errs.NewNotEligibleForReleaseError(recordID, "status is "+s.String())
	}
}

// Refund transitions Holding to Refunded.
func (s Status) Refund(recordID any) (Status, error) {
	if s != Holding {
		return Unknown, errs.NewAlreadyFinalizedError(recordID, s.String())
	}
	return Refunded, nil
}

// Cancel transitions Holding to Cancelled.
func (s Status) Cancel(recordID any) (Status, error) {
	if s != Holding {
		return Unknown, errs.NewAlreadyFinalizedError(recordID, s.String())
	}
	return Cancelled, nil
}
