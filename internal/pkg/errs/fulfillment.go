package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrStateConflict         = errors.New("state conflict")
	ErrForbidden             = errors.New("forbidden")
	ErrExternalPayment       = errors.New("external payment error")
	ErrNotEligibleForRelease = errors.New("escrow is not eligible for release")
	ErrAlreadyReleased       = errors.New("escrow already released")
	ErrAlreadyFinalized      = errors.New("escrow already finalized")
	ErrInvalidAddress        = errors.New("invalid shipping address")
	ErrProductUnavailable    = errors.New("product unavailable")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrMissingProof          = errors.New("delivery proof requires at least one photo")
	ErrCorruptData           = errors.New("corrupt stored data")
)

// InvalidTransitionError reports an item action attempted from the wrong status.
// Either Expected or Reason explains what would have made the action legal.
type InvalidTransitionError struct {
	Action   string
	From     string
	Expected []string
	Reason   string
}

func NewInvalidTransitionError(action, from string, expected ...string) *InvalidTransitionError {
	return &InvalidTransitionError{
		Action:   action,
		From:     from,
		Expected: expected,
	}
}

func NewInvalidTransitionErrorWithReason(action, from, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{
		Action: action,
		From:   from,
		Reason: reason,
	}
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s: item is %s, %s", e.Action, e.From, e.Reason)
	}
	return fmt.Sprintf("cannot %s: item is %s, expected %s", e.Action, e.From, strings.Join(e.Expected, " or "))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// StateConflictError is returned to the loser of a concurrent write.
// The caller should re-read the entity and retry.
type StateConflictError struct {
	Entity string
	ID     any
	Cause  error
}

func NewStateConflictError(entity string, id any) *StateConflictError {
	return &StateConflictError{
		Entity: entity,
		ID:     id,
	}
}

func NewStateConflictErrorWithCause(entity string, id any, cause error) *StateConflictError {
	return &StateConflictError{
		Entity: entity,
		ID:     id,
		Cause:  cause,
	}
}

func (e *StateConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s %v was modified concurrently, re-read and retry", ErrStateConflict, e.Entity, e.ID)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *StateConflictError) Unwrap() error {
	return ErrStateConflict
}

type ForbiddenError struct {
	ActorID any
	Action  string
}

func NewForbiddenError(actorID any, action string) *ForbiddenError {
	return &ForbiddenError{
		ActorID: actorID,
		Action:  action,
	}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: actor %v is not allowed to %s", ErrForbidden, e.ActorID, e.Action)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// ExternalPaymentError wraps a payment collaborator failure. It unwraps to both
// ErrExternalPayment and the original cause.
type ExternalPaymentError struct {
	Operation string
	Cause     error
}

func NewExternalPaymentError(operation string, cause error) *ExternalPaymentError {
	return &ExternalPaymentError{
		Operation: operation,
		Cause:     cause,
	}
}

func (e *ExternalPaymentError) Error() string {
	return fmt.Sprintf("%s: %s failed (cause: %v)", ErrExternalPayment, e.Operation, e.Cause)
}

func (e *ExternalPaymentError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExternalPayment}
	}
	return []error{ErrExternalPayment, e.Cause}
}

// EscrowStateError reports an escrow operation refused by the ledger.
// Kind is one of ErrNotEligibleForRelease, ErrAlreadyReleased or ErrAlreadyFinalized.
type EscrowStateError struct {
	Kind     error
	RecordID any
	Reason   string
}

func NewNotEligibleForReleaseError(recordID any, reason string) *EscrowStateError {
	return &EscrowStateError{
		Kind:     ErrNotEligibleForRelease,
		RecordID: recordID,
		Reason:   reason,
	}
}

func NewAlreadyReleasedError(recordID any) *EscrowStateError {
	return &EscrowStateError{
		Kind:     ErrAlreadyReleased,
		RecordID: recordID,
	}
}

func NewAlreadyFinalizedError(recordID any, status string) *EscrowStateError {
	return &EscrowStateError{
		Kind:     ErrAlreadyFinalized,
		RecordID: recordID,
		Reason:   "status is " + status,
	}
}

func (e *EscrowStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: escrow %v: %s", e.Kind, e.RecordID, e.Reason)
	}
	return fmt.Sprintf("%s: escrow %v", e.Kind, e.RecordID)
}

func (e *EscrowStateError) Unwrap() error {
	return e.Kind
}

// CheckoutRejectedError reports a cart or address the marketplace refused.
// Kind is ErrInvalidAddress or ErrProductUnavailable.
type CheckoutRejectedError struct {
	Kind   error
	ID     any
	Reason string
}

func NewInvalidAddressError(addressID any, reason string) *CheckoutRejectedError {
	return &CheckoutRejectedError{
		Kind:   ErrInvalidAddress,
		ID:     addressID,
		Reason: reason,
	}
}

func NewProductUnavailableError(productID any, reason string) *CheckoutRejectedError {
	return &CheckoutRejectedError{
		Kind:   ErrProductUnavailable,
		ID:     productID,
		Reason: reason,
	}
}

func (e *CheckoutRejectedError) Error() string {
	return fmt.Sprintf("%s: %v %s", e.Kind, e.ID, e.Reason)
}

func (e *CheckoutRejectedError) Unwrap() error {
	return e.Kind
}

// CorruptDataError reports stored state that no longer passes domain
// validation. It unwraps to both ErrCorruptData and the validation failure.
type CorruptDataError struct {
	Entity string
	ID     any
	Cause  error
}

func NewCorruptDataError(entity string, id any, cause error) *CorruptDataError {
	return &CorruptDataError{
		Entity: entity,
		ID:     id,
		Cause:  cause,
	}
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("%s: %s %v (cause: %v)", ErrCorruptData, e.Entity, e.ID, e.Cause)
}

func (e *CorruptDataError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrCorruptData}
	}
	return []error{ErrCorruptData, e.Cause}
}
