// Package errs provides the error taxonomy of the fulfillment service.
//
// Every error type pairs a sentinel (ErrValueIsRequired, ErrStateConflict, ...)
// with a struct carrying details, and unwraps to its sentinel so callers classify
// failures with errors.Is while logs keep the specifics:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//   - ObjectNotFoundError: lookups that matched nothing
//   - InvalidTransitionError: an item action attempted from the wrong status
//   - EscrowStateError: NotEligibleForRelease, AlreadyReleased, AlreadyFinalized
//   - StateConflictError: lost optimistic-lock race, re-read and retry
//   - ForbiddenError: actor lacks the role or ownership for the action
//   - ExternalPaymentError: payment collaborator failure, unwraps to the cause too
//   - CheckoutRejectedError: InvalidAddress, ProductUnavailable
//
// ErrEmptyCart and ErrMissingProof are plain sentinels returned as-is or wrapped
// with fmt.Errorf.
package errs
