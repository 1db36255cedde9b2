package errs_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidTransitionError(t *testing.T) {
	t.Run("lists expected statuses", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("confirm delivery", "Pending", "OutForDelivery")

		assert.Equal(t, "cannot confirm delivery: item is Pending, expected OutForDelivery", err.Error())
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("joins several expected statuses", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("cancel", "InWarehouse", "Pending", "Processing")

		assert.Equal(t, "cannot cancel: item is InWarehouse, expected Pending or Processing", err.Error())
	})

	t.Run("uses reason when given", func(t *testing.T) {
		err := errs.NewInvalidTransitionErrorWithReason("refund", "Delivered", "dispute window has closed")

		assert.Equal(t, "cannot refund: item is Delivered, dispute window has closed", err.Error())
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestStateConflictError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewStateConflictError("order item", "abc")

		assert.Equal(t, "state conflict: order item abc was modified concurrently, re-read and retry", err.Error())
		require.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("could not serialize access")
		err := errs.NewStateConflictErrorWithCause("order item", "abc", cause)

		assert.Contains(t, err.Error(), "(cause: could not serialize access)")
		require.ErrorIs(t, err, errs.ErrStateConflict)
	})
}

func TestForbiddenError(t *testing.T) {
	err := errs.NewForbiddenError("u-1", "release escrow")

	assert.Equal(t, "forbidden: actor u-1 is not allowed to release escrow", err.Error())
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestExternalPaymentError(t *testing.T) {
	t.Run("unwraps to sentinel and cause", func(t *testing.T) {
		cause := errors.New("gateway timeout")
		err := errs.NewExternalPaymentError("payout", cause)

		assert.Equal(t, "external payment error: payout failed (cause: gateway timeout)", err.Error())
		require.ErrorIs(t, err, errs.ErrExternalPayment)
		require.ErrorIs(t, err, cause)
	})

	t.Run("nil cause still matches sentinel", func(t *testing.T) {
		err := errs.NewExternalPaymentError("capture", nil)

		require.ErrorIs(t, err, errs.ErrExternalPayment)
	})
}

func TestEscrowStateError(t *testing.T) {
	t.Run("already released", func(t *testing.T) {
		err := errs.NewAlreadyReleasedError("tx-1")

		assert.Equal(t, "escrow already released: escrow tx-1", err.Error())
		require.ErrorIs(t, err, errs.ErrAlreadyReleased)
		assert.NotErrorIs(t, err, errs.ErrNotEligibleForRelease)
	})

	t.Run("not eligible keeps reason", func(t *testing.T) {
		err := errs.NewNotEligibleForReleaseError("tx-1", "item is InWarehouse, expected Delivered")

		assert.Equal(t, "escrow is not eligible for release: escrow tx-1: item is InWarehouse, expected Delivered", err.Error())
		require.ErrorIs(t, err, errs.ErrNotEligibleForRelease)
	})

	t.Run("already finalized", func(t *testing.T) {
		err := errs.NewAlreadyFinalizedError("tx-1", "Refunded")

		assert.Equal(t, "escrow already finalized: escrow tx-1: status is Refunded", err.Error())
		require.ErrorIs(t, err, errs.ErrAlreadyFinalized)
	})
}

func TestCheckoutRejectedError(t *testing.T) {
	addrErr := errs.NewInvalidAddressError("addr-1", "belongs to another user")
	require.ErrorIs(t, addrErr, errs.ErrInvalidAddress)
	assert.Equal(t, "invalid shipping address: addr-1 belongs to another user", addrErr.Error())

	productErr := errs.NewProductUnavailableError("p-1", "is already sold")
	require.ErrorIs(t, productErr, errs.ErrProductUnavailable)
	assert.NotErrorIs(t, productErr, errs.ErrInvalidAddress)
}

func TestCorruptDataError(t *testing.T) {
	t.Run("unwraps to sentinel and validation cause", func(t *testing.T) {
		cause := errs.NewValueIsInvalidErrorWithCause("status", errors.New("42 is not a valid status"))
		err := errs.NewCorruptDataError("order", "o-1", cause)

		assert.Equal(t, "corrupt stored data: order o-1 (cause: value is invalid: status (cause: 42 is not a valid status))", err.Error())
		require.ErrorIs(t, err, errs.ErrCorruptData)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("nil cause still matches sentinel", func(t *testing.T) {
		err := errs.NewCorruptDataError("order_items", "row", nil)

		require.ErrorIs(t, err, errs.ErrCorruptData)
	})
}
