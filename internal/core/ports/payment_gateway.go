package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/domain/model/kernel"
)

// CaptureRequest asks the gateway to capture a buyer's payment into escrow.
type CaptureRequest struct {
	OrderID        kernel.UUID
	BuyerID        kernel.UUID
	Method         string
	Amount         kernel.Money
	IdempotencyKey string
}

// PaymentGateway is the external payment provider.
//
// Every call is idempotent on its key: retrying a capture with the same
// IdempotencyKey, or submitting the same instruction twice, moves money once.
type PaymentGateway interface {
	// Capture charges the buyer and holds the funds. It returns the gateway
	// reference of the payment.
	Capture(ctx context.Context, req CaptureRequest) (string, error)

	// Confirm finalises a capture once the order is stored. A capture that is
	// never confirmed is voided by the gateway.
	Confirm(ctx context.Context, reference string) error

	// Submit executes a payout or refund instruction produced by the escrow ledger.
	Submit(ctx context.Context, instruction escrow.Instruction) error
}
