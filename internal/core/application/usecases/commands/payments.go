package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/sirupsen/logrus"
)

// submitInstruction hands a payout or refund to the gateway. It runs after the
// version-checked write and before commit, so a lost race never reaches the
// gateway and a gateway failure rolls the state change back.
func submitInstruction(
	ctx context.Context,
	payments ports.PaymentGateway,
	logger logrus.FieldLogger,
	instruction escrow.Instruction,
) error {
	fields := logrus.Fields{
		"escrow_id":    instruction.RecordID.String(),
		"item_id":      instruction.ItemID.String(),
		"kind":         string(instruction.Kind),
		"recipient_id": instruction.Recipient.String(),
		"amount":       instruction.Amount.String(),
	}

	if err := payments.Submit(ctx, instruction); err != nil {
		logger.WithFields(fields).WithError(err).Error("payment instruction rejected")
		return errs.NewExternalPaymentError(string(instruction.Kind), err)
	}

	logger.WithFields(fields).Info("payment instruction submitted")
	return nil
}
