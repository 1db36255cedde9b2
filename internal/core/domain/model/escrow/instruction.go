package escrow

import "fulfillment/internal/core/domain/model/kernel"

// InstructionKind says which way an instruction moves money.
type InstructionKind string

const (
	// Payout sends held funds minus the platform fee to the seller.
	Payout InstructionKind = "payout"

	// Refund returns the full held amount to the buyer.
	Refund InstructionKind = "refund"
)

// Instruction is the money movement the ledger asks the payment gateway to
// perform. It is produced by Release, Refund and Cancel and is submitted in
// the same transaction that persists the new escrow status.
type Instruction struct {
	Kind      InstructionKind
	RecordID  kernel.UUID
	ItemID    kernel.UUID
	Recipient kernel.UUID
	Amount    kernel.Money
}

// IdempotencyKey identifies the instruction to the gateway so a retried
// submission of the same movement is not executed twice.
func (i Instruction) IdempotencyKey() string {
	return i.RecordID.String() + ":" + string(i.Kind)
}
