// Package escrow implements the escrow ledger: one Record per order item
// holding the captured item price until it is released to the seller or
// returned to the buyer.
//
// Key business rules:
//   - A record is opened in Holding at checkout and never created later
//   - Payout = held - platform fee, fixed at creation
//   - Holding -> Released requires a confirmed delivery and happens at most once
//   - Holding -> Refunded / Cancelled return the full held amount to the buyer
//   - Every transition yields an Instruction for the payment gateway
package escrow
