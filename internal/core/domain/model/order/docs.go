// Package order provides the Order aggregate of the fulfillment engine.
//
// An order is one checkout by one buyer. Each of its items may come from a
// different seller and is fulfilled on its own: it moves through the item
// Status workflow, gets its own courier, and owns exactly one escrow record.
//
// The package includes:
//   - Order: the aggregate root; every item mutation goes through it
//   - Item: one purchased listing with its status, courier and escrow record
//   - Status: the item lifecycle and its transition table
//   - DeriveStatus: the single rule that computes the order status from its items
//   - DeliveryProof, Transition: append-only records produced by item changes
//   - Domain events recorded for publication after commit
//
// Key business rules:
//   - Items move Pending -> Processing -> AwaitingPickup -> InWarehouse ->
//     OutForDelivery -> Delivered, and never backwards
//   - Items can be cancelled only before the seller hands them off
//   - Only administrators refund, and a Delivered item only within the dispute window
//   - Delivery needs the assigned courier and at least one photo
//   - Escrow is released to the seller only for Delivered items, exactly once
package order
