// Package kernel provides the value objects shared by every aggregate of the
// fulfillment domain.
//
// The package includes:
//   - UUID: identifier of orders, items, escrow records and actors
//   - Money: non-negative two-digit decimal amount backed by shopspring/decimal
//   - FeeRate: platform commission between 0 and 1
//   - Actor and Role: the caller of an operation and the capacity it acts in
//
// All values are immutable. Zero values either mean "zero" (Money) or fail
// Validate (UUID, Actor), so a forgotten constructor call surfaces as an error.
package kernel
