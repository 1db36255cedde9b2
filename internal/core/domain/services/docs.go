// Package services provides domain services that work across aggregates and
// external facts in the fulfillment engine.
//
// The package includes:
//   - Checkout: validates catalog listings and creates the Order aggregate
package services
