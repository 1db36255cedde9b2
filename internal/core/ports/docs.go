// Package ports defines the contracts between the fulfillment core and its
// adapters: order persistence, the unit of work, the payment gateway, the
// marketplace catalog and address book, the fee policy and event publication.
package ports
