package order

// DeriveStatus computes the overall order status from its item statuses.
// It is the only place the rule lives; the order header never stores a status.
//
// Rules:
//   - every item Delivered: Delivered
//   - every item Cancelled or Refunded: Refunded if any was refunded, else Cancelled
//   - otherwise closed items are ignored and the least advanced open item wins,
//     so the order is OutForDelivery only when no open item is earlier than that
//
// An empty list yields Unknown.
//
// Example:
//
//	DeriveStatus(Delivered, OutForDelivery)  // OutForDelivery
//	DeriveStatus(Delivered, Cancelled)       // Delivered
//	DeriveStatus(Cancelled, Refunded)        // Refunded
func DeriveStatus(statuses ...Status) Status {
	if len(statuses) == 0 {
		return Unknown
	}

	least := Unknown
	anyRefunded := false
	for _, s := range statuses {
		if s.IsClosed() {
			anyRefunded = anyRefunded || s == Refunded
			continue
		}
		if least == Unknown || s.Rank() < least.Rank() {
			least = s
		}
	}

	if least != Unknown {
		return least
	}
	if anyRefunded {
		return Refunded
	}
	return Cancelled
}
