package ports

import (
	"context"

	"fulfillment/internal/pkg/ddd"
)

// EventPublisher delivers domain events to the outside world after the
// transaction that produced them committed. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, events ...ddd.DomainEvent) error
}
