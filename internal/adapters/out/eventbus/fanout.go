// Package eventbus delivers committed domain events to every configured
// publisher, for example Kafka and the admin websocket feed.
package eventbus

import (
	"context"
	"errors"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/ddd"
)

type Fanout struct {
	publishers []ports.EventPublisher
}

// NewFanout skips nil publishers so optional outputs can be passed unconditionally.
func NewFanout(publishers ...ports.EventPublisher) *Fanout {
	f := &Fanout{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Publish hands the events to every publisher, even after one failed, and
// returns the joined failures.
func (f *Fanout) Publish(ctx context.Context, events ...ddd.DomainEvent) error {
	var errList []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, events...); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

var _ ports.EventPublisher = (*Fanout)(nil)
