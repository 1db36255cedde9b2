package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetReleaseBacklogQueryIsNotConstructed = errors.New(
		"GetReleaseBacklogQuery must be created via NewGetReleaseBacklogQuery constructor",
	)
)

// GetReleaseBacklogQuery summarises the admin release queue. Records
// delivered before overdueBefore are counted as overdue.
type GetReleaseBacklogQuery struct {
	overdueBefore time.Time

	guard guard.ConstructorGuard
}

func NewGetReleaseBacklogQuery(overdueBefore time.Time) GetReleaseBacklogQuery {
	return GetReleaseBacklogQuery{
		overdueBefore: overdueBefore,
		guard:         guard.NewConstructorGuard(),
	}
}

func (q GetReleaseBacklogQuery) Validate() error {
	return q.guard.Validate(ErrGetReleaseBacklogQueryIsNotConstructed)
}

type GetReleaseBacklogQueryResponse struct {
	Count             int64
	Overdue           int64
	HeldTotal         kernel.Money
	OldestDeliveredAt *time.Time
}
