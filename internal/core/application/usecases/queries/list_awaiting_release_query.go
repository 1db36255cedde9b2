package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	ErrListAwaitingReleaseQueryIsNotConstructed = errors.New(
		"ListAwaitingReleaseQuery must be created via NewListAwaitingReleaseQuery constructor",
	)
)

// ListAwaitingReleaseQuery pages through escrow records that hold money for
// delivered items. Zero page or size selects the default.
type ListAwaitingReleaseQuery struct {
	admin kernel.Actor
	page  int
	size  int

	guard guard.ConstructorGuard
}

func NewListAwaitingReleaseQuery(admin kernel.Actor, page, size int) (ListAwaitingReleaseQuery, error) {
	if err := admin.Validate(); err != nil {
		return ListAwaitingReleaseQuery{}, err
	}
	if !admin.IsAdmin() {
		return ListAwaitingReleaseQuery{}, errs.NewForbiddenError(admin.ID(), "list escrow awaiting release")
	}

	if page == 0 {
		page = DefaultPage
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		return ListAwaitingReleaseQuery{}, errs.NewValueIsOutOfRangeError("page", page, 1, "unbounded")
	}
	if size < 1 || size > MaxPageSize {
		return ListAwaitingReleaseQuery{}, errs.NewValueIsOutOfRangeError("size", size, 1, MaxPageSize)
	}

	return ListAwaitingReleaseQuery{
		admin: admin,
		page:  page,
		size:  size,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q ListAwaitingReleaseQuery) Validate() error {
	return q.guard.Validate(ErrListAwaitingReleaseQueryIsNotConstructed)
}

func (q ListAwaitingReleaseQuery) Page() int   { return q.page }
func (q ListAwaitingReleaseQuery) Size() int   { return q.size }
func (q ListAwaitingReleaseQuery) offset() int { return (q.page - 1) * q.size }

type ListAwaitingReleaseQueryResponse struct {
	Items []AwaitingReleaseView
	Total int64
	Page  int
	Size  int
}

// AwaitingReleaseView is one row of the admin release queue.
type AwaitingReleaseView struct {
	TransactionID kernel.UUID
	ItemID        kernel.UUID
	OrderID       kernel.UUID
	BuyerID       kernel.UUID
	SellerID      kernel.UUID
	Title         string
	Held          kernel.Money
	Fee           kernel.Money
	Payout        kernel.Money
	DeliveredAt   time.Time
}
