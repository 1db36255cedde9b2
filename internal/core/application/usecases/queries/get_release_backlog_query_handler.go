package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetReleaseBacklogQueryHandler computes the size and age of the release
// queue. It only reads.
type GetReleaseBacklogQueryHandler struct {
	db *gorm.DB
}

func NewGetReleaseBacklogQueryHandler(db *gorm.DB) GetReleaseBacklogQueryHandler {
	return GetReleaseBacklogQueryHandler{db: db}
}

func (h GetReleaseBacklogQueryHandler) Handle(
	ctx context.Context,
	query GetReleaseBacklogQuery,
) (GetReleaseBacklogQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetReleaseBacklogQueryResponse{}, err
	}

	var row struct {
		Count     int64
		Overdue   int64
		HeldTotal decimal.Decimal
		Oldest    *time.Time
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*)                                        AS count,
			COUNT(*) FILTER (WHERE e.delivered_at < ?)      AS overdue,
			COALESCE(SUM(e.held), 0)                        AS held_total,
			MIN(e.delivered_at)                             AS oldest
		FROM escrow_records e
		JOIN order_items i ON i.id = e.item_id
		WHERE e.status = ? AND i.status = ?
	`, query.overdueBefore, int(escrow.Holding), int(order.Delivered)).Scan(&row).Error
	if err != nil {
		return GetReleaseBacklogQueryResponse{}, err
	}

	conv := newRowConverter("escrow_records")
	resp := GetReleaseBacklogQueryResponse{
		Count:             row.Count,
		Overdue:           row.Overdue,
		HeldTotal:         conv.money(row.HeldTotal),
		OldestDeliveredAt: row.Oldest,
	}
	if err = conv.err(); err != nil {
		return GetReleaseBacklogQueryResponse{}, err
	}

	return resp, nil
}
