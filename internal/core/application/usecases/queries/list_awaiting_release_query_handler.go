package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListAwaitingReleaseQueryHandler lists escrow records that still hold money
// for delivered items, newest delivery first.
//
// Example:
//
//	query, err := NewListAwaitingReleaseQuery(admin, 1, 20)
//	if err != nil {
//	    return err
//	}
//	page, err := handler.Handle(ctx, query)
//	fmt.Printf("%d of %d awaiting release\n", len(page.Items), page.Total)
type ListAwaitingReleaseQueryHandler struct {
	db *gorm.DB
}

func NewListAwaitingReleaseQueryHandler(db *gorm.DB) ListAwaitingReleaseQueryHandler {
	return ListAwaitingReleaseQueryHandler{db: db}
}

func (h ListAwaitingReleaseQueryHandler) Handle(
	ctx context.Context,
	query ListAwaitingReleaseQuery,
) (ListAwaitingReleaseQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListAwaitingReleaseQueryResponse{}, err
	}

	resp := ListAwaitingReleaseQueryResponse{
		Items: make([]AwaitingReleaseView, 0),
		Page:  query.Page(),
		Size:  query.Size(),
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM escrow_records e
		JOIN order_items i ON i.id = e.item_id
		WHERE e.status = ? AND i.status = ?
	`, int(escrow.Holding), int(order.Delivered)).Scan(&resp.Total).Error
	if err != nil {
		return ListAwaitingReleaseQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			e.id,
			i.id,
			i.order_id,
			o.buyer_id,
			i.seller_id,
			i.product_title,
			e.held,
			e.fee,
			e.payout,
			e.delivered_at
		FROM escrow_records e
		JOIN order_items i ON i.id = e.item_id
		JOIN orders o ON o.id = i.order_id
		WHERE e.status = ? AND i.status = ?
		ORDER BY e.delivered_at DESC, e.id
		LIMIT ? OFFSET ?
	`, int(escrow.Holding), int(order.Delivered), query.Size(), query.offset()).Rows()
	if err != nil {
		return ListAwaitingReleaseQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			escrowID, itemID, orderID, buyerID, sellerID uuid.UUID
			held, fee, payout                            decimal.Decimal
			deliveredAt                                  time.Time
			view                                         AwaitingReleaseView
		)

		err = rows.Scan(
			&escrowID,
			&itemID,
			&orderID,
			&buyerID,
			&sellerID,
			&view.Title,
			&held,
			&fee,
			&payout,
			&deliveredAt,
		)
		if err != nil {
			return ListAwaitingReleaseQueryResponse{}, err
		}

		conv := newRowConverter("escrow_records")
		view.TransactionID = conv.id(escrowID)
		view.ItemID = conv.id(itemID)
		view.OrderID = conv.id(orderID)
		view.BuyerID = conv.id(buyerID)
		view.SellerID = conv.id(sellerID)
		view.Held = conv.money(held)
		view.Fee = conv.money(fee)
		view.Payout = conv.money(payout)
		view.DeliveredAt = deliveredAt
		if err = conv.err(); err != nil {
			return ListAwaitingReleaseQueryResponse{}, err
		}

		resp.Items = append(resp.Items, view)
	}

	if err = rows.Err(); err != nil {
		return ListAwaitingReleaseQueryResponse{}, err
	}

	return resp, nil
}
