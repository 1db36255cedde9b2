package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListPickupItemsQueryHandler struct {
	db *gorm.DB
}

func NewListPickupItemsQueryHandler(db *gorm.DB) ListPickupItemsQueryHandler {
	return ListPickupItemsQueryHandler{db: db}
}

// Handle returns items waiting for any courier together with the items the
// courier holds in the warehouse or out for delivery, oldest order first.
func (h ListPickupItemsQueryHandler) Handle(
	ctx context.Context,
	query ListPickupItemsQuery,
) ([]ListPickupItemsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	items := make([]ListPickupItemsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			i.id,
			i.order_id,
			i.seller_id,
			i.status,
			i.product_title,
			i.notes,
			o.address_recipient,
			o.address_street,
			o.address_city,
			o.address_region,
			o.address_postal_code,
			o.address_country,
			o.address_phone,
			o.created_at
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE i.status = ?
		   OR (i.courier_id = ? AND i.status IN (?, ?))
		ORDER BY o.created_at, i.position
	`, int(order.AwaitingPickup), query.CourierID().Bytes(), int(order.InWarehouse), int(order.OutForDelivery)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, orderID, sellerID uuid.UUID
			status                int
			createdAt             time.Time
			item                  ListPickupItemsQueryResponse
		)

		err = rows.Scan(
			&id,
			&orderID,
			&sellerID,
			&status,
			&item.Title,
			&item.Notes,
			&item.Address.Recipient,
			&item.Address.Street,
			&item.Address.City,
			&item.Address.Region,
			&item.Address.PostalCode,
			&item.Address.Country,
			&item.Address.Phone,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		conv := newRowConverter("order_items")
		item.ItemID = conv.id(id)
		item.OrderID = conv.id(orderID)
		item.SellerID = conv.id(sellerID)
		item.Status = conv.itemStatus(status)
		item.OrderCreatedAt = createdAt
		if err = conv.err(); err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
