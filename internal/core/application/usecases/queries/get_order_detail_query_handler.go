package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderDetailQueryHandler reads the order detail projection straight from
// the database.
//
// Example:
//
//	handler := NewGetOrderDetailQueryHandler(db)
//	query, _ := NewGetOrderDetailQuery(orderID, requester)
//
//	detail, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err // ObjectNotFoundError or ForbiddenError
//	}
//	fmt.Println(detail.Status, detail.GrandTotal)
type GetOrderDetailQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderDetailQueryHandler(db *gorm.DB) GetOrderDetailQueryHandler {
	return GetOrderDetailQueryHandler{db: db}
}

// Handle returns ObjectNotFoundError for an unknown order and ForbiddenError
// unless the requester is the buyer, a seller of one of the items, or an
// administrator. Access is decided on the raw ids before any row is
// converted, so a corrupt order is only reported to those who may see it.
func (h GetOrderDetailQueryHandler) Handle(
	ctx context.Context,
	query GetOrderDetailQuery,
) (GetOrderDetailQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderDetailQueryResponse{}, err
	}

	header, err := h.readHeader(ctx, query.OrderID())
	if err != nil {
		return GetOrderDetailQueryResponse{}, err
	}

	rows, err := h.readItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderDetailQueryResponse{}, err
	}

	requester := query.Requester()
	allowed := requester.IsAdmin() || actsAs(requester, header.BuyerID, kernel.RoleBuyer)
	for _, row := range rows {
		allowed = allowed || actsAs(requester, row.SellerID, kernel.RoleSeller)
	}
	if !allowed {
		return GetOrderDetailQueryResponse{}, errs.NewForbiddenError(requester.ID(), "view order "+query.OrderID().String())
	}

	resp, err := header.toView()
	if err != nil {
		return GetOrderDetailQueryResponse{}, err
	}

	items := make([]sellerItem, 0, len(rows))
	statuses := make([]order.Status, 0, len(rows))
	for _, row := range rows {
		item, convErr := row.toView()
		if convErr != nil {
			return GetOrderDetailQueryResponse{}, convErr
		}
		items = append(items, item)
		statuses = append(statuses, item.view.Status)
	}

	resp.Status = order.DeriveStatus(statuses...)
	resp.Sellers = groupBySeller(items)
	resp.GrandTotal = resp.ItemsTotal.Add(resp.ShippingTotal)
	return resp, nil
}

func actsAs(requester kernel.Actor, raw uuid.UUID, role kernel.Role) bool {
	return requester.Role() == role && requester.ID().Bytes() == raw
}

type orderHeaderRow struct {
	ID               uuid.UUID
	BuyerID          uuid.UUID
	PaymentMethod    string
	PaymentReference string
	AddressView
	ItemsTotal       decimal.Decimal
	ShippingTotal    decimal.Decimal
	PlatformFeeTotal decimal.Decimal
	CreatedAt        time.Time
}

func (row orderHeaderRow) toView() (GetOrderDetailQueryResponse, error) {
	conv := newRowConverter("orders")
	resp := GetOrderDetailQueryResponse{
		ID:               conv.id(row.ID),
		BuyerID:          conv.id(row.BuyerID),
		PaymentMethod:    row.PaymentMethod,
		PaymentReference: row.PaymentReference,
		Address:          row.AddressView,
		ItemsTotal:       conv.money(row.ItemsTotal),
		ShippingTotal:    conv.money(row.ShippingTotal),
		PlatformFeeTotal: conv.money(row.PlatformFeeTotal),
		CreatedAt:        row.CreatedAt,
	}
	if err := conv.err(); err != nil {
		return GetOrderDetailQueryResponse{}, err
	}
	return resp, nil
}

func (h GetOrderDetailQueryHandler) readHeader(ctx context.Context, orderID kernel.UUID) (orderHeaderRow, error) {
	var row orderHeaderRow

	result := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			buyer_id,
			payment_method,
			payment_reference,
			address_recipient   AS recipient,
			address_street      AS street,
			address_city        AS city,
			address_region      AS region,
			address_postal_code AS postal_code,
			address_country     AS country,
			address_phone       AS phone,
			items_total,
			shipping_total,
			platform_fee_total,
			created_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Scan(&row)
	if result.Error != nil {
		return orderHeaderRow{}, result.Error
	}
	if result.RowsAffected == 0 {
		return orderHeaderRow{}, errs.NewObjectNotFoundError("order", orderID.String())
	}

	return row, nil
}

type sellerItem struct {
	sellerID kernel.UUID
	view     OrderItemView
}

// orderItemRow holds one item joined with its escrow record as stored.
type orderItemRow struct {
	ID, SellerID, ProductID, EscrowID uuid.UUID
	CourierID                         uuid.NullUUID
	Price, ShippingFee                decimal.Decimal
	Held, Fee, Payout                 decimal.Decimal
	Status, EscrowStatus              int
	view                              OrderItemView
}

func (row orderItemRow) toView() (sellerItem, error) {
	item := row.view
	conv := newRowConverter("order_items")
	item.ID = conv.id(row.ID)
	item.ProductID = conv.id(row.ProductID)
	item.CourierID = conv.optionalID(row.CourierID)
	item.Price = conv.money(row.Price)
	item.ShippingFee = conv.money(row.ShippingFee)
	item.Status = conv.itemStatus(row.Status)
	item.Escrow.TransactionID = conv.id(row.EscrowID)
	item.Escrow.Status = conv.escrowStatus(row.EscrowStatus)
	item.Escrow.Held = conv.money(row.Held)
	item.Escrow.Fee = conv.money(row.Fee)
	item.Escrow.Payout = conv.money(row.Payout)
	seller := conv.id(row.SellerID)
	if err := conv.err(); err != nil {
		return sellerItem{}, err
	}
	return sellerItem{sellerID: seller, view: item}, nil
}

func (h GetOrderDetailQueryHandler) readItems(ctx context.Context, orderID kernel.UUID) ([]orderItemRow, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			i.id,
			i.position,
			i.seller_id,
			i.product_id,
			i.product_title,
			i.product_image_url,
			i.product_condition,
			i.product_category,
			i.price,
			i.shipping_fee,
			i.notes,
			i.status,
			i.courier_id,
			e.id,
			e.status,
			e.held,
			e.fee,
			e.payout,
			e.delivered_at,
			e.released_at
		FROM order_items i
		JOIN escrow_records e ON e.item_id = i.id
		WHERE i.order_id = ?
		ORDER BY i.position
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]orderItemRow, 0)
	for rows.Next() {
		var row orderItemRow
		err = rows.Scan(
			&row.ID,
			&row.view.Position,
			&row.SellerID,
			&row.ProductID,
			&row.view.Title,
			&row.view.ImageURL,
			&row.view.Condition,
			&row.view.Category,
			&row.Price,
			&row.ShippingFee,
			&row.view.Notes,
			&row.Status,
			&row.CourierID,
			&row.EscrowID,
			&row.EscrowStatus,
			&row.Held,
			&row.Fee,
			&row.Payout,
			&row.view.Escrow.DeliveredAt,
			&row.view.Escrow.ReleasedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// groupBySeller keeps sellers in the order their first item appears.
func groupBySeller(items []sellerItem) []SellerItemsView {
	groups := make([]SellerItemsView, 0)
	index := make(map[kernel.UUID]int)
	for _, item := range items {
		i, ok := index[item.sellerID]
		if !ok {
			i = len(groups)
			index[item.sellerID] = i
			groups = append(groups, SellerItemsView{SellerID: item.sellerID})
		}
		groups[i].Items = append(groups[i].Items, item.view)
	}
	return groups
}
