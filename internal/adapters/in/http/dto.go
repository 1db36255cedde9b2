package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type NewOrder struct {
	AddressID     uuid.UUID  `json:"addressId"`
	PaymentMethod string     `json:"paymentMethod"`
	Items         []CartItem `json:"items"`
}

type CartItem struct {
	ProductID uuid.UUID `json:"productId"`
	Notes     string    `json:"notes,omitempty"`
}

type OrderCreated struct {
	ID string `json:"id"`
}

type DeliveryProof struct {
	Photos []string `json:"photos"`
}

type Address struct {
	Recipient  string `json:"recipient"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type Escrow struct {
	TransactionID string     `json:"transactionId"`
	Status        string     `json:"status"`
	Held          string     `json:"held"`
	Fee           string     `json:"fee"`
	Payout        string     `json:"payout"`
	DeliveredAt   *time.Time `json:"deliveredAt,omitempty"`
	ReleasedAt    *time.Time `json:"releasedAt,omitempty"`
}

type OrderItem struct {
	ID          string  `json:"id"`
	Position    int     `json:"position"`
	ProductID   string  `json:"productId"`
	Title       string  `json:"title"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Condition   string  `json:"condition,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       string  `json:"price"`
	ShippingFee string  `json:"shippingFee"`
	Notes       string  `json:"notes,omitempty"`
	Status      string  `json:"status"`
	CourierID   *string `json:"courierId,omitempty"`
	Escrow      Escrow  `json:"escrow"`
}

type SellerItems struct {
	SellerID string      `json:"sellerId"`
	Items    []OrderItem `json:"items"`
}

type OrderDetail struct {
	ID               string        `json:"id"`
	BuyerID          string        `json:"buyerId"`
	Status           string        `json:"status"`
	PaymentMethod    string        `json:"paymentMethod"`
	PaymentReference string        `json:"paymentReference,omitempty"`
	Address          Address       `json:"address"`
	ItemsTotal       string        `json:"itemsTotal"`
	ShippingTotal    string        `json:"shippingTotal"`
	PlatformFeeTotal string        `json:"platformFeeTotal"`
	GrandTotal       string        `json:"grandTotal"`
	CreatedAt        time.Time     `json:"createdAt"`
	Sellers          []SellerItems `json:"sellers"`
}

type PickupItem struct {
	ItemID         string    `json:"itemId"`
	OrderID        string    `json:"orderId"`
	SellerID       string    `json:"sellerId"`
	Status         string    `json:"status"`
	Title          string    `json:"title"`
	Notes          string    `json:"notes,omitempty"`
	Address        Address   `json:"address"`
	OrderCreatedAt time.Time `json:"orderCreatedAt"`
}

type AwaitingRelease struct {
	TransactionID string    `json:"transactionId"`
	ItemID        string    `json:"itemId"`
	OrderID       string    `json:"orderId"`
	BuyerID       string    `json:"buyerId"`
	SellerID      string    `json:"sellerId"`
	Title         string    `json:"title"`
	Held          string    `json:"held"`
	Fee           string    `json:"fee"`
	Payout        string    `json:"payout"`
	DeliveredAt   time.Time `json:"deliveredAt"`
}

type AwaitingReleasePage struct {
	Items []AwaitingRelease `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
}

func toAddress(v queries.AddressView) Address {
	return Address{
		Recipient:  v.Recipient,
		Street:     v.Street,
		City:       v.City,
		Region:     v.Region,
		PostalCode: v.PostalCode,
		Country:    v.Country,
		Phone:      v.Phone,
	}
}

func toOrderDetail(r queries.GetOrderDetailQueryResponse) OrderDetail {
	sellers := make([]SellerItems, 0, len(r.Sellers))
	for _, group := range r.Sellers {
		items := make([]OrderItem, 0, len(group.Items))
		for _, item := range group.Items {
			items = append(items, toOrderItem(item))
		}
		sellers = append(sellers, SellerItems{SellerID: group.SellerID.String(), Items: items})
	}

	return OrderDetail{
		ID:               r.ID.String(),
		BuyerID:          r.BuyerID.String(),
		Status:           r.Status.String(),
		PaymentMethod:    r.PaymentMethod,
		PaymentReference: r.PaymentReference,
		Address:          toAddress(r.Address),
		ItemsTotal:       r.ItemsTotal.String(),
		ShippingTotal:    r.ShippingTotal.String(),
		PlatformFeeTotal: r.PlatformFeeTotal.String(),
		GrandTotal:       r.GrandTotal.String(),
		CreatedAt:        r.CreatedAt,
		Sellers:          sellers,
	}
}

func toOrderItem(v queries.OrderItemView) OrderItem {
	return OrderItem{
		ID:          v.ID.String(),
		Position:    v.Position,
		ProductID:   v.ProductID.String(),
		Title:       v.Title,
		ImageURL:    v.ImageURL,
		Condition:   v.Condition,
		Category:    v.Category,
		Price:       v.Price.String(),
		ShippingFee: v.ShippingFee.String(),
		Notes:       v.Notes,
		Status:      v.Status.String(),
		CourierID:   optionalString(v.CourierID),
		Escrow: Escrow{
			TransactionID: v.Escrow.TransactionID.String(),
			Status:        v.Escrow.Status.String(),
			Held:          v.Escrow.Held.String(),
			Fee:           v.Escrow.Fee.String(),
			Payout:        v.Escrow.Payout.String(),
			DeliveredAt:   v.Escrow.DeliveredAt,
			ReleasedAt:    v.Escrow.ReleasedAt,
		},
	}
}

func toPickupItems(rows []queries.ListPickupItemsQueryResponse) []PickupItem {
	items := make([]PickupItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, PickupItem{
			ItemID:         row.ItemID.String(),
			OrderID:        row.OrderID.String(),
			SellerID:       row.SellerID.String(),
			Status:         row.Status.String(),
			Title:          row.Title,
			Notes:          row.Notes,
			Address:        toAddress(row.Address),
			OrderCreatedAt: row.OrderCreatedAt,
		})
	}
	return items
}

func toAwaitingReleasePage(r queries.ListAwaitingReleaseQueryResponse) AwaitingReleasePage {
	items := make([]AwaitingRelease, 0, len(r.Items))
	for _, row := range r.Items {
		items = append(items, AwaitingRelease{
			TransactionID: row.TransactionID.String(),
			ItemID:        row.ItemID.String(),
			OrderID:       row.OrderID.String(),
			BuyerID:       row.BuyerID.String(),
			SellerID:      row.SellerID.String(),
			Title:         row.Title,
			Held:          row.Held.String(),
			Fee:           row.Fee.String(),
			Payout:        row.Payout.String(),
			DeliveredAt:   row.DeliveredAt,
		})
	}
	return AwaitingReleasePage{Items: items, Total: r.Total, Page: r.Page, Size: r.Size}
}

func optionalString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
