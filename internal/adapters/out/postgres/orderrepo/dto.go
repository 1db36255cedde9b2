// Package orderrepo persists the Order aggregate in five tables: orders,
// order_items, escrow_records, delivery_proofs and order_item_transitions.
// It maps between domain entities and GORM data transfer objects.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderDTO is the order header. Totals are stored for read projections; they
// are fixed at checkout and never rewritten.
type OrderDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuyerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Address          AddressDTO      `gorm:"embedded;embeddedPrefix:address_"`
	PaymentMethod    string          `gorm:"not null"`
	PaymentReference string          `gorm:"not null;default:''"`
	ItemsTotal       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ShippingTotal    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PlatformFeeTotal decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt        time.Time       `gorm:"not null;index"`
	Items            []OrderItemDTO  `gorm:"foreignKey:OrderID"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO is the shipping address snapshot embedded in the order row.
type AddressDTO struct {
	Recipient  string `gorm:"not null"`
	Street     string `gorm:"not null"`
	City       string `gorm:"not null"`
	Region     string
	PostalCode string
	Country    string `gorm:"not null"`
	Phone      string
}

// OrderItemDTO is one item row. Version is the optimistic lock.
type OrderItemDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Product     ProductDTO      `gorm:"embedded;embeddedPrefix:product_"`
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ShippingFee decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Notes       string          `gorm:"type:varchar(500)"`
	Status      int             `gorm:"not null;index"`
	CourierID   *uuid.UUID      `gorm:"type:uuid;index"`
	Version     int             `gorm:"not null"`
	Escrow      EscrowRecordDTO `gorm:"foreignKey:ItemID"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// ProductDTO is the product snapshot embedded in the item row.
type ProductDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;not null"`
	Title     string    `gorm:"not null"`
	ImageURL  string
	Condition string
	Category  string
}

// EscrowRecordDTO is the escrow ledger row, one per item.
type EscrowRecordDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Held        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Fee         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Payout      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status      int             `gorm:"not null;index"`
	DeliveredAt *time.Time      `gorm:"index"`
	ReleasedAt  *time.Time
	FinalizedAt *time.Time
	FinalizedBy *uuid.UUID `gorm:"type:uuid"`
}

func (EscrowRecordDTO) TableName() string {
	return "escrow_records"
}

// DeliveryProofDTO is an append-only delivery proof row.
type DeliveryProofDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ItemID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Photos      pq.StringArray `gorm:"type:text[];not null"`
	SubmittedBy uuid.UUID      `gorm:"type:uuid;not null"`
	SubmittedAt time.Time      `gorm:"not null"`
}

func (DeliveryProofDTO) TableName() string {
	return "delivery_proofs"
}

// ItemTransitionDTO is an append-only audit row of an item status change.
type ItemTransitionDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID     uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus int       `gorm:"not null"`
	ToStatus   int       `gorm:"not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole  string    `gorm:"not null"`
	At         time.Time `gorm:"not null"`
}

func (ItemTransitionDTO) TableName() string {
	return "order_item_transitions"
}

// Models lists every table of the package in creation order.
func Models() []any {
	return []any{&OrderDTO{}, &OrderItemDTO{}, &EscrowRecordDTO{}, &DeliveryProofDTO{}, &ItemTransitionDTO{}}
}

// Migrate creates or updates the order tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func fromDomain(o *order.Order) OrderDTO {
	a := o.Address()
	dto := OrderDTO{
		ID:      o.ID().Bytes(),
		BuyerID: o.BuyerID().Bytes(),
		Address: AddressDTO{
			Recipient:  a.Recipient(),
			Street:     a.Street(),
			City:       a.City(),
			Region:     a.Region(),
			PostalCode: a.PostalCode(),
			Country:    a.Country(),
			Phone:      a.Phone(),
		},
		PaymentMethod:    o.PaymentMethod(),
		PaymentReference: o.PaymentReference(),
		ItemsTotal:       o.ItemsTotal().Amount(),
		ShippingTotal:    o.ShippingTotal().Amount(),
		PlatformFeeTotal: o.PlatformFeeTotal().Amount(),
		CreatedAt:        o.CreatedAt(),
	}

	for _, item := range o.Items() {
		dto.Items = append(dto.Items, itemFromDomain(item))
	}
	return dto
}

func itemFromDomain(item *order.Item) OrderItemDTO {
	p := item.Product()
	return OrderItemDTO{
		ID:       item.ID().Bytes(),
		OrderID:  item.OrderID().Bytes(),
		Position: item.Position(),
		Product: ProductDTO{
			ID:        p.ProductID().Bytes(),
			Title:     p.Title(),
			ImageURL:  p.ImageURL(),
			Condition: p.Condition(),
			Category:  p.Category(),
		},
		SellerID:    item.SellerID().Bytes(),
		Price:       item.Price().Amount(),
		ShippingFee: item.ShippingFee().Amount(),
		Notes:       item.Notes(),
		Status:      int(item.Status()),
		CourierID:   optionalID(item.AssignedCourier()),
		Version:     item.Version(),
		Escrow:      escrowFromDomain(item.Escrow()),
	}
}

func escrowFromDomain(r *escrow.Record) EscrowRecordDTO {
	return EscrowRecordDTO{
		ID:          r.ID().Bytes(),
		ItemID:      r.ItemID().Bytes(),
		Held:        r.Held().Amount(),
		Fee:         r.Fee().Amount(),
		Payout:      r.Payout().Amount(),
		Status:      int(r.Status()),
		DeliveredAt: r.DeliveredAt(),
		ReleasedAt:  r.ReleasedAt(),
		FinalizedAt: r.FinalizedAt(),
		FinalizedBy: optionalID(r.FinalizedBy()),
	}
}

func proofFromDomain(p order.DeliveryProof) DeliveryProofDTO {
	return DeliveryProofDTO{
		ID:          p.ID().Bytes(),
		ItemID:      p.ItemID().Bytes(),
		Photos:      pq.StringArray(p.Photos()),
		SubmittedBy: p.SubmittedBy().Bytes(),
		SubmittedAt: p.SubmittedAt(),
	}
}

func transitionFromDomain(t order.Transition) ItemTransitionDTO {
	return ItemTransitionDTO{
		ID:         t.ID().Bytes(),
		ItemID:     t.ItemID().Bytes(),
		FromStatus: int(t.From()),
		ToStatus:   int(t.To()),
		ActorID:    t.ActorID().Bytes(),
		ActorRole:  t.ActorRole().String(),
		At:         t.At(),
	}
}

// toDomain rebuilds the aggregate. Unknown status values and inconsistent
// escrow amounts are returned as errors, never repaired.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}

	address, err := order.NewAddressSnapshot(
		dto.Address.Recipient, dto.Address.Street, dto.Address.City, dto.Address.Region,
		dto.Address.PostalCode, dto.Address.Country, dto.Address.Phone,
	)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(id, buyerID, address, dto.PaymentMethod, dto.PaymentReference, items, dto.CreatedAt)
}

func itemToDomain(dto OrderItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.Product.ID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := restoreOptionalID(dto.CourierID)
	if err != nil {
		return nil, err
	}

	product, err := order.NewProductSnapshot(productID, dto.Product.Title, dto.Product.ImageURL,
		dto.Product.Condition, dto.Product.Category)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}
	shippingFee, err := kernel.NewMoney(dto.ShippingFee)
	if err != nil {
		return nil, err
	}

	record, err := escrowToDomain(dto.Escrow)
	if err != nil {
		return nil, err
	}

	return order.RestoreItem(id, orderID, dto.Position, product, sellerID, price, shippingFee, dto.Notes,
		order.Status(dto.Status), courierID, dto.Version, record)
}

func escrowToDomain(dto EscrowRecordDTO) (*escrow.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
	if err != nil {
		return nil, err
	}
	finalizedBy, err := restoreOptionalID(dto.FinalizedBy)
	if err != nil {
		return nil, err
	}

	held, err := kernel.NewMoney(dto.Held)
	if err != nil {
		return nil, err
	}
	fee, err := kernel.NewMoney(dto.Fee)
	if err != nil {
		return nil, err
	}
	payout, err := kernel.NewMoney(dto.Payout)
	if err != nil {
		return nil, err
	}

	return escrow.RestoreRecord(id, itemID, held, fee, payout, escrow.Status(dto.Status),
		dto.DeliveredAt, dto.ReleasedAt, dto.FinalizedAt, finalizedBy)
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent id
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
