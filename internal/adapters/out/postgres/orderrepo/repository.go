package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres error codes reported as a lost race between two writers.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items and escrow records.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&dto).Error; err != nil {
			return err
		}
		for _, item := range dto.Items {
			if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
				return err
			}
			if err := tx.Create(&item.Escrow).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classify(err, "order", aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every changed item of the order under its version check,
// together with its escrow record and the pending proofs and transitions.
// Unchanged items are not touched.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	var dirty []*order.Item
	for _, item := range aggregate.Items() {
		if item.IsDirty() {
			dirty = append(dirty, item)
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&OrderDTO{}).
			Where("id = ?", aggregate.ID().Bytes()).
			Update("payment_reference", aggregate.PaymentReference()).Error; err != nil {
			return err
		}

		for _, item := range dirty {
			if err := updateItem(tx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, item := range dirty {
		item.MarkPersisted()
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func updateItem(tx *gorm.DB, item *order.Item) error {
	dto := itemFromDomain(item)

	result := tx.Model(&OrderItemDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":     dto.Status,
			"courier_id": dto.CourierID,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return classify(result.Error, "order item", item.ID())
	}
	if result.RowsAffected == 0 {
		return errs.NewStateConflictError("order item", item.ID().String())
	}

	rec := dto.Escrow
	if err := tx.Model(&EscrowRecordDTO{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"status":       rec.Status,
			"delivered_at": rec.DeliveredAt,
			"released_at":  rec.ReleasedAt,
			"finalized_at": rec.FinalizedAt,
			"finalized_by": rec.FinalizedBy,
		}).Error; err != nil {
		return classify(err, "escrow record", item.Escrow().ID())
	}

	for _, proof := range item.PendingProofs() {
		proofDTO := proofFromDomain(proof)
		if err := tx.Create(&proofDTO).Error; err != nil {
			return classify(err, "order item", item.ID())
		}
	}
	for _, transition := range item.PendingTransitions() {
		transitionDTO := transitionFromDomain(transition)
		if err := tx.Create(&transitionDTO).Error; err != nil {
			return classify(err, "order item", item.ID())
		}
	}

	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Items.Escrow").
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	restored, err := toDomain(dto)
	if err != nil {
		return nil, errs.NewCorruptDataError("order", id.String(), err)
	}
	return restored, nil
}

// GetByItemID retrieves the order that contains the item.
func (r *GormOrderRepository) GetByItemID(ctx context.Context, itemID kernel.UUID) (*order.Order, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	var row struct{ OrderID uuid.UUID }
	err := r.db.WithContext(ctx).
		Model(&OrderItemDTO{}).
		Select("order_id").
		Where("id = ?", itemID.Bytes()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order item", itemID.String())
		}
		return nil, err
	}

	return r.getByRawID(ctx, row.OrderID)
}

// GetByEscrowID retrieves the order whose item owns the escrow record.
func (r *GormOrderRepository) GetByEscrowID(ctx context.Context, escrowID kernel.UUID) (*order.Order, error) {
	if err := escrowID.Validate(); err != nil {
		return nil, err
	}

	var row struct{ OrderID uuid.UUID }
	err := r.db.WithContext(ctx).
		Table("escrow_records e").
		Select("i.order_id").
		Joins("JOIN order_items i ON i.id = e.item_id").
		Where("e.id = ?", escrowID.Bytes()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("escrow record", escrowID.String())
		}
		return nil, err
	}

	return r.getByRawID(ctx, row.OrderID)
}

func (r *GormOrderRepository) getByRawID(ctx context.Context, raw uuid.UUID) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, errs.NewCorruptDataError("order", raw.String(), err)
	}
	return r.Get(ctx, id)
}

// classify turns write races detected by Postgres into StateConflictError.
func classify(err error, entity string, id kernel.UUID) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgSerializationFailure, pgDeadlockDetected:
			return errs.NewStateConflictErrorWithCause(entity, id.String(), err)
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewStateConflictErrorWithCause(entity, id.String(), err)
	}
	return err
}
