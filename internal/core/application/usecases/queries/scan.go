package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/escrow"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// rowConverter turns raw column values into domain values through their
// constructors and collects every failure. A row with any failure is
// reported as CorruptDataError instead of being shown.
type rowConverter struct {
	table string
	errs  []error
}

func newRowConverter(table string) *rowConverter {
	return &rowConverter{table: table}
}

func (c *rowConverter) id(raw uuid.UUID) kernel.UUID {
	id, err := kernel.UUIDFromBytes(raw[:])
	c.collect(err)
	return id
}

func (c *rowConverter) optionalID(raw uuid.NullUUID) *kernel.UUID {
	if !raw.Valid {
		return nil
	}
	id := c.id(raw.UUID)
	return &id
}

func (c *rowConverter) money(raw decimal.Decimal) kernel.Money {
	m, err := kernel.NewMoney(raw)
	c.collect(err)
	return m
}

func (c *rowConverter) itemStatus(raw int) order.Status {
	status := order.Status(raw)
	c.collect(status.Validate())
	return status
}

func (c *rowConverter) escrowStatus(raw int) escrow.Status {
	status := escrow.Status(raw)
	c.collect(status.Validate())
	return status
}

func (c *rowConverter) collect(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

func (c *rowConverter) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return errs.NewCorruptDataError(c.table, "row", errors.Join(c.errs...))
}
