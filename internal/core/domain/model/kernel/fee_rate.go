package kernel

import (
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// FeeRate is the platform commission charged on an item price, between 0 and 1.
// It depends on the seller's membership tier and is looked up at checkout.
type FeeRate struct {
	value decimal.Decimal
}

func NewFeeRate(value decimal.Decimal) (FeeRate, error) {
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(1)) {
		return FeeRate{}, errs.NewValueIsOutOfRangeError("fee rate", value.String(), "0", "1")
	}
	return FeeRate{value: value}, nil
}

func (r FeeRate) Value() decimal.Decimal {
	return r.value
}

func (r FeeRate) String() string {
	return r.value.String()
}
