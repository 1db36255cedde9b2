package order

import (
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// DeliveryProof is the photographic evidence a courier submits when handing
// an item to the buyer. Proofs are append-only.
type DeliveryProof struct {
	id          kernel.UUID
	itemID      kernel.UUID
	photos      []string
	submittedBy kernel.UUID
	submittedAt time.Time
}

// NewDeliveryProof requires at least one photo reference and rejects blank ones.
// Both failures wrap errs.ErrMissingProof.
func NewDeliveryProof(id, itemID kernel.UUID, photos []string, submittedBy kernel.UUID, at time.Time) (DeliveryProof, error) {
	if err := ValidatePhotos(photos); err != nil {
		return DeliveryProof{}, err
	}
	if err := id.Validate(); err != nil {
		return DeliveryProof{}, err
	}

	return DeliveryProof{
		id:          id,
		itemID:      itemID,
		photos:      append([]string(nil), photos...),
		submittedBy: submittedBy,
		submittedAt: at,
	}, nil
}

// ValidatePhotos checks a list of photo references before any state is touched.
func ValidatePhotos(photos []string) error {
	if len(photos) == 0 {
		return errs.ErrMissingProof
	}
	for i, p := range photos {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: photo %d is blank", errs.ErrMissingProof, i)
		}
	}
	return nil
}

func (p DeliveryProof) ID() kernel.UUID          { return p.id }
func (p DeliveryProof) ItemID() kernel.UUID      { return p.itemID }
func (p DeliveryProof) SubmittedBy() kernel.UUID { return p.submittedBy }
func (p DeliveryProof) SubmittedAt() time.Time   { return p.submittedAt }

// Photos returns a copy of the ordered photo references.
func (p DeliveryProof) Photos() []string {
	return append([]string(nil), p.photos...)
}
