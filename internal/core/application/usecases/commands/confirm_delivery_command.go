package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand is a courier's delivery report with photo references
// returned by the image store.
//
// Example:
//
//	cmd, err := NewConfirmDeliveryCommand(itemID, courier, []string{"https://cdn/proof/1.jpg"})
//	if errors.Is(err, errs.ErrMissingProof) {
//	    // ask the courier to upload a photo
//	}
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	itemID  kernel.UUID
	courier kernel.Actor
	photos  []string

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand rejects an empty or blank photo list with
// errs.ErrMissingProof before anything is loaded.
func NewConfirmDeliveryCommand(itemID kernel.UUID, courier kernel.Actor, photos []string) (ConfirmDeliveryCommand, error) {
	if err := errors.Join(itemID.Validate(), courier.Validate(), order.ValidatePhotos(photos)); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return ConfirmDeliveryCommand{
		itemID:  itemID,
		courier: courier,
		photos:  append([]string(nil), photos...),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) ItemID() kernel.UUID   { return c.itemID }
func (c ConfirmDeliveryCommand) Courier() kernel.Actor { return c.courier }

func (c ConfirmDeliveryCommand) Photos() []string {
	return append([]string(nil), c.photos...)
}
