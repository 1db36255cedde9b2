package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	buyer := newActor(t, kernel.RoleBuyer)
	addressID := kernel.NewUUID()
	entries := []commands.CartEntry{{ProductID: kernel.NewUUID(), Notes: "fragile"}}

	cmd, err := commands.NewCreateOrderCommand(id, buyer, addressID, "card", entries)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, buyer, cmd.Buyer())
	assert.Equal(t, addressID, cmd.AddressID())
	assert.Equal(t, "card", cmd.PaymentMethod())
	assert.Equal(t, entries, cmd.Entries())
}

func TestNewCreateOrderCommand_EmptyCart(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), newActor(t, kernel.RoleBuyer), kernel.NewUUID(), "card", nil)
	require.ErrorIs(t, err, errs.ErrEmptyCart)
}

func TestNewCreateOrderCommand_DuplicateProduct(t *testing.T) {
	productID := kernel.NewUUID()
	entries := []commands.CartEntry{{ProductID: productID}, {ProductID: productID}}

	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), newActor(t, kernel.RoleBuyer), kernel.NewUUID(), "card", entries)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "appears more than once")
}

func TestNewCreateOrderCommand_NotABuyer(t *testing.T) {
	entries := []commands.CartEntry{{ProductID: kernel.NewUUID()}}

	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), newActor(t, kernel.RoleCourier), kernel.NewUUID(), "card", entries)

	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestNewCreateOrderCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.UUID{}, kernel.Actor{}, kernel.UUID{}, "", nil)

	require.Error(t, err)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, kernel.ErrActorIsNotConstructed)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrEmptyCart)
}

func TestCreateOrderCommand_NotConstructed(t *testing.T) {
	require.ErrorIs(t, commands.CreateOrderCommand{}.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
