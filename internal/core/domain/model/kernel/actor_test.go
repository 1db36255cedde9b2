package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Run("should parse known roles case-insensitively", func(t *testing.T) {
		for in, want := range map[string]kernel.Role{
			"buyer":   kernel.RoleBuyer,
			"Seller":  kernel.RoleSeller,
			"COURIER": kernel.RoleCourier,
			"admin":   kernel.RoleAdmin,
		} {
			got, err := kernel.ParseRole(in)

			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("should reject unknown role", func(t *testing.T) {
		_, err := kernel.ParseRole("warehouse")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestNewActor(t *testing.T) {
	t.Run("should create actor", func(t *testing.T) {
		id := kernel.NewUUID()
		actor, err := kernel.NewActor(id, kernel.RoleCourier)

		require.NoError(t, err)
		require.NoError(t, actor.Validate())
		assert.True(t, actor.Is(id, kernel.RoleCourier))
		assert.False(t, actor.Is(id, kernel.RoleSeller))
		assert.False(t, actor.IsAdmin())
		assert.Equal(t, "courier", actor.Role().String())
	})

	t.Run("should reject missing id and unknown role together", func(t *testing.T) {
		_, err := kernel.NewActor(kernel.UUID{}, kernel.RoleUnknown)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var actor kernel.Actor

		require.ErrorIs(t, actor.Validate(), kernel.ErrActorIsNotConstructed)
	})
}
