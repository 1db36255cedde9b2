package queries_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func TestQueries_NotConstructedViaConstructor(t *testing.T) {
	testCases := []struct {
		name     string
		validate func() error
		expected error
	}{
		{"order detail", queries.GetOrderDetailQuery{}.Validate, queries.ErrGetOrderDetailQueryIsNotConstructed},
		{"pickup items", queries.ListPickupItemsQuery{}.Validate, queries.ErrListPickupItemsQueryIsNotConstructed},
		{"awaiting release", queries.ListAwaitingReleaseQuery{}.Validate, queries.ErrListAwaitingReleaseQueryIsNotConstructed},
		{"release backlog", queries.GetReleaseBacklogQuery{}.Validate, queries.ErrGetReleaseBacklogQueryIsNotConstructed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.validate(), tc.expected)
		})
	}

	require.NoError(t, queries.NewGetReleaseBacklogQuery(time.Now()).Validate())
}

func TestNewGetOrderDetailQuery(t *testing.T) {
	query, err := queries.NewGetOrderDetailQuery(kernel.NewUUID(), newActor(t, kernel.RoleBuyer))
	require.NoError(t, err)
	require.NoError(t, query.Validate())

	_, err = queries.NewGetOrderDetailQuery(kernel.UUID{}, newActor(t, kernel.RoleBuyer))
	require.Error(t, err)
}

func TestNewListPickupItemsQuery(t *testing.T) {
	courier := newActor(t, kernel.RoleCourier)

	t.Run("should allow the courier themselves", func(t *testing.T) {
		query, err := queries.NewListPickupItemsQuery(courier.ID(), courier)
		require.NoError(t, err)
		assert.True(t, query.CourierID().IsEqual(courier.ID()))
	})

	t.Run("should allow an admin", func(t *testing.T) {
		_, err := queries.NewListPickupItemsQuery(courier.ID(), newActor(t, kernel.RoleAdmin))
		require.NoError(t, err)
	})

	t.Run("should forbid other couriers and sellers", func(t *testing.T) {
		for _, role := range []kernel.Role{kernel.RoleCourier, kernel.RoleSeller, kernel.RoleBuyer} {
			_, err := queries.NewListPickupItemsQuery(courier.ID(), newActor(t, role))
			require.ErrorIs(t, err, errs.ErrForbidden, role.String())
		}
	})
}

func TestNewListAwaitingReleaseQuery(t *testing.T) {
	admin := newActor(t, kernel.RoleAdmin)

	t.Run("should apply defaults", func(t *testing.T) {
		query, err := queries.NewListAwaitingReleaseQuery(admin, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, query.Page())
		assert.Equal(t, 20, query.Size())
	})

	t.Run("should keep explicit values", func(t *testing.T) {
		query, err := queries.NewListAwaitingReleaseQuery(admin, 3, 100)
		require.NoError(t, err)
		assert.Equal(t, 3, query.Page())
		assert.Equal(t, 100, query.Size())
	})

	t.Run("should reject out of range paging", func(t *testing.T) {
		for _, tc := range []struct{ page, size int }{{-1, 20}, {1, 101}, {1, -5}} {
			_, err := queries.NewListAwaitingReleaseQuery(admin, tc.page, tc.size)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange, "%+v", tc)
		}
	})

	t.Run("should forbid non admins", func(t *testing.T) {
		_, err := queries.NewListAwaitingReleaseQuery(newActor(t, kernel.RoleSeller), 1, 20)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}
