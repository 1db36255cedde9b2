package guard_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errShipmentNotConstructed = errors.New("shipment must be created via newShipment")

type shipment struct {
	trackingCode string
	guard        guard.ConstructorGuard
}

func newShipment(trackingCode string) (shipment, error) {
	if trackingCode == "" {
		return shipment{}, errors.New("tracking code is required")
	}
	return shipment{trackingCode: trackingCode, guard: guard.NewConstructorGuard()}, nil
}

func (s shipment) Validate() error {
	return s.guard.Validate(errShipmentNotConstructed)
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed guard returns nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero value returns supplied error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("entity not constructed")

		assert.Equal(t, expected, g.Validate(expected))
	})

	t.Run("zero value falls back to default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, guard.ErrDefaultConstructorGuard, g.Validate(nil))
		assert.Equal(t, "object must be created via its constructor", guard.ErrDefaultConstructorGuard.Error())
	})

	t.Run("copies keep construction state", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		cp := g

		require.NoError(t, cp.Validate(nil))
	})
}

func TestConstructorGuard_EmbeddedUsage(t *testing.T) {
	t.Run("constructor output validates", func(t *testing.T) {
		s, err := newShipment("TRK-1")

		require.NoError(t, err)
		require.NoError(t, s.Validate())
		assert.Equal(t, "TRK-1", s.trackingCode)
	})

	t.Run("struct literal is rejected", func(t *testing.T) {
		s := shipment{trackingCode: "TRK-1"}

		require.ErrorIs(t, s.Validate(), errShipmentNotConstructed)
	})

	t.Run("constructor still enforces its own rules", func(t *testing.T) {
		_, err := newShipment("")

		require.Error(t, err)
	})
}

func TestConstructorGuard_Concurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	done := make(chan struct{})

	for range 50 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 100 {
				assert.NoError(t, g.Validate(nil))
			}
		}()
	}

	for range 50 {
		<-done
	}
}
