package http

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// The authentication proxy in front of the service sets both headers after
// verifying the caller.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

func actorFrom(c echo.Context) (kernel.Actor, error) {
	rawID := c.Request().Header.Get(HeaderActorID)
	rawRole := c.Request().Header.Get(HeaderActorRole)
	if rawID == "" || rawRole == "" {
		return kernel.Actor{}, errs.NewValueIsRequiredError(HeaderActorID + " and " + HeaderActorRole + " headers")
	}

	id, idErr := kernel.UUIDFromString(rawID)
	role, roleErr := kernel.ParseRole(rawRole)
	if err := errors.Join(idErr, roleErr); err != nil {
		return kernel.Actor{}, err
	}

	return kernel.NewActor(id, role)
}
