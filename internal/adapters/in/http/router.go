package http

import (
	"net/http"

	"fulfillment/internal/adapters/in/http/api"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const apiPrefix = "/api/v1"

// NewRouter builds the echo instance serving the API, the admin escrow feed,
// health, metrics and the API documentation.
func NewRouter(server *Server, escrowFeed http.Handler, gatherer prometheus.Gatherer) (*echo.Echo, error) {
	doc, err := api.Load()
	if err != nil {
		return nil, err
	}
	validator, err := validateRequests(doc)
	if err != nil {
		return nil, err
	}
	docJSON, err := registerSwagger(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	e.HTTPErrorHandler = server.errorHandler

	e.Use(middleware.Recover())
	e.Use(instrument(server.logger))
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, docJSON)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/ws/admin/escrows", server.adminOnly(echo.WrapHandler(escrowFeed)))

	v1 := e.Group(apiPrefix)
	v1.POST("/orders", server.CreateOrder)
	v1.GET("/orders/:orderId", server.GetOrderDetail)
	v1.POST("/items/:itemId/process", server.AdvanceItem(order.ActionProcess))
	v1.POST("/items/:itemId/handoff", server.AdvanceItem(order.ActionHandOff))
	v1.POST("/items/:itemId/pickup", server.AdvanceItem(order.ActionPickUp))
	v1.POST("/items/:itemId/dispatch", server.AdvanceItem(order.ActionDispatch))
	v1.POST("/items/:itemId/delivery", server.ConfirmDelivery)
	v1.POST("/items/:itemId/cancel", server.CancelItem)
	v1.POST("/items/:itemId/refund", server.RefundByAdmin)
	v1.GET("/couriers/:courierId/pickup-items", server.ListPickupItemsForCourier)
	v1.GET("/escrows/awaiting-release", server.ListAwaitingRelease)
	v1.POST("/escrows/:transactionId/release", server.ReleaseByAdmin)

	return e, nil
}

func (s *Server) adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, err := actorFrom(c)
		if err != nil {
			return s.fail(c, err)
		}
		if !actor.IsAdmin() {
			return s.fail(c, errs.NewForbiddenError(actor.ID(), "subscribe to the escrow feed"))
		}
		return next(c)
	}
}
