package http

import (
	"context"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/sirupsen/logrus"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	AdvanceItemHandler interface {
		Handle(ctx context.Context, cmd commands.AdvanceItemCommand) error
	}
	ConfirmDeliveryHandler interface {
		Handle(ctx context.Context, cmd commands.ConfirmDeliveryCommand) error
	}
	CancelItemHandler interface {
		Handle(ctx context.Context, cmd commands.CancelItemCommand) error
	}
	RefundItemHandler interface {
		Handle(ctx context.Context, cmd commands.RefundItemCommand) error
	}
	ReleaseEscrowHandler interface {
		Handle(ctx context.Context, cmd commands.ReleaseEscrowCommand) error
	}
	GetOrderDetailHandler interface {
		Handle(ctx context.Context, query queries.GetOrderDetailQuery) (queries.GetOrderDetailQueryResponse, error)
	}
	ListPickupItemsHandler interface {
		Handle(ctx context.Context, query queries.ListPickupItemsQuery) ([]queries.ListPickupItemsQueryResponse, error)
	}
	ListAwaitingReleaseHandler interface {
		Handle(ctx context.Context, query queries.ListAwaitingReleaseQuery) (queries.ListAwaitingReleaseQueryResponse, error)
	}
)

// Handlers groups the use cases the API exposes.
type Handlers struct {
	CreateOrder         CreateOrderHandler
	AdvanceItem         AdvanceItemHandler
	ConfirmDelivery     ConfirmDeliveryHandler
	CancelItem          CancelItemHandler
	RefundItem          RefundItemHandler
	ReleaseEscrow       ReleaseEscrowHandler
	GetOrderDetail      GetOrderDetailHandler
	ListPickupItems     ListPickupItemsHandler
	ListAwaitingRelease ListAwaitingReleaseHandler
}

// Server translates HTTP requests into commands and queries and their
// results back into JSON.
type Server struct {
	handlers Handlers
	logger   logrus.FieldLogger
}

func NewServer(handlers Handlers, logger logrus.FieldLogger) *Server {
	return &Server{
		handlers: handlers,
		logger:   logger,
	}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	buyer, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}

	var body NewOrder
	if err = c.Bind(&body); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	addressID, err := kernel.UUIDFromBytes(body.AddressID[:])
	if err != nil {
		return s.fail(c, err)
	}
	entries := make([]commands.CartEntry, 0, len(body.Items))
	for _, item := range body.Items {
		productID, parseErr := kernel.UUIDFromBytes(item.ProductID[:])
		if parseErr != nil {
			return s.fail(c, parseErr)
		}
		entries = append(entries, commands.CartEntry{ProductID: productID, Notes: item.Notes})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, buyer, addressID, body.PaymentMethod, entries)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, OrderCreated{ID: orderID.String()})
}

// GetOrderDetail handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrderDetail(c echo.Context) error {
	requester, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	orderID, err := pathID(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetOrderDetailQuery(orderID, requester)
	if err != nil {
		return s.fail(c, err)
	}
	detail, err := s.handlers.GetOrderDetail.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrderDetail(detail))
}

// AdvanceItem returns the handler for one forward step of the item workflow:
// process, handoff, pickup or dispatch.
func (s *Server) AdvanceItem(action order.Action) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, err := actorFrom(c)
		if err != nil {
			return s.fail(c, err)
		}
		itemID, err := pathID(c, "itemId")
		if err != nil {
			return s.fail(c, err)
		}

		cmd, err := commands.NewAdvanceItemCommand(itemID, action, actor)
		if err != nil {
			return s.fail(c, err)
		}
		if err = s.handlers.AdvanceItem.Handle(c.Request().Context(), cmd); err != nil {
			return s.fail(c, err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

// ConfirmDelivery handles POST /api/v1/items/{itemId}/delivery.
func (s *Server) ConfirmDelivery(c echo.Context) error {
	courier, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return s.fail(c, err)
	}

	var body DeliveryProof
	if err = c.Bind(&body); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	cmd, err := commands.NewConfirmDeliveryCommand(itemID, courier, body.Photos)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.ConfirmDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// CancelItem handles POST /api/v1/items/{itemId}/cancel.
func (s *Server) CancelItem(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCancelItemCommand(itemID, actor)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.CancelItem.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RefundByAdmin handles POST /api/v1/items/{itemId}/refund.
func (s *Server) RefundByAdmin(c echo.Context) error {
	admin, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRefundItemCommand(itemID, admin)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.RefundItem.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListPickupItemsForCourier handles GET /api/v1/couriers/{courierId}/pickup-items.
func (s *Server) ListPickupItemsForCourier(c echo.Context) error {
	requester, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	courierID, err := pathID(c, "courierId")
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewListPickupItemsQuery(courierID, requester)
	if err != nil {
		return s.fail(c, err)
	}
	rows, err := s.handlers.ListPickupItems.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toPickupItems(rows))
}

// ListAwaitingRelease handles GET /api/v1/escrows/awaiting-release.
func (s *Server) ListAwaitingRelease(c echo.Context) error {
	admin, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}

	var page, size *int
	if err = runtime.BindQueryParameter("form", true, false, "page", c.QueryParams(), &page); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("page", err))
	}
	if err = runtime.BindQueryParameter("form", true, false, "size", c.QueryParams(), &size); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("size", err))
	}

	query, err := queries.NewListAwaitingReleaseQuery(admin, valueOrZero(page), valueOrZero(size))
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.ListAwaitingRelease.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toAwaitingReleasePage(result))
}

// ReleaseByAdmin handles POST /api/v1/escrows/{transactionId}/release.
func (s *Server) ReleaseByAdmin(c echo.Context) error {
	admin, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	transactionID, err := pathID(c, "transactionId")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewReleaseEscrowCommand(transactionID, admin)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.ReleaseEscrow.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context, name string) (kernel.UUID, error) {
	var raw uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromBytes(raw[:])
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
