// Package http exposes the REST surface of the coordinator: order history
// for restaurant dashboards, active-order lookups and the push-action
// acceptance path that mirrors the websocket accept_order flow.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"courierhub/internal/core/application/usecases/commands"
	"courierhub/internal/core/application/usecases/queries"
	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/order"
	"courierhub/internal/core/ports"
	"courierhub/internal/pkg/errs"
)

type notifier interface {
	Dispatch(ctx context.Context, notifications []commands.Notification)
}

type acceptOrderHandler interface {
	Handle(ctx context.Context, cmd commands.AcceptOrderCommand) (*order.Order, []commands.Notification, error)
}

type cancelOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CancelOrderCommand) ([]commands.Notification, error)
}

// errorBody is the payload of every non-2xx REST response.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server coordinates between the REST routes and the application use cases.
type Server struct {
	acceptHandler acceptOrderHandler
	cancelHandler cancelOrderHandler

	ordersByRestaurantHandler queries.GetOrdersByRestaurantQueryHandler
	activeByCustomerHandler   queries.GetActiveOrderByCustomerQueryHandler
	activeByCourierHandler    queries.GetActiveOrderByCourierQueryHandler

	registry  ports.PresenceRegistry
	directory ports.UserDirectory
	notifier  notifier
}

// NewServer creates a REST server with the required command and query
// handlers.
func NewServer(
	acceptHandler acceptOrderHandler,
	cancelHandler cancelOrderHandler,
	ordersByRestaurantHandler queries.GetOrdersByRestaurantQueryHandler,
	activeByCustomerHandler queries.GetActiveOrderByCustomerQueryHandler,
	activeByCourierHandler queries.GetActiveOrderByCourierQueryHandler,
	registry ports.PresenceRegistry,
	directory ports.UserDirectory,
	notifier notifier,
) *Server {
	return &Server{
		acceptHandler:             acceptHandler,
		cancelHandler:             cancelHandler,
		ordersByRestaurantHandler: ordersByRestaurantHandler,
		activeByCustomerHandler:   activeByCustomerHandler,
		activeByCourierHandler:    activeByCourierHandler,
		registry:                  registry,
		directory:                 directory,
		notifier:                  notifier,
	}
}

// RegisterRoutes mounts every REST route on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/api/orders/:restaurantId", s.GetOrdersByRestaurant)
	e.GET("/api/orders/active/client/:clientId", s.GetActiveOrderByClient)
	e.GET("/api/orders/active/driver/:driverId", s.GetActiveOrderByDriver)
	e.POST("/api/orders/:orderId/accept", s.AcceptOrder)
	e.POST("/api/orders/cancel/:orderId", s.CancelOrder)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetOrdersByRestaurant handles GET /api/orders/:restaurantId - the
// restaurant dashboard's order history, newest first.
func (s *Server) GetOrdersByRestaurant(ctx echo.Context) error {
	restaurantID, err := pathID(ctx, "restaurantId")
	if err != nil {
		return badRequest(ctx, "Invalid restaurant id")
	}

	query, err := queries.NewGetOrdersByRestaurantQuery(kernel.RestaurantID(restaurantID))
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	orders, err := s.ordersByRestaurantHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve orders")
	}
	return ctx.JSON(http.StatusOK, orders)
}

// GetActiveOrderByClient handles GET /api/orders/active/client/:clientId -
// the customer's current in-flight order, 404 when there is none.
func (s *Server) GetActiveOrderByClient(ctx echo.Context) error {
	clientID, err := pathID(ctx, "clientId")
	if err != nil {
		return badRequest(ctx, "Invalid client id")
	}

	query, err := queries.NewGetActiveOrderByCustomerQuery(kernel.CustomerID(clientID))
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	active, err := s.activeByCustomerHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve order")
	}
	if active == nil {
		return ctx.JSON(http.StatusNotFound, errorBody{
			Code:    http.StatusNotFound,
			Message: "No active order",
		})
	}
	return ctx.JSON(http.StatusOK, active)
}

// GetActiveOrderByDriver handles GET /api/orders/active/driver/:driverId -
// the courier's current in-flight order with pickup details.
func (s *Server) GetActiveOrderByDriver(ctx echo.Context) error {
	driverID, err := pathID(ctx, "driverId")
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	query, err := queries.NewGetActiveOrderByCourierQuery(kernel.CourierID(driverID))
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	active, err := s.activeByCourierHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve order")
	}
	if active == nil {
		return ctx.JSON(http.StatusNotFound, errorBody{
			Code:    http.StatusNotFound,
			Message: "No active order",
		})
	}
	return ctx.JSON(http.StatusOK, active)
}

type acceptRequest struct {
	DriverID int64 `json:"driverId"`
}

// AcceptOrder handles POST /api/orders/:orderId/accept - the acceptance path
// taken when a courier taps the action button on the push notification. The
// display name is resolved from the user directory since the push action
// only carries the courier id.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req acceptRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	courierID := kernel.CourierID(req.DriverID)
	name, err := s.directory.CourierName(ctx.Request().Context(), courierID)
	if err != nil {
		return badRequest(ctx, "Unknown driver")
	}

	cmd, err := commands.NewAcceptOrderCommand(kernel.OrderID(orderID), courierID, name)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	assigned, notifications, err := s.acceptHandler.Handle(ctx.Request().Context(), cmd)
	if errors.Is(err, commands.ErrOrderAlreadyTaken) {
		return ctx.JSON(http.StatusConflict, errorBody{
			Code:    http.StatusConflict,
			Message: "Order already taken",
		})
	}
	if err != nil {
		return internalError(ctx, "Failed to accept order")
	}

	// The winner's connections go busy so the courier stops receiving offer
	// broadcasts, exactly as if the acceptance had arrived over a socket.
	for _, conn := range s.registry.CourierConnections(courierID) {
		s.registry.SetCourierBusy(conn, assigned.ID())
	}

	// The courier's connected devices learn about the acceptance the same
	// way the websocket path announces it.
	notifications = append(notifications, commands.Notification{
		Target:  commands.TargetCourier,
		Courier: courierID,
		Event:   commands.EventOrderAssigned,
		Payload: map[string]any{
			"orderId":    int64(assigned.ID()),
			"clientId":   int64(assigned.CustomerID()),
			"status":     assigned.Status().String(),
			"driverName": name,
		},
	})
	s.notifier.Dispatch(ctx.Request().Context(), notifications)

	return ctx.JSON(http.StatusOK, map[string]any{
		"orderId": int64(assigned.ID()),
		"status":  assigned.Status().String(),
	})
}

// CancelOrder handles POST /api/orders/cancel/:orderId.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewCancelOrderCommand(kernel.OrderID(orderID))
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	notifications, err := s.cancelHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, errorBody{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		}
		if errors.Is(err, order.ErrStatusTransitionNotAllowed) {
			return ctx.JSON(http.StatusConflict, errorBody{
				Code:    http.StatusConflict,
				Message: "Order can no longer be cancelled",
			})
		}
		return internalError(ctx, "Failed to cancel order")
	}
	s.notifier.Dispatch(ctx.Request().Context(), notifications)

	return ctx.JSON(http.StatusOK, map[string]string{"status": order.Cancelled.String()})
}

func pathID(ctx echo.Context, name string) (int64, error) {
	return strconv.ParseInt(ctx.Param(name), 10, 64)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorBody{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func internalError(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusInternalServerError, errorBody{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}
