package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"courierhub/internal/core/application/usecases/commands"
	"courierhub/internal/core/application/usecases/queries"
	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/order"
	"courierhub/internal/core/ports"
)

type placeOrderHandler interface {
	Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, []commands.Notification, error)
}

type confirmOrderHandler interface {
	Handle(ctx context.Context, cmd commands.ConfirmOrderCommand) ([]commands.Notification, error)
}

type markReadyHandler interface {
	Handle(ctx context.Context, cmd commands.MarkReadyCommand) ([]commands.Notification, error)
}

type acceptOrderHandler interface {
	Handle(ctx context.Context, cmd commands.AcceptOrderCommand) (*order.Order, []commands.Notification, error)
}

type markPickedUpHandler interface {
	Handle(ctx context.Context, cmd commands.MarkPickedUpCommand) ([]commands.Notification, error)
}

type markDeliveredHandler interface {
	Handle(ctx context.Context, cmd commands.MarkDeliveredCommand) ([]commands.Notification, error)
}

type cancelOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CancelOrderCommand) ([]commands.Notification, error)
}

type courierResumeQuery interface {
	Handle(ctx context.Context, query queries.GetActiveOrderByCourierQuery) (*queries.CourierOrderResponse, error)
}

type customerResumeQuery interface {
	Handle(ctx context.Context, query queries.GetActiveOrderByCustomerQuery) (*queries.OrderResponse, error)
}

type notifier interface {
	Dispatch(ctx context.Context, notifications []commands.Notification)
}

type connSender interface {
	SendToConn(conn kernel.ConnID, event string, payload any) error
}

// RouterDeps collects everything the router needs to translate frames into
// lifecycle transitions.
type RouterDeps struct {
	Registry       ports.PresenceRegistry
	Place          placeOrderHandler
	Confirm        confirmOrderHandler
	Ready          markReadyHandler
	Accept         acceptOrderHandler
	PickedUp       markPickedUpHandler
	Delivered      markDeliveredHandler
	Cancel         cancelOrderHandler
	CourierResume  courierResumeQuery
	CustomerResume customerResumeQuery
	Logger         *slog.Logger
}

// Router maps inbound frames to command and query handlers and relays the
// resulting notifications. It also keeps the order-to-customer mapping used
// to route live courier positions, rebuilt from the resume query after a
// courier reconnects.
type Router struct {
	deps     RouterDeps
	sender   connSender
	notifier notifier
	logger   *slog.Logger

	mu             sync.Mutex
	orderCustomers map[kernel.OrderID]kernel.CustomerID
}

func NewRouter(deps RouterDeps) *Router {
	return &Router{
		deps:           deps,
		logger:         deps.Logger.With("component", "ws_router"),
		orderCustomers: make(map[kernel.OrderID]kernel.CustomerID),
	}
}

// Bind attaches the outbound channels. The hub, the dispatcher and the
// router reference each other, so these are bound after all three are
// constructed.
func (r *Router) Bind(sender connSender, notifier notifier) {
	r.sender = sender
	r.notifier = notifier
}

// HandleFrame dispatches one inbound frame. Runs on the connection's read
// goroutine.
func (r *Router) HandleFrame(ctx context.Context, conn kernel.ConnID, frame Frame) {
	switch frame.Event {
	case EventRegisterCourier:
		r.handleRegisterCourier(ctx, conn, frame)
	case EventRegisterOperator:
		r.handleRegisterOperator(conn, frame)
	case EventRegisterCustomer:
		r.handleRegisterCustomer(ctx, conn, frame)
	case EventCourierLocation:
		r.handleCourierLocation(conn, frame)
	case EventPlaceOrder:
		r.handlePlaceOrder(ctx, conn, frame)
	case EventConfirmOrder:
		r.handleConfirmOrder(ctx, conn, frame)
	case EventMarkReady:
		r.handleMarkReady(ctx, conn, frame)
	case EventAcceptOrder:
		r.handleAcceptOrder(ctx, conn, frame)
	case EventMarkPickedUp:
		r.handleMarkPickedUp(ctx, conn, frame)
	case EventMarkDelivered:
		r.handleMarkDelivered(ctx, conn, frame)
	case EventCancelOrder:
		r.handleCancelOrder(ctx, conn, frame)
	default:
		r.reject(conn, frame.Event, "unknown event")
	}
}

// OnDisconnect drops the connection from the presence registry.
func (r *Router) OnDisconnect(conn kernel.ConnID) {
	r.deps.Registry.Remove(conn)
}

func (r *Router) handleRegisterCourier(ctx context.Context, conn kernel.ConnID, frame Frame) {
	var data registerCourierData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		r.reject(conn, frame.Event, "malformed payload")
		return
	}

	courierID := kernel.CourierID(data.DriverID)
	if err := courierID.Validate(); err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}

	r.deps.Registry.RegisterCourier(conn, courierID, data.DriverName)
	r.logger.Info("courier registered", "conn", conn, "driver_id", data.DriverID)

	query, err := queries.NewGetActiveOrderByCourierQuery(courierID)
	if err != nil {
		return
	}
	active, err := r.deps.CourierResume.Handle(ctx, query)
	if err != nil {
		r.logger.Warn("courier resume lookup failed", "driver_id", data.DriverID, "error", err)
		return
	}
	if active == nil {
		return
	}

	orderID := kernel.OrderID(active.OrderID)
	r.deps.Registry.SetCourierBusy(conn, orderID)
	r.rememberCustomer(orderID, kernel.CustomerID(active.ClientID))
	r.send(conn, EventResumeCourierOrder, active)
}

func (r *Router) handleRegisterOperator(conn kernel.ConnID, frame Frame) {
	var data registerOperatorData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		r.reject(conn, frame.Event, "malformed payload")
		return
	}

	restaurantID := kernel.RestaurantID(data.RestaurantID)
	if err := restaurantID.Validate(); err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}

	r.deps.Registry.RegisterOperator(conn, restaurantID)
	r.logger.Info("operator registered", "conn", conn, "restaurant_id", data.RestaurantID)
}

func (r *Router) handleRegisterCustomer(ctx context.Context, conn kernel.ConnID, frame Frame) {
	var data registerCustomerData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		r.reject(conn, frame.Event, "malformed payload")
		return
	}

	customerID := kernel.CustomerID(data.ClientID)
	if err := customerID.Validate(); err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}

	r.deps.Registry.RegisterCustomer(conn, customerID)
	r.logger.Info("customer registered", "conn", conn, "client_id", data.ClientID)

	query, err := queries.NewGetActiveOrderByCustomerQuery(customerID)
	if err != nil {
		return
	}
	active, err := r.deps.CustomerResume.Handle(ctx, query)
	if err != nil {
		r.logger.Warn("customer resume lookup failed", "client_id", data.ClientID, "error", err)
		return
	}
	if active == nil {
		return
	}

	payload := map[string]any{
		"orderId": active.OrderID,
		"status":  active.Status,
	}
	if active.EstimatedMinutes != nil {
		payload["estimatedTime"] = *active.EstimatedMinutes
	}
	if active.CourierName != "" {
		payload["driverName"] = active.CourierName
	}
	r.send(conn, EventResumeCustomerOrder, payload)
}

func (r *Router) handleCourierLocation(conn kernel.ConnID, frame Frame) {
	session, ok := r.deps.Registry.CourierSession(conn)
	if !ok {
		return
	}

	var data courierLocationData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		r.reject(conn, frame.Event, "malformed payload")
		return
	}
	point, err := kernel.NewGeoPoint(data.Latitude, data.Longitude)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}

	r.deps.Registry.RecordCourierLocation(conn, point)

	if session.CurrentOrder == nil {
		return
	}
	customerID, ok := r.customerOf(*session.CurrentOrder)
	if !ok {
		return
	}
	customerConn, ok := r.deps.Registry.CustomerConnection(customerID)
	if !ok {
		return
	}
	r.send(customerConn, EventDriverLocationUpdate, map[string]any{
		"orderId":   int64(*session.CurrentOrder),
		"driverId":  int64(session.CourierID),
		"latitude":  point.Lat(),
		"longitude": point.Lng(),
	})
}

func (r *Router) handlePlaceOrder(ctx context.Context, conn kernel.ConnID, frame Frame) {
	var data placeOrderData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		r.reject(conn, frame.Event, "malformed payload")
		return
	}

	items := make([]order.LineItem, 0, len(data.Items))
	for _, raw := range data.Items {
		item, err := order.NewLineItem(kernel.ProductID(raw.ProductID), raw.Name, raw.Quantity, raw.Price)
		if err != nil {
			r.reject(conn, frame.Event, err.Error())
			return
		}
		items = append(items, item)
	}
	point, err := kernel.NewGeoPoint(data.DeliveryLat, data.DeliveryLng)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}

	cmd, err := commands.NewPlaceOrderCommand(
		kernel.RestaurantID(data.RestaurantID),
		kernel.CustomerID(data.ClientID),
		items,
		data.TotalPrice,
		data.DeliveryAddress,
		point,
	)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}

	placed, notifications, err := r.deps.Place.Handle(ctx, cmd)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}

	r.send(conn, commands.EventOrderPlaced, map[string]any{
		"orderId": int64(placed.ID()),
		"status":  placed.Status().String(),
	})
	r.notifier.Dispatch(ctx, notifications)
}

func (r *Router) handleConfirmOrder(ctx context.Context, conn kernel.ConnID, frame Frame) {
	var data confirmOrderData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		r.reject(conn, frame.Event, "malformed payload")
		return
	}

	cmd, err := commands.NewConfirmOrderCommand(kernel.OrderID(data.OrderID), data.EstimatedTime)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}
	notifications, err := r.deps.Confirm.Handle(ctx, cmd)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}
	r.notifier.Dispatch(ctx, notifications)
}

func (r *Router) handleMarkReady(ctx context.Context, conn kernel.ConnID, frame Frame) {
	var data orderIDData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		r.reject(conn, frame.Event, "malformed payload")
		return
	}

	cmd, err := commands.NewMarkReadyCommand(kernel.OrderID(data.OrderID))
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}
	notifications, err := r.deps.Ready.Handle(ctx, cmd)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}
	r.notifier.Dispatch(ctx, notifications)
}

func (r *Router) handleAcceptOrder(ctx context.Context, conn kernel.ConnID, frame Frame) {
	session, ok := r.deps.Registry.CourierSession(conn)
	if !ok {
		r.reject(conn, frame.Event, "courier is not registered")
		return
	}

	var data acceptOrderData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		r.reject(conn, frame.Event, "malformed payload")
		return
	}

	name := data.DriverName
	if name == "" {
		name = session.Name
	}
	cmd, err := commands.NewAcceptOrderCommand(kernel.OrderID(data.OrderID), session.CourierID, name)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}

	assigned, notifications, err := r.deps.Accept.Handle(ctx, cmd)
	if errors.Is(err, commands.ErrOrderAlreadyTaken) {
		r.send(conn, commands.EventOrderRejected, map[string]any{
			"orderId": data.OrderID,
			"reason":  "order already taken",
		})
		return
	}
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}

	orderID := assigned.ID()
	r.deps.Registry.SetCourierBusy(conn, orderID)
	r.rememberCustomer(orderID, assigned.CustomerID())

	r.send(conn, commands.EventOrderAssigned, map[string]any{
		"orderId":    int64(orderID),
		"clientId":   int64(assigned.CustomerID()),
		"status":     assigned.Status().String(),
		"driverName": name,
	})
	r.notifier.Dispatch(ctx, notifications)
}

func (r *Router) handleMarkPickedUp(ctx context.Context, conn kernel.ConnID, frame Frame) {
	session, ok := r.deps.Registry.CourierSession(conn)
	if !ok {
		r.reject(conn, frame.Event, "courier is not registered")
		return
	}

	var data orderIDData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		r.reject(conn, frame.Event, "malformed payload")
		return
	}

	cmd, err := commands.NewMarkPickedUpCommand(kernel.OrderID(data.OrderID), session.CourierID)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}
	notifications, err := r.deps.PickedUp.Handle(ctx, cmd)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}
	r.notifier.Dispatch(ctx, notifications)
}

func (r *Router) handleMarkDelivered(ctx context.Context, conn kernel.ConnID, frame Frame) {
	session, ok := r.deps.Registry.CourierSession(conn)
	if !ok {
		r.reject(conn, frame.Event, "courier is not registered")
		return
	}

	var data orderIDData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		r.reject(conn, frame.Event, "malformed payload")
		return
	}

	cmd, err := commands.NewMarkDeliveredCommand(kernel.OrderID(data.OrderID), session.CourierID)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}
	notifications, err := r.deps.Delivered.Handle(ctx, cmd)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}

	r.deps.Registry.SetCourierAvailable(conn)
	r.forgetOrder(kernel.OrderID(data.OrderID))
	r.notifier.Dispatch(ctx, notifications)
}

func (r *Router) handleCancelOrder(ctx context.Context, conn kernel.ConnID, frame Frame) {
	var data orderIDData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		r.reject(conn, frame.Event, "malformed payload")
		return
	}

	cmd, err := commands.NewCancelOrderCommand(kernel.OrderID(data.OrderID))
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}
	notifications, err := r.deps.Cancel.Handle(ctx, cmd)
	if err != nil {
		r.reject(conn, frame.Event, err.Error())
		return
	}

	// A cancelled order frees its courier for new offers.
	for _, notification := range notifications {
		if notification.Target != commands.TargetCourier {
			continue
		}
		for _, courierConn := range r.deps.Registry.CourierConnections(notification.Courier) {
			r.deps.Registry.SetCourierAvailable(courierConn)
		}
	}
	r.forgetOrder(kernel.OrderID(data.OrderID))
	r.notifier.Dispatch(ctx, notifications)
}

func (r *Router) rememberCustomer(orderID kernel.OrderID, customerID kernel.CustomerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orderCustomers[orderID] = customerID
}

func (r *Router) customerOf(orderID kernel.OrderID) (kernel.CustomerID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customerID, ok := r.orderCustomers[orderID]
	return customerID, ok
}

func (r *Router) forgetOrder(orderID kernel.OrderID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orderCustomers, orderID)
}

func (r *Router) send(conn kernel.ConnID, event string, payload any) {
	if err := r.sender.SendToConn(conn, event, payload); err != nil {
		r.logger.Warn("outbound frame undeliverable", "event", event, "conn", conn, "error", err)
	}
}

func (r *Router) reject(conn kernel.ConnID, event, message string) {
	r.logger.Warn("frame rejected", "event", event, "reason", message)
	payload := map[string]any{"message": message}
	if event != "" {
		payload["event"] = event
	}
	r.send(conn, EventOrderError, payload)
}
