package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courierhub/internal/adapters/out/presence"
	"courierhub/internal/core/application/usecases/commands"
	"courierhub/internal/core/application/usecases/queries"
	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/order"
)

type sentFrame struct {
	Conn    kernel.ConnID
	Event   string
	Payload any
}

type fakeSender struct {
	frames []sentFrame
}

func (s *fakeSender) SendToConn(conn kernel.ConnID, event string, payload any) error {
	s.frames = append(s.frames, sentFrame{Conn: conn, Event: event, Payload: payload})
	return nil
}

func (s *fakeSender) eventsFor(conn kernel.ConnID) []string {
	var events []string
	for _, frame := range s.frames {
		if frame.Conn == conn {
			events = append(events, frame.Event)
		}
	}
	return events
}

type fakeNotifier struct {
	dispatched [][]commands.Notification
}

func (n *fakeNotifier) Dispatch(_ context.Context, notifications []commands.Notification) {
	n.dispatched = append(n.dispatched, notifications)
}

type mockPlaceHandler struct{ mock.Mock }

func (m *mockPlaceHandler) Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, []commands.Notification, error) {
	args := m.Called(ctx, cmd)
	var placed *order.Order
	if v := args.Get(0); v != nil {
		placed = v.(*order.Order)
	}
	var notifications []commands.Notification
	if v := args.Get(1); v != nil {
		notifications = v.([]commands.Notification)
	}
	return placed, notifications, args.Error(2)
}

type mockAcceptHandler struct{ mock.Mock }

func (m *mockAcceptHandler) Handle(ctx context.Context, cmd commands.AcceptOrderCommand) (*order.Order, []commands.Notification, error) {
	args := m.Called(ctx, cmd)
	var assigned *order.Order
	if v := args.Get(0); v != nil {
		assigned = v.(*order.Order)
	}
	var notifications []commands.Notification
	if v := args.Get(1); v != nil {
		notifications = v.([]commands.Notification)
	}
	return assigned, notifications, args.Error(2)
}

type mockConfirmHandler struct{ mock.Mock }

func (m *mockConfirmHandler) Handle(ctx context.Context, cmd commands.ConfirmOrderCommand) ([]commands.Notification, error) {
	args := m.Called(ctx, cmd)
	var notifications []commands.Notification
	if v := args.Get(0); v != nil {
		notifications = v.([]commands.Notification)
	}
	return notifications, args.Error(1)
}

type mockReadyHandler struct{ mock.Mock }

func (m *mockReadyHandler) Handle(ctx context.Context, cmd commands.MarkReadyCommand) ([]commands.Notification, error) {
	args := m.Called(ctx, cmd)
	var notifications []commands.Notification
	if v := args.Get(0); v != nil {
		notifications = v.([]commands.Notification)
	}
	return notifications, args.Error(1)
}

type mockPickedUpHandler struct{ mock.Mock }

func (m *mockPickedUpHandler) Handle(ctx context.Context, cmd commands.MarkPickedUpCommand) ([]commands.Notification, error) {
	args := m.Called(ctx, cmd)
	var notifications []commands.Notification
	if v := args.Get(0); v != nil {
		notifications = v.([]commands.Notification)
	}
	return notifications, args.Error(1)
}

type mockDeliveredHandler struct{ mock.Mock }

func (m *mockDeliveredHandler) Handle(ctx context.Context, cmd commands.MarkDeliveredCommand) ([]commands.Notification, error) {
	args := m.Called(ctx, cmd)
	var notifications []commands.Notification
	if v := args.Get(0); v != nil {
		notifications = v.([]commands.Notification)
	}
	return notifications, args.Error(1)
}

type mockCancelHandler struct{ mock.Mock }

func (m *mockCancelHandler) Handle(ctx context.Context, cmd commands.CancelOrderCommand) ([]commands.Notification, error) {
	args := m.Called(ctx, cmd)
	var notifications []commands.Notification
	if v := args.Get(0); v != nil {
		notifications = v.([]commands.Notification)
	}
	return notifications, args.Error(1)
}

type mockCourierResume struct{ mock.Mock }

func (m *mockCourierResume) Handle(ctx context.Context, query queries.GetActiveOrderByCourierQuery) (*queries.CourierOrderResponse, error) {
	args := m.Called(ctx, query)
	var resp *queries.CourierOrderResponse
	if v := args.Get(0); v != nil {
		resp = v.(*queries.CourierOrderResponse)
	}
	return resp, args.Error(1)
}

type mockCustomerResume struct{ mock.Mock }

func (m *mockCustomerResume) Handle(ctx context.Context, query queries.GetActiveOrderByCustomerQuery) (*queries.OrderResponse, error) {
	args := m.Called(ctx, query)
	var resp *queries.OrderResponse
	if v := args.Get(0); v != nil {
		resp = v.(*queries.OrderResponse)
	}
	return resp, args.Error(1)
}

type routerFixture struct {
	router   *Router
	registry *presence.Registry
	sender   *fakeSender
	notifier *fakeNotifier

	place          *mockPlaceHandler
	confirm        *mockConfirmHandler
	ready          *mockReadyHandler
	accept         *mockAcceptHandler
	pickedUp       *mockPickedUpHandler
	delivered      *mockDeliveredHandler
	cancel         *mockCancelHandler
	courierResume  *mockCourierResume
	customerResume *mockCustomerResume
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	f := &routerFixture{
		registry:       presence.NewRegistry(),
		sender:         &fakeSender{},
		notifier:       &fakeNotifier{},
		place:          &mockPlaceHandler{},
		confirm:        &mockConfirmHandler{},
		ready:          &mockReadyHandler{},
		accept:         &mockAcceptHandler{},
		pickedUp:       &mockPickedUpHandler{},
		delivered:      &mockDeliveredHandler{},
		cancel:         &mockCancelHandler{},
		courierResume:  &mockCourierResume{},
		customerResume: &mockCustomerResume{},
	}
	f.router = NewRouter(RouterDeps{
		Registry:       f.registry,
		Place:          f.place,
		Confirm:        f.confirm,
		Ready:          f.ready,
		Accept:         f.accept,
		PickedUp:       f.pickedUp,
		Delivered:      f.delivered,
		Cancel:         f.cancel,
		CourierResume:  f.courierResume,
		CustomerResume: f.customerResume,
		Logger:         slog.Default(),
	})
	f.router.Bind(f.sender, f.notifier)
	return f
}

func frameOf(t *testing.T, event string, data any) Frame {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return Frame{Event: event, Data: raw}
}

func assignedOrder(t *testing.T, orderID kernel.OrderID, customerID kernel.CustomerID) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(kernel.ProductID(1), "Pad Thai", 2, 5.0)
	require.NoError(t, err)
	point, err := kernel.NewGeoPoint(52.52, 13.405)
	require.NoError(t, err)
	courier := kernel.CourierID(9)
	restored, err := order.RestoreOrder(
		orderID, kernel.RestaurantID(7), customerID,
		[]order.LineItem{item}, 10.0, "12 Elm Street", point,
		order.DriverAssigned, &courier, "Kai", nil, time.Now(),
	)
	require.NoError(t, err)
	return restored
}

func TestRegisterCourier_NoActiveOrder(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()
	f.courierResume.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)

	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventRegisterCourier,
		registerCourierData{DriverID: 9, DriverName: "Kai"}))

	session, ok := f.registry.CourierSession(conn)
	require.True(t, ok)
	assert.Equal(t, kernel.CourierID(9), session.CourierID)
	assert.True(t, session.Available)
	assert.Empty(t, f.sender.frames)
}

func TestRegisterCourier_ResumesActiveOrder(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()
	active := &queries.CourierOrderResponse{
		OrderID:        41,
		ClientID:       42,
		Status:         "DRIVER_ASSIGNED",
		RestaurantName: "Thai Garden",
	}
	f.courierResume.On("Handle", mock.Anything, mock.Anything).Return(active, nil)

	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventRegisterCourier,
		registerCourierData{DriverID: 9, DriverName: "Kai"}))

	session, ok := f.registry.CourierSession(conn)
	require.True(t, ok)
	assert.False(t, session.Available)
	require.NotNil(t, session.CurrentOrder)
	assert.Equal(t, kernel.OrderID(41), *session.CurrentOrder)

	require.Len(t, f.sender.frames, 1)
	assert.Equal(t, EventResumeCourierOrder, f.sender.frames[0].Event)
	assert.Equal(t, active, f.sender.frames[0].Payload)
}

func TestRegisterCourier_ResumeLookupFailureKeepsRegistration(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()
	f.courierResume.On("Handle", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventRegisterCourier,
		registerCourierData{DriverID: 9, DriverName: "Kai"}))

	_, ok := f.registry.CourierSession(conn)
	assert.True(t, ok)
	assert.Empty(t, f.sender.frames)
}

func TestRegisterCustomer_ResumesLightweightOrder(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()
	minutes := 20
	f.customerResume.On("Handle", mock.Anything, mock.Anything).Return(&queries.OrderResponse{
		OrderID:          41,
		CustomerID:       42,
		Status:           "DRIVER_ASSIGNED",
		CourierName:      "Kai",
		EstimatedMinutes: &minutes,
	}, nil)

	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventRegisterCustomer,
		registerCustomerData{ClientID: 42}))

	require.Len(t, f.sender.frames, 1)
	frame := f.sender.frames[0]
	assert.Equal(t, EventResumeCustomerOrder, frame.Event)
	payload := frame.Payload.(map[string]any)
	assert.Equal(t, int64(41), payload["orderId"])
	assert.Equal(t, "DRIVER_ASSIGNED", payload["status"])
	assert.Equal(t, 20, payload["estimatedTime"])
	assert.Equal(t, "Kai", payload["driverName"])
}

func TestRegisterCustomer_NoActiveOrderStaysSilent(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()
	f.customerResume.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)

	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventRegisterCustomer,
		registerCustomerData{ClientID: 42}))

	assert.Empty(t, f.sender.frames)
}

func TestPlaceOrder_AcksRequesterAndDispatches(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()
	placed := assignedOrder(t, kernel.OrderID(41), kernel.CustomerID(42))
	notifications := []commands.Notification{{Target: commands.TargetOperators, Event: commands.EventNewOrder}}
	f.place.On("Handle", mock.Anything, mock.Anything).Return(placed, notifications, nil)

	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventPlaceOrder, placeOrderData{
		RestaurantID:    7,
		ClientID:        42,
		Items:           []orderItemData{{ProductID: 1, Name: "Pad Thai", Quantity: 2, Price: 5.0}},
		TotalPrice:      10.0,
		DeliveryAddress: "12 Elm Street",
		DeliveryLat:     52.52,
		DeliveryLng:     13.405,
	}))

	require.Len(t, f.sender.frames, 1)
	assert.Equal(t, commands.EventOrderPlaced, f.sender.frames[0].Event)
	require.Len(t, f.notifier.dispatched, 1)
	assert.Equal(t, notifications, f.notifier.dispatched[0])
}

func TestPlaceOrder_InvalidPayloadRejected(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()

	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventPlaceOrder, placeOrderData{
		RestaurantID: 7,
		ClientID:     42,
		TotalPrice:   10.0,
	}))

	require.Len(t, f.sender.frames, 1)
	assert.Equal(t, EventOrderError, f.sender.frames[0].Event)
	f.place.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestAcceptOrder_RequiresCourierRegistration(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()

	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventAcceptOrder,
		acceptOrderData{OrderID: 41}))

	require.Len(t, f.sender.frames, 1)
	assert.Equal(t, EventOrderError, f.sender.frames[0].Event)
	f.accept.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestAcceptOrder_WinnerMarkedBusyAndAcked(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()
	f.courierResume.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventRegisterCourier,
		registerCourierData{DriverID: 9, DriverName: "Kai"}))

	assigned := assignedOrder(t, kernel.OrderID(41), kernel.CustomerID(42))
	notifications := []commands.Notification{{Target: commands.TargetCustomer, Event: commands.EventDriverAssigned}}
	f.accept.On("Handle", mock.Anything, mock.Anything).Return(assigned, notifications, nil)

	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventAcceptOrder,
		acceptOrderData{OrderID: 41}))

	session, _ := f.registry.CourierSession(conn)
	assert.False(t, session.Available)
	require.NotNil(t, session.CurrentOrder)
	assert.Equal(t, kernel.OrderID(41), *session.CurrentOrder)

	events := f.sender.eventsFor(conn)
	require.Contains(t, events, commands.EventOrderAssigned)
	require.Len(t, f.notifier.dispatched, 1)
}

func TestAcceptOrder_LostRaceGetsRejection(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()
	f.courierResume.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventRegisterCourier,
		registerCourierData{DriverID: 9, DriverName: "Kai"}))

	f.accept.On("Handle", mock.Anything, mock.Anything).
		Return(nil, nil, commands.ErrOrderAlreadyTaken)

	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventAcceptOrder,
		acceptOrderData{OrderID: 41}))

	events := f.sender.eventsFor(conn)
	require.Contains(t, events, commands.EventOrderRejected)
	assert.NotContains(t, events, commands.EventOrderAssigned)

	session, _ := f.registry.CourierSession(conn)
	assert.True(t, session.Available)
	assert.Empty(t, f.notifier.dispatched)
}

func TestCourierLocation_RelayedToOrderCustomer(t *testing.T) {
	f := newRouterFixture(t)
	courierConn := kernel.NewConnID()
	customerConn := kernel.NewConnID()

	f.courierResume.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
	f.customerResume.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
	f.router.HandleFrame(context.Background(), courierConn, frameOf(t, EventRegisterCourier,
		registerCourierData{DriverID: 9, DriverName: "Kai"}))
	f.router.HandleFrame(context.Background(), customerConn, frameOf(t, EventRegisterCustomer,
		registerCustomerData{ClientID: 42}))

	assigned := assignedOrder(t, kernel.OrderID(41), kernel.CustomerID(42))
	f.accept.On("Handle", mock.Anything, mock.Anything).Return(assigned, nil, nil)
	f.router.HandleFrame(context.Background(), courierConn, frameOf(t, EventAcceptOrder,
		acceptOrderData{OrderID: 41}))

	f.router.HandleFrame(context.Background(), courierConn, frameOf(t, EventCourierLocation,
		courierLocationData{Latitude: 52.53, Longitude: 13.41}))

	events := f.sender.eventsFor(customerConn)
	require.Contains(t, events, EventDriverLocationUpdate)
	for _, frame := range f.sender.frames {
		if frame.Event != EventDriverLocationUpdate {
			continue
		}
		payload := frame.Payload.(map[string]any)
		assert.Equal(t, int64(41), payload["orderId"])
		assert.Equal(t, int64(9), payload["driverId"])
		assert.Equal(t, 52.53, payload["latitude"])
		assert.Equal(t, 13.41, payload["longitude"])
	}
}

func TestCourierLocation_WithoutOrderOnlyRecordsPosition(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()
	f.courierResume.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventRegisterCourier,
		registerCourierData{DriverID: 9, DriverName: "Kai"}))

	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventCourierLocation,
		courierLocationData{Latitude: 52.53, Longitude: 13.41}))

	session, _ := f.registry.CourierSession(conn)
	require.NotNil(t, session.LastKnown)
	assert.Equal(t, 52.53, session.LastKnown.Lat())
	assert.Empty(t, f.sender.frames)
}

func TestMarkDelivered_FreesCourier(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()
	f.courierResume.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventRegisterCourier,
		registerCourierData{DriverID: 9, DriverName: "Kai"}))

	assigned := assignedOrder(t, kernel.OrderID(41), kernel.CustomerID(42))
	f.accept.On("Handle", mock.Anything, mock.Anything).Return(assigned, nil, nil)
	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventAcceptOrder,
		acceptOrderData{OrderID: 41}))

	f.delivered.On("Handle", mock.Anything, mock.Anything).
		Return([]commands.Notification{{Target: commands.TargetCustomer, Event: commands.EventOrderDelivered}}, nil)
	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventMarkDelivered,
		orderIDData{OrderID: 41}))

	session, _ := f.registry.CourierSession(conn)
	assert.True(t, session.Available)
	assert.Nil(t, session.CurrentOrder)
}

func TestCancelOrder_FreesAssignedCourier(t *testing.T) {
	f := newRouterFixture(t)
	courierConn := kernel.NewConnID()
	operatorConn := kernel.NewConnID()
	f.courierResume.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
	f.router.HandleFrame(context.Background(), courierConn, frameOf(t, EventRegisterCourier,
		registerCourierData{DriverID: 9, DriverName: "Kai"}))
	f.router.HandleFrame(context.Background(), operatorConn, frameOf(t, EventRegisterOperator,
		registerOperatorData{RestaurantID: 7}))

	assigned := assignedOrder(t, kernel.OrderID(41), kernel.CustomerID(42))
	f.accept.On("Handle", mock.Anything, mock.Anything).Return(assigned, nil, nil)
	f.router.HandleFrame(context.Background(), courierConn, frameOf(t, EventAcceptOrder,
		acceptOrderData{OrderID: 41}))

	f.cancel.On("Handle", mock.Anything, mock.Anything).Return([]commands.Notification{
		{Target: commands.TargetCustomer, Customer: kernel.CustomerID(42), Event: commands.EventOrderCancelled},
		{Target: commands.TargetCourier, Courier: kernel.CourierID(9), Event: commands.EventOrderCancelled},
	}, nil)
	f.router.HandleFrame(context.Background(), operatorConn, frameOf(t, EventCancelOrder,
		orderIDData{OrderID: 41}))

	session, _ := f.registry.CourierSession(courierConn)
	assert.True(t, session.Available)
	assert.Nil(t, session.CurrentOrder)
	require.Len(t, f.notifier.dispatched, 1)
}

func TestTransitionFrames_RouteToTheirHandlers(t *testing.T) {
	cases := []struct {
		name          string
		event         string
		data          any
		needsCourier  bool
		arm           func(f *routerFixture)
		assertHandled func(t *testing.T, f *routerFixture)
	}{
		{
			name:  "confirm order",
			event: EventConfirmOrder,
			data:  confirmOrderData{OrderID: 41, EstimatedTime: 20},
			arm: func(f *routerFixture) {
				f.confirm.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
			},
			assertHandled: func(t *testing.T, f *routerFixture) {
				f.confirm.AssertNumberOfCalls(t, "Handle", 1)
			},
		},
		{
			name:  "mark ready",
			event: EventMarkReady,
			data:  orderIDData{OrderID: 41},
			arm: func(f *routerFixture) {
				f.ready.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
			},
			assertHandled: func(t *testing.T, f *routerFixture) {
				f.ready.AssertNumberOfCalls(t, "Handle", 1)
			},
		},
		{
			name:         "mark picked up",
			event:        EventMarkPickedUp,
			data:         orderIDData{OrderID: 41},
			needsCourier: true,
			arm: func(f *routerFixture) {
				f.pickedUp.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
			},
			assertHandled: func(t *testing.T, f *routerFixture) {
				f.pickedUp.AssertNumberOfCalls(t, "Handle", 1)
			},
		},
		{
			name:  "cancel order",
			event: EventCancelOrder,
			data:  orderIDData{OrderID: 41},
			arm: func(f *routerFixture) {
				f.cancel.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
			},
			assertHandled: func(t *testing.T, f *routerFixture) {
				f.cancel.AssertNumberOfCalls(t, "Handle", 1)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRouterFixture(t)
			conn := kernel.NewConnID()
			if tc.needsCourier {
				f.courierResume.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
				f.router.HandleFrame(context.Background(), conn, frameOf(t, EventRegisterCourier,
					registerCourierData{DriverID: 9, DriverName: "Kai"}))
			}
			tc.arm(f)

			f.router.HandleFrame(context.Background(), conn, frameOf(t, tc.event, tc.data))

			tc.assertHandled(t, f)
			require.Len(t, f.notifier.dispatched, 1)
		})
	}
}

func TestUnknownEventRejected(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()

	f.router.HandleFrame(context.Background(), conn, Frame{Event: "self_destruct"})

	require.Len(t, f.sender.frames, 1)
	assert.Equal(t, EventOrderError, f.sender.frames[0].Event)
}

func TestOnDisconnect_RemovesPresence(t *testing.T) {
	f := newRouterFixture(t)
	conn := kernel.NewConnID()
	f.courierResume.On("Handle", mock.Anything, mock.Anything).Return(nil, nil)
	f.router.HandleFrame(context.Background(), conn, frameOf(t, EventRegisterCourier,
		registerCourierData{DriverID: 9, DriverName: "Kai"}))

	f.router.OnDisconnect(conn)

	_, ok := f.registry.CourierSession(conn)
	assert.False(t, ok)
}
