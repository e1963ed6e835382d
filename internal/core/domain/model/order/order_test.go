package order_test

import (
	"testing"
	"time"

	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/order"
	"courierhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems(t *testing.T) []order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(kernel.ProductID(1), "Margherita", 2, 5.0)
	require.NoError(t, err)
	return []order.LineItem{item}
}

func testPoint(t *testing.T) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(-12.05, -77.04)
	require.NoError(t, err)
	return point
}

func placedOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.RestaurantID(7),
		kernel.CustomerID(42),
		testItems(t),
		10.0,
		"Av. Arequipa 123",
		testPoint(t),
	)
	require.NoError(t, err)
	require.NoError(t, o.AssignID(kernel.OrderID(1)))
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates_pending_order_without_courier", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.RestaurantID(7),
			kernel.CustomerID(42),
			testItems(t),
			10.0,
			"Av. Arequipa 123",
			testPoint(t),
		)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Courier())
		assert.Equal(t, kernel.OrderID(0), o.ID())
		assert.Len(t, o.Items(), 1)
		assert.WithinDuration(t, time.Now().UTC(), o.CreatedAt(), time.Minute)
	})

	t.Run("rejects_empty_items", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.RestaurantID(7),
			kernel.CustomerID(42),
			nil,
			10.0,
			"Av. Arequipa 123",
			testPoint(t),
		)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects_invalid_restaurant", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.RestaurantID(0),
			kernel.CustomerID(42),
			testItems(t),
			10.0,
			"Av. Arequipa 123",
			testPoint(t),
		)

		require.Error(t, err)
	})

	t.Run("rejects_empty_address_and_negative_total", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.RestaurantID(7), kernel.CustomerID(42), testItems(t),
			-1.0, "", testPoint(t),
		)

		require.Error(t, err)
	})

	t.Run("zero_value_order_fails_validation", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_AssignID(t *testing.T) {
	o, err := order.NewOrder(
		kernel.RestaurantID(7), kernel.CustomerID(42), testItems(t),
		10.0, "Av. Arequipa 123", testPoint(t),
	)
	require.NoError(t, err)

	require.NoError(t, o.AssignID(kernel.OrderID(5)))
	assert.Equal(t, kernel.OrderID(5), o.ID())

	require.ErrorIs(t, o.AssignID(kernel.OrderID(6)), order.ErrOrderIDAlreadyAssigned)
	assert.Equal(t, kernel.OrderID(5), o.ID())
}

func TestOrder_Lifecycle(t *testing.T) {
	t.Run("full_happy_path", func(t *testing.T) {
		o := placedOrder(t)

		require.NoError(t, o.Confirm(20))
		assert.Equal(t, order.Confirmed, o.Status())
		require.NotNil(t, o.EstimatedMinutes())
		assert.Equal(t, 20, *o.EstimatedMinutes())

		require.NoError(t, o.MarkReady())
		assert.Equal(t, order.Ready, o.Status())

		require.NoError(t, o.AssignCourier(kernel.CourierID(3), "Ana"))
		assert.Equal(t, order.DriverAssigned, o.Status())
		require.NotNil(t, o.Courier())
		assert.Equal(t, kernel.CourierID(3), *o.Courier())
		assert.Equal(t, "Ana", o.CourierName())

		require.NoError(t, o.MarkPickedUp())
		assert.Equal(t, order.PickedUp, o.Status())

		require.NoError(t, o.MarkDelivered())
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("ready_directly_from_pending", func(t *testing.T) {
		o := placedOrder(t)

		require.NoError(t, o.MarkReady())
		assert.Equal(t, order.Ready, o.Status())
	})

	t.Run("courier_is_never_overwritten", func(t *testing.T) {
		o := placedOrder(t)
		require.NoError(t, o.MarkReady())
		require.NoError(t, o.AssignCourier(kernel.CourierID(3), "Ana"))

		err := o.AssignCourier(kernel.CourierID(4), "Luis")

		require.ErrorIs(t, err, order.ErrCourierAlreadyAssigned)
		assert.Equal(t, kernel.CourierID(3), *o.Courier())
		assert.Equal(t, "Ana", o.CourierName())
	})

	t.Run("rejected_transition_leaves_status_unchanged", func(t *testing.T) {
		o := placedOrder(t)

		err := o.MarkPickedUp()

		require.ErrorIs(t, err, order.ErrStatusTransitionNotAllowed)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("confirm_rejects_non_positive_estimate", func(t *testing.T) {
		o := placedOrder(t)

		require.Error(t, o.Confirm(0))
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("cancel_from_any_non_terminal_state", func(t *testing.T) {
		o := placedOrder(t)
		require.NoError(t, o.Confirm(15))

		require.NoError(t, o.Cancel())
		assert.Equal(t, order.Cancelled, o.Status())

		require.ErrorIs(t, o.Cancel(), order.ErrStatusTransitionNotAllowed)
	})

	t.Run("delivered_order_cannot_be_cancelled", func(t *testing.T) {
		o := placedOrder(t)
		require.NoError(t, o.MarkReady())
		require.NoError(t, o.AssignCourier(kernel.CourierID(3), "Ana"))
		require.NoError(t, o.MarkPickedUp())
		require.NoError(t, o.MarkDelivered())

		require.ErrorIs(t, o.Cancel(), order.ErrStatusTransitionNotAllowed)
	})
}

func TestRestoreOrder(t *testing.T) {
	courierID := kernel.CourierID(3)
	estimate := 20
	created := time.Now().UTC().Add(-time.Hour)

	t.Run("restores_assigned_order", func(t *testing.T) {
		o, err := order.RestoreOrder(
			kernel.OrderID(1),
			kernel.RestaurantID(7),
			kernel.CustomerID(42),
			testItems(t),
			10.0,
			"Av. Arequipa 123",
			testPoint(t),
			order.DriverAssigned,
			&courierID,
			"Ana",
			&estimate,
			created,
		)

		require.NoError(t, err)
		assert.Equal(t, order.DriverAssigned, o.Status())
		assert.Equal(t, kernel.CourierID(3), *o.Courier())
		assert.Equal(t, created, o.CreatedAt())
	})

	t.Run("rejects_assigned_status_without_courier", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.OrderID(1), kernel.RestaurantID(7), kernel.CustomerID(42),
			testItems(t), 10.0, "Av. Arequipa 123", testPoint(t),
			order.DriverAssigned, nil, "", nil, created,
		)

		require.Error(t, err)
	})

	t.Run("rejects_courier_on_pending_order", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.OrderID(1), kernel.RestaurantID(7), kernel.CustomerID(42),
			testItems(t), 10.0, "Av. Arequipa 123", testPoint(t),
			order.Pending, &courierID, "Ana", nil, created,
		)

		require.Error(t, err)
	})
}

func TestNewLineItem(t *testing.T) {
	t.Run("captures_price_at_placement_time", func(t *testing.T) {
		item, err := order.NewLineItem(kernel.ProductID(1), "Margherita", 2, 5.0)

		require.NoError(t, err)
		require.NoError(t, item.Validate())
		assert.Equal(t, kernel.ProductID(1), item.ProductID())
		assert.Equal(t, "Margherita", item.ProductName())
		assert.Equal(t, 2, item.Quantity())
		assert.InDelta(t, 5.0, item.PriceAtTime(), 0.000001)
	})

	t.Run("rejects_non_positive_quantity", func(t *testing.T) {
		_, err := order.NewLineItem(kernel.ProductID(1), "Margherita", 0, 5.0)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_negative_price", func(t *testing.T) {
		_, err := order.NewLineItem(kernel.ProductID(1), "Margherita", 1, -0.01)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var item order.LineItem
		require.ErrorIs(t, item.Validate(), order.ErrLineItemIsNotConstructed)
	})
}
