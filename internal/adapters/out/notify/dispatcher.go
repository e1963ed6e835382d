// Package notify provides the notification dispatcher that fans lifecycle
// notifications out to connected clients and courier push devices. Delivery
// always happens after the producing transaction committed; a failed or
// skipped delivery never affects the stored order, it is logged and
// swallowed.
package notify

import (
	"context"
	"log/slog"

	"courierhub/internal/core/application/usecases/commands"
	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/ports"
)

// ConnSender delivers one event frame to one live connection. Implemented
// by the connection hub.
type ConnSender interface {
	SendToConn(conn kernel.ConnID, event string, payload any) error
}

// Dispatcher resolves notification targets against the presence registry
// and delivers each notification independently.
type Dispatcher struct {
	registry  ports.PresenceRegistry
	directory ports.UserDirectory
	push      ports.PushSender
	sender    ConnSender
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher wired to the presence registry, the
// user directory, the push sender and the connection hub.
func NewDispatcher(
	registry ports.PresenceRegistry,
	directory ports.UserDirectory,
	push ports.PushSender,
	sender ConnSender,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		directory: directory,
		push:      push,
		sender:    sender,
		logger:    logger.With("component", "notify_dispatcher"),
	}
}

// Dispatch delivers every notification in the plan. Failures are isolated
// per recipient: one unreachable client never blocks the rest.
func (d *Dispatcher) Dispatch(ctx context.Context, notifications []commands.Notification) {
	for _, notification := range notifications {
		switch notification.Target {
		case commands.TargetCustomer:
			d.toCustomer(ctx, notification)
		case commands.TargetOperators:
			d.toConns(ctx, d.registry.OperatorConnections(notification.Restaurant), notification)
		case commands.TargetAvailableCouriers:
			d.toConns(ctx, d.registry.AvailableCourierConnections(), notification)
		case commands.TargetCourier:
			d.toConns(ctx, d.registry.CourierConnections(notification.Courier), notification)
		case commands.TargetCourierPush:
			d.toCourierPush(ctx, notification)
		default:
			d.logger.WarnContext(ctx, "Unknown notification target",
				"target", int(notification.Target), "event", notification.Event)
		}
	}
}

func (d *Dispatcher) toCustomer(ctx context.Context, notification commands.Notification) {
	conn, ok := d.registry.CustomerConnection(notification.Customer)
	if !ok {
		d.logger.DebugContext(ctx, "Customer offline, dropping notification",
			"customerId", int64(notification.Customer), "event", notification.Event)
		return
	}

	d.toConns(ctx, []kernel.ConnID{conn}, notification)
}

func (d *Dispatcher) toConns(
	ctx context.Context, conns []kernel.ConnID, notification commands.Notification,
) {
	for _, conn := range conns {
		if err := d.sender.SendToConn(conn, notification.Event, notification.Payload); err != nil {
			d.logger.WarnContext(ctx, "Failed to deliver notification",
				"conn", conn.String(), "event", notification.Event, "error", err)
		}
	}
}

// toCourierPush sends the push complement of a courier offer to every
// courier with a registered address, connected or not.
func (d *Dispatcher) toCourierPush(ctx context.Context, notification commands.Notification) {
	if notification.Push == nil {
		return
	}

	targets, err := d.directory.CouriersWithPushAddress(ctx)
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to list push targets",
			"event", notification.Event, "error", err)
		return
	}

	for _, target := range targets {
		if !d.push.IsValidAddress(target.PushAddress) {
			d.logger.WarnContext(ctx, "Skipping malformed push address",
				"courierId", int64(target.CourierID))
			continue
		}

		msg := ports.PushMessage{
			To:       target.PushAddress,
			Title:    notification.Push.Title,
			Body:     notification.Push.Body,
			Data:     notification.Push.Data,
			Category: notification.Push.Category,
		}
		if err := d.push.Send(ctx, msg); err != nil {
			d.logger.WarnContext(ctx, "Failed to send push notification",
				"courierId", int64(target.CourierID), "event", notification.Event, "error", err)
		}
	}
}
