// Package jobs provides the scheduled background tasks of the coordinator,
// built on github.com/robfig/cron/v3. The re-offer job periodically
// re-broadcasts READY orders that no courier has accepted yet, so couriers
// connecting after the original offer still see it.
package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"courierhub/internal/core/application/usecases/commands"
	"courierhub/internal/core/domain/model/kernel"
	"courierhub/internal/core/domain/model/restaurant"
)

type pickupSource interface {
	Get(ctx context.Context, id kernel.RestaurantID) (restaurant.Restaurant, error)
}

type notifier interface {
	Dispatch(ctx context.Context, notifications []commands.Notification)
}

// OrderReofferJob re-broadcasts the courier offer for READY orders that are
// still unassigned. Runs every 30 seconds. Only the connection broadcast is
// repeated; the push message went out once when the order became ready.
type OrderReofferJob struct {
	uowFactory commands.OrderUoWFactory
	pickups    pickupSource
	notifier   notifier
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewOrderReofferJob creates the re-offer job.
func NewOrderReofferJob(
	uowFactory commands.OrderUoWFactory,
	pickups pickupSource,
	notifier notifier,
	logger *slog.Logger,
) *OrderReofferJob {
	return &OrderReofferJob{
		uowFactory: uowFactory,
		pickups:    pickups,
		notifier:   notifier,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "order_reoffer_job"),
	}
}

// Start schedules the job to run every 30 seconds.
func (j *OrderReofferJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		if err := j.run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Order re-offer job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order re-offer job started (running every 30 seconds)")
	return nil
}

// Stop stops the job.
func (j *OrderReofferJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order re-offer job stopped")
}

func (j *OrderReofferJob) run(ctx context.Context) error {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	waiting, err := uow.OrderRepository().GetAllReadyUnassigned(ctx)
	if err != nil {
		return err
	}
	if len(waiting) == 0 {
		return nil
	}

	for _, ready := range waiting {
		pickup, err := j.pickups.Get(ctx, ready.RestaurantID())
		if err != nil {
			j.logger.WarnContext(ctx, "Pickup lookup failed during re-offer",
				"order_id", int64(ready.ID()), "error", err)
			continue
		}

		// Drop the push leg; couriers were pushed when the order became ready.
		var broadcast []commands.Notification
		for _, offer := range commands.OfferNotifications(ready, pickup) {
			if offer.Target == commands.TargetCourierPush {
				continue
			}
			broadcast = append(broadcast, offer)
		}
		j.notifier.Dispatch(ctx, broadcast)
		j.logger.InfoContext(ctx, "Order re-offered", "order_id", int64(ready.ID()))
	}

	return nil
}
