package cmd

import (
	"log/slog"

	"gorm.io/gorm"

	"courierhub/internal/adapters/out/expo"
	"courierhub/internal/adapters/out/notify"
	"courierhub/internal/adapters/out/postgres"
	"courierhub/internal/adapters/out/postgres/restaurantrepo"
	"courierhub/internal/adapters/out/postgres/userrepo"
	"courierhub/internal/adapters/out/presence"
	"courierhub/internal/core/application/usecases/commands"
	"courierhub/internal/core/application/usecases/queries"
	"courierhub/internal/jobs"
)

type CompositionRoot struct {
	gormDB         *gorm.DB
	uowFactory     postgres.GormUnitOfWorkFactory
	registry       *presence.Registry
	directory      *userrepo.GormUserDirectory
	restaurantRepo *restaurantrepo.GormRestaurantRepository
	pushClient     *expo.Client
	logger         *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	pushURL := config.ExpoPushURL
	if pushURL == "" {
		pushURL = expo.DefaultBaseURL
	}

	return CompositionRoot{
		gormDB:         gormDB,
		uowFactory:     *postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:       presence.NewRegistry(),
		directory:      userrepo.NewGormUserDirectory(gormDB),
		restaurantRepo: restaurantrepo.NewGormRestaurantRepository(gormDB),
		pushClient:     expo.NewClient(pushURL),
		logger:         logger,
	}
}

func (c *CompositionRoot) Registry() *presence.Registry {
	return c.registry
}

func (c *CompositionRoot) Directory() *userrepo.GormUserDirectory {
	return c.directory
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	return commands.NewConfirmOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateMarkReadyCommandHandler() commands.MarkReadyCommandHandler {
	return commands.NewMarkReadyCommandHandler(c.orderUoWFactory(), c.restaurantRepo, c.logger)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateMarkPickedUpCommandHandler() commands.MarkPickedUpCommandHandler {
	return commands.NewMarkPickedUpCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	return commands.NewMarkDeliveredCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateGetOrdersByRestaurantQueryHandler() queries.GetOrdersByRestaurantQueryHandler {
	return queries.NewGetOrdersByRestaurantQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrderByCustomerQueryHandler() queries.GetActiveOrderByCustomerQueryHandler {
	return queries.NewGetActiveOrderByCustomerQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrderByCourierQueryHandler() queries.GetActiveOrderByCourierQueryHandler {
	return queries.NewGetActiveOrderByCourierQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateDispatcher(sender notify.ConnSender) *notify.Dispatcher {
	return notify.NewDispatcher(c.registry, c.directory, c.pushClient, sender, c.logger)
}

func (c *CompositionRoot) CreateJobManager(dispatcher *notify.Dispatcher) *jobs.JobManager {
	return jobs.NewJobManager(c.orderUoWFactory(), c.restaurantRepo, dispatcher, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
