package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"courierhub/cmd"
	httpin "courierhub/internal/adapters/in/http"
	"courierhub/internal/adapters/in/ws"
	"courierhub/internal/adapters/out/postgres/orderrepo"
	"courierhub/internal/adapters/out/postgres/restaurantrepo"
	"courierhub/internal/adapters/out/postgres/userrepo"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config := getConfigs()

	gormDB, err := openDatabase(config)
	if err != nil {
		logger.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	root := cmd.NewCompositionRoot(config, gormDB, logger)

	placeHandler := root.CreatePlaceOrderCommandHandler()
	confirmHandler := root.CreateConfirmOrderCommandHandler()
	readyHandler := root.CreateMarkReadyCommandHandler()
	acceptHandler := root.CreateAcceptOrderCommandHandler()
	pickedUpHandler := root.CreateMarkPickedUpCommandHandler()
	deliveredHandler := root.CreateMarkDeliveredCommandHandler()
	cancelHandler := root.CreateCancelOrderCommandHandler()

	courierResume := root.CreateGetActiveOrderByCourierQueryHandler()
	customerResume := root.CreateGetActiveOrderByCustomerQueryHandler()

	router := ws.NewRouter(ws.RouterDeps{
		Registry:       root.Registry(),
		Place:          &placeHandler,
		Confirm:        &confirmHandler,
		Ready:          &readyHandler,
		Accept:         &acceptHandler,
		PickedUp:       &pickedUpHandler,
		Delivered:      &deliveredHandler,
		Cancel:         &cancelHandler,
		CourierResume:  courierResume,
		CustomerResume: customerResume,
		Logger:         logger,
	})
	hub := ws.NewHub(router, logger)
	dispatcher := root.CreateDispatcher(hub)
	router.Bind(hub, dispatcher)

	jobManager := root.CreateJobManager(dispatcher)
	if err := jobManager.StartAll(); err != nil {
		logger.Error("Job startup failed", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	server := httpin.NewServer(
		&acceptHandler,
		&cancelHandler,
		root.CreateGetOrdersByRestaurantQueryHandler(),
		customerResume,
		courierResume,
		root.Registry(),
		root.Directory(),
		dispatcher,
	)

	e := echo.New()
	e.Use(middleware.Recover())
	e.GET("/ws", hub.Handle)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)))
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("No .env file found, relying on environment")
	}

	return cmd.Config{
		HTTPPort:    os.Getenv("HTTP_PORT"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      os.Getenv("DB_PORT"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		DBSslMode:   os.Getenv("DB_SSLMODE"),
		ExpoPushURL: os.Getenv("EXPO_PUSH_URL"),
	}
}

func openDatabase(config cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode,
	)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&userrepo.UserDTO{},
		&restaurantrepo.RestaurantDTO{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return gormDB, nil
}
