package main

import (
	"context"
	"log"
	"medmarket-service/cmd/migration"
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/delivery/http/controllers"
	"medmarket-service/internal/app/delivery/http/middlewares"
	"medmarket-service/internal/app/delivery/http/routers"
	"medmarket-service/internal/app/drivers/database"
	"medmarket-service/internal/app/drivers/logger"
	"medmarket-service/internal/app/drivers/messaging"
	"medmarket-service/internal/app/drivers/storage"
	"medmarket-service/internal/app/drivers/telemetry"
	"medmarket-service/internal/app/services/core/auth"
	"medmarket-service/internal/app/services/core/catalog"
	"medmarket-service/internal/app/services/core/orders"
	"medmarket-service/internal/app/services/core/prescriptions"
	"medmarket-service/internal/app/services/core/providers"
	"medmarket-service/internal/app/services/core/roles"
	"medmarket-service/internal/app/services/core/session"
	"medmarket-service/internal/app/services/core/users"
	"medmarket-service/internal/app/services/shared/location"
	"medmarket-service/internal/app/services/shared/locker"
	"medmarket-service/internal/app/services/shared/notification"
	"medmarket-service/internal/app/services/shared/payment_gateway"
	"medmarket-service/internal/app/services/shared/ratelimiter"
	"medmarket-service/internal/app/services/shared/redis"
	minioStorage "medmarket-service/internal/app/services/shared/storage"
	"medmarket-service/internal/app/services/shared/transactor"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Version sets the default build version
var Version = "develop"

// Tag sets the default latest commit tag
var Tag = "0.0.1-rc"

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	zapLogger.Info("starting medmarket service",
		zap.String("build_version", Version),
		zap.String("build_tag", Tag),
		zap.String("env", internalConfig.App.Env),
	)

	timeLocation, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = timeLocation

	postgresDB := database.NewPostgresDB(driverConfig)
	if internalConfig.App.MigrateOnStart {
		migration.Run(postgresDB, logger.NewLogrusLogger(internalConfig.App.Env))
	}
	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQConnection := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig, internalConfig)
	tracerShutdown := telemetry.NewTracerProvider(internalConfig, zapLogger)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		PostgresDB:     postgresDB,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Minio:          minioClient,
		RabbitMQ:       rabbitMQConnection,
		Logger:         zapLogger,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
		TracerShutdown: tracerShutdown,
	}

	err = bootstrapingTheApp(&bootstrap)
	if err != nil {
		log.Fatalf("Error bootstraping the app: %v", err)
	}

	server := &http.Server{
		Addr:              internalConfig.App.Port,
		Handler:           otelhttp.NewHandler(chiRouter, internalConfig.Telemetry.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("http server listening", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Error releasing resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	internalConfig := bootstrap.InternalConfig
	log := bootstrap.Logger
	mongoDBName := internalConfig.MongoDB.DBName

	// Shared services
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, log)
	resourceLimiter := ratelimiter.NewResourceLimiter(redisRepository, log)
	postgresTransactor := transactor.NewPostgresTransactor(bootstrap.PostgresDB, log)
	paymentGateway := payment_gateway.NewPaystackService(internalConfig, log)
	prescriptionStorage := minioStorage.NewMinioStorage(bootstrap.Minio)

	publisher, err := notification.NewRabbitMQPublisher(bootstrap.RabbitMQ, log)
	if err != nil {
		return err
	}

	locationService, err := location.NewLocationService()
	if err != nil {
		return err
	}

	authorizer, err := roles.NewAuthorizer()
	if err != nil {
		return err
	}

	// Repositories
	catalogRepository := catalog.NewCatalogPostgresRepository(bootstrap.PostgresDB)
	offeringRepository := catalog.NewOfferingPostgresRepository(bootstrap.PostgresDB)
	providerRepository := providers.NewProviderPostgresRepository(bootstrap.PostgresDB)
	orderRepository := orders.NewOrderPostgresRepository(bootstrap.PostgresDB)
	orderItemRepository := orders.NewOrderItemPostgresRepository(bootstrap.PostgresDB)
	transactionReferenceRepository := orders.NewTransactionReferencePostgresRepository(bootstrap.PostgresDB)
	orderEventRepository := orders.NewOrderEventMongoRepository(bootstrap.MongoDB, mongoDBName)
	prescriptionRepository := prescriptions.NewPrescriptionPostgresRepository(bootstrap.PostgresDB)
	userRepository := users.NewUserPostgresRepository(bootstrap.PostgresDB)

	// Usecases
	inventoryService := orders.NewInventoryService(offeringRepository, orderItemRepository, log)
	catalogUsecase := catalog.NewCatalogUsecase(catalogRepository, offeringRepository, log)
	cartUsecase := orders.NewCartUsecase(
		postgresTransactor,
		orderRepository,
		orderItemRepository,
		offeringRepository,
		catalogRepository,
		providerRepository,
		inventoryService,
		internalConfig,
		log,
	)
	checkoutUsecase := orders.NewCheckoutUsecase(
		postgresTransactor,
		orderRepository,
		orderItemRepository,
		prescriptionRepository,
		transactionReferenceRepository,
		inventoryService,
		paymentGateway,
		prescriptionStorage,
		lockerService,
		redisRepository,
		internalConfig,
		log,
	)
	confirmationUsecase := orders.NewConfirmationUsecase(
		postgresTransactor,
		orderRepository,
		orderItemRepository,
		prescriptionRepository,
		transactionReferenceRepository,
		orderEventRepository,
		providerRepository,
		paymentGateway,
		publisher,
		internalConfig,
		log,
	)
	prescriptionUsecase := prescriptions.NewPrescriptionUsecase(
		postgresTransactor,
		prescriptionRepository,
		orderRepository,
		orderItemRepository,
		orderEventRepository,
		providerRepository,
		inventoryService,
		prescriptionStorage,
		publisher,
		internalConfig,
		log,
	)
	providerUsecase := providers.NewProviderUsecase(
		postgresTransactor,
		providerRepository,
		offeringRepository,
		catalogRepository,
		orderRepository,
		orderItemRepository,
		orderEventRepository,
		inventoryService,
		locationService,
		publisher,
		internalConfig,
		log,
	)
	userUsecase := users.NewUserUsecase(userRepository, providerRepository, log)
	sessionService := session.NewSessionService(redisRepository)
	authUsecase := auth.NewAuthUsecase(userRepository, sessionService, resourceLimiter, internalConfig, log)

	// Workers
	expiryWorker := orders.NewExpiryWorker(log, internalConfig, lockerService, checkoutUsecase)
	expiryWorker.Start(context.Background())
	bootstrap.WorkerStop = expiryWorker.Stop

	// Delivery
	middlewares := middlewares.NewMiddlewares(log, authUsecase, authorizer, internalConfig)
	routers.SetupRoutes(bootstrap.Router, internalConfig, log, middlewares, &routers.Controllers{
		Cart:         controllers.NewCartController(log, cartUsecase, internalConfig),
		Checkout:     controllers.NewCheckoutController(log, checkoutUsecase, internalConfig),
		Confirmation: controllers.NewConfirmationController(log, confirmationUsecase),
		Catalog:      controllers.NewCatalogController(log, catalogUsecase),
		Auth:         controllers.NewAuthController(log, authUsecase),
		Provider:     controllers.NewProviderController(log, providerUsecase),
		Prescription: controllers.NewPrescriptionController(log, prescriptionUsecase),
		User:         controllers.NewUserController(log, userUsecase),
		Health:       controllers.NewHealthController(internalConfig),
	})

	return nil
}
