package routers

import (
	"fmt"
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/delivery/http/controllers"
	mw "medmarket-service/internal/app/delivery/http/middlewares"
	"medmarket-service/internal/pkg/constvars"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Controllers struct {
	Cart         *controllers.CartController
	Checkout     *controllers.CheckoutController
	Confirmation *controllers.ConfirmationController
	Catalog      *controllers.CatalogController
	Auth         *controllers.AuthController
	Provider     *controllers.ProviderController
	Prescription *controllers.PrescriptionController
	User         *controllers.UserController
	Health       *controllers.HealthController
}

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
	middlewares *mw.Middlewares,
	controllers *Controllers,
) {
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(logger))
	router.Use(middlewares.ErrorHandler)

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", constvars.HeaderXGuestID, constvars.HeaderIdempotencyKey, constvars.HeaderAPIKey, constvars.HeaderXRequestID},
		ExposedHeaders:   []string{"Link", constvars.HeaderXGuestID, constvars.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(chimiddleware.RequestSize(int64(internalConfig.App.RequestBodyLimitInMegabyte) << 20))

	router.Use(middlewares.APIKeyAuth)
	normalLimiter, apiKeyLimiter := middlewares.CreateRateLimiters()
	router.Use(middlewares.ConditionalRateLimit(normalLimiter, apiKeyLimiter))

	checkoutLimiter := mw.NewRateLimiter(
		internalConfig.App.MaxTimeRequestsPerSeconds,
		time.Second,
		time.Duration(internalConfig.Checkout.RateLimitBlockInSeconds)*time.Second,
		logger,
	)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Get("/health", controllers.Health.Health)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Get("/health", controllers.Health.Health)

			r.Route("/cart", func(r chi.Router) {
				attachCartRoutes(r, controllers.Cart)
			})

			r.Get("/providers/{providerId}/time-slots", controllers.Cart.GetAvailableTimeSlots)

			r.Route("/checkout", func(r chi.Router) {
				r.Use(checkoutLimiter.Limit)
				attachCheckoutRoutes(r, controllers.Checkout)
			})

			r.With(checkoutLimiter.Limit).Post("/confirmation", controllers.Confirmation.ConfirmOrder)
			r.Get("/tracking/{trackingCode}", controllers.Confirmation.TrackOrders)

			r.Route("/catalog", func(r chi.Router) {
				attachCatalogRoutes(r, middlewares, controllers.Catalog)
			})

			r.Route("/auth", func(r chi.Router) {
				attachAuthRoutes(r, middlewares, controllers.Auth)
			})

			r.Route("/providers", func(r chi.Router) {
				attachProviderRoutes(r, middlewares, controllers.Provider)
			})

			r.Route("/back-office", func(r chi.Router) {
				r.Use(middlewares.Authenticate, middlewares.Authorize)
				attachBackOfficeRoutes(r, controllers.Provider)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewares.Authenticate, middlewares.Authorize)
				attachAdminRoutes(r, controllers.Prescription, controllers.User)
			})
		})
	})
}
