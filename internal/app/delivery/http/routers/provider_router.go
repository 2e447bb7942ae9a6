package routers

import (
	"medmarket-service/internal/app/delivery/http/controllers"
	"medmarket-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachProviderRoutes(router chi.Router, middlewares *middlewares.Middlewares, providerController *controllers.ProviderController) {
	router.Post("/", providerController.RegisterProvider)
	router.With(middlewares.Authenticate, middlewares.Authorize).Put("/{id}/review", providerController.ReviewProvider)
	router.With(middlewares.Authenticate, middlewares.Authorize).Put("/{id}/active", providerController.SetProviderActive)
}

func attachBackOfficeRoutes(router chi.Router, providerController *controllers.ProviderController) {
	router.Get("/offerings", providerController.ListOfferings)
	router.Post("/offerings", providerController.UpsertOffering)
	router.Put("/offerings/{itemId}", providerController.UpdateOffering)
	router.Delete("/offerings/{itemId}", providerController.DeleteOffering)
	router.Get("/orders", providerController.ListOrders)
	router.Put("/orders/{orderId}/status", providerController.UpdateOrderStatus)
	router.Post("/device-tokens", providerController.RegisterDeviceToken)
}
