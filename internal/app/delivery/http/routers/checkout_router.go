package routers

import (
	"medmarket-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachCheckoutRoutes(router chi.Router, checkoutController *controllers.CheckoutController) {
	router.Post("/", checkoutController.InitiateCheckout)
	router.Post("/session/retrieve", checkoutController.RetrieveSession)
	router.Post("/orders/{orderId}/resume", checkoutController.ResumeCheckout)
	router.Post("/orders/{orderId}/partial", checkoutController.PartialCheckout)
	router.Post("/orders/{orderId}/cancel", checkoutController.CancelPartialCheckout)
}
