package routers

import (
	"medmarket-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachCartRoutes(router chi.Router, cartController *controllers.CartController) {
	router.Get("/", cartController.GetCart)
	router.Post("/items", cartController.AddItem)
	router.Put("/items/{itemId}", cartController.UpdateItem)
	router.Delete("/items/{itemId}", cartController.RemoveItem)
	router.Put("/items/{itemId}/schedule", cartController.UpdateItemSchedule)
}
