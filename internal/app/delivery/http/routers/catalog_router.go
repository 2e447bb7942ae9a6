package routers

import (
	"medmarket-service/internal/app/delivery/http/controllers"
	"medmarket-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachCatalogRoutes(router chi.Router, middlewares *middlewares.Middlewares, catalogController *controllers.CatalogController) {
	router.Get("/", catalogController.Search)
	router.Get("/{itemId}", catalogController.GetItem)
	router.Get("/{itemId}/offerings", catalogController.FindOfferings)
	router.With(middlewares.Authenticate, middlewares.Authorize).Post("/", catalogController.CreateItem)
}
