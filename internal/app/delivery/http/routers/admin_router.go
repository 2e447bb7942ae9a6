package routers

import (
	"medmarket-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachAdminRoutes(router chi.Router, prescriptionController *controllers.PrescriptionController, userController *controllers.UserController) {
	router.Get("/prescriptions", prescriptionController.ListPrescriptions)
	router.Put("/prescriptions/{id}/review", prescriptionController.ReviewPrescription)
	router.Get("/prescriptions/{id}/file", prescriptionController.GetFileURL)

	router.Get("/users", userController.ListUsers)
	router.Post("/users", userController.CreateUser)
	router.Put("/users/{id}/active", userController.SetUserActive)
}
