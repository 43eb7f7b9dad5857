package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/therapy-booking/middleware"
	"github.com/meinhoongagan/therapy-booking/models"
)

// SetupUserRoutes configures registration, login and user management routes
func SetupUserRoutes(app *fiber.App, h Handlers) {
	ctrl := h.Users
	admin := middleware.RequireRole(models.RoleAdmin)
	self := middleware.RequireOwner(h.Gate, "id", ctrl.Owner)

	users := app.Group("/users")

	// Public routes
	users.Post("/", ctrl.Register)
	users.Post("/login", ctrl.Login)
	users.Post("/complete-registration", ctrl.CompleteRegistration)

	// Protected routes
	users.Get("/", h.Protected, admin, ctrl.GetAllUsers)
	users.Patch("/approve/:id", h.Protected, admin, ctrl.ApproveUser)
	users.Get("/:id", h.Protected, self, ctrl.GetUserByID)
	users.Patch("/:id", h.Protected, self, ctrl.UpdateUser)
	users.Delete("/:id", h.Protected, admin, ctrl.DeleteUser)
}
