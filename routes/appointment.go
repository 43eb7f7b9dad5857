package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/therapy-booking/middleware"
	"github.com/meinhoongagan/therapy-booking/models"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App, h Handlers) {
	ctrl := h.Appointments
	admin := middleware.RequireRole(models.RoleAdmin)

	appointment := app.Group("/appointments")
	appointment.Get("/", ctrl.GetAllAppointments)
	appointment.Get("/user/:userId", h.Protected, middleware.RequireOwner(h.Gate, "userId", h.Users.Owner), ctrl.GetUserAppointments)
	appointment.Get("/:id", ctrl.GetAppointment)

	appointment.Post("/", h.Protected, ctrl.CreateAppointment)
	appointment.Post("/assign", h.Protected, admin, ctrl.AssignAppointment)
	appointment.Post("/complete-past", h.Protected, admin, ctrl.CompletePastAppointments)

	appointment.Patch("/request-cancellation/:id", h.Protected, middleware.RequireOwner(h.Gate, "id", ctrl.Owner), ctrl.RequestCancellation)
	appointment.Patch("/approve/:id", h.Protected, admin, ctrl.ApproveAppointment)
	appointment.Patch("/approve-cancellation/:id", h.Protected, admin, ctrl.ApproveCancellation)
	appointment.Patch("/:id", h.Protected, middleware.RequireOwner(h.Gate, "id", ctrl.Owner), ctrl.UpdateAppointment)

	appointment.Delete("/:id", h.Protected, admin, ctrl.DeleteAppointment)
}
