package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/therapy-booking/authz"
	"github.com/meinhoongagan/therapy-booking/controllers"
)

// Handlers groups everything the routes need. Protected verifies the bearer token.
type Handlers struct {
	Protected    fiber.Handler
	Gate         *authz.Gate
	Appointments *controllers.AppointmentController
	Users        *controllers.UserController
	Therapies    *controllers.TherapyController
	Advices      *controllers.AdviceController
	Services     *controllers.ServiceController
	Resources    *controllers.ResourceController
	Files        *controllers.FileController
}

func Setup(app *fiber.App, h Handlers) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("therapy-booking api")
	})
	SetupUserRoutes(app, h)
	SetupCatalogRoutes(app, h)
	SetupAppointmentRoutes(app, h)
	if h.Files != nil {
		SetupFileRoutes(app, h)
	}
}
