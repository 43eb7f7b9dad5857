package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/therapy-booking/controllers"
	"github.com/meinhoongagan/therapy-booking/middleware"
	"github.com/meinhoongagan/therapy-booking/models"
)

// setupCatalogRoutes mounts public reads and admin-only writes under path.
func setupCatalogRoutes[T any, I any](app *fiber.App, path string, ctrl *controllers.CatalogController[T, I], h Handlers) {
	if ctrl == nil {
		return
	}
	admin := middleware.RequireRole(models.RoleAdmin)

	group := app.Group(path)
	group.Get("/", ctrl.GetAll)
	group.Get("/:id", ctrl.Get)
	group.Post("/", h.Protected, admin, ctrl.Create)
	group.Patch("/:id", h.Protected, admin, ctrl.Update)
	group.Delete("/:id", h.Protected, admin, ctrl.Delete)
}

func SetupCatalogRoutes(app *fiber.App, h Handlers) {
	setupCatalogRoutes(app, "/therapies", h.Therapies, h)
	setupCatalogRoutes(app, "/advices", h.Advices, h)
	setupCatalogRoutes(app, "/services", h.Services, h)
	setupCatalogRoutes(app, "/resources", h.Resources, h)
}

func SetupFileRoutes(app *fiber.App, h Handlers) {
	app.Post("/files", h.Protected, middleware.RequireRole(models.RoleAdmin), h.Files.UploadImage)
}
