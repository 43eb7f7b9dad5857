package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/authz"
	"github.com/meinhoongagan/therapy-booking/models"
)

// RequireRole lets the request through only when the principal holds one of roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := CurrentPrincipal(c)
		if err != nil {
			return err
		}
		for _, r := range roles {
			if p.Role == r {
				return c.Next()
			}
		}
		return apperr.Forbidden("you don't have the required role to perform this action")
	}
}

// RequireOwner runs the authorization gate against the resource named by the
// route parameter param.
func RequireOwner(gate *authz.Gate, param string, load authz.Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := CurrentPrincipal(c)
		if err != nil {
			return err
		}
		id, err := uuid.Parse(c.Params(param))
		if err != nil {
			return apperr.BadRequest("invalid %s", param)
		}
		if err := gate.Authorize(c.UserContext(), p, id, load); err != nil {
			return err
		}
		return c.Next()
	}
}
