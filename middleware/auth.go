package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/auth"
	"github.com/meinhoongagan/therapy-booking/authz"
)

const principalKey = "principal"

// Protected verifies the bearer token and stores the resulting authz.Principal in locals.
func Protected(tokens *auth.Tokens, log *zap.Logger) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    tokens.Secret(),
		SigningMethod: "HS256",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Debug("jwt rejected", zap.String("path", c.Path()), zap.Error(err))
			return apperr.Unauthorized("invalid or expired token")
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return apperr.Unauthorized("no authentication token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return apperr.Unauthorized("invalid token claims")
			}
			p, err := auth.PrincipalFromClaims(claims)
			if err != nil {
				return err
			}
			c.Locals(principalKey, p)
			return c.Next()
		},
	})
}

// CurrentPrincipal returns the principal stored by Protected.
func CurrentPrincipal(c *fiber.Ctx) (authz.Principal, error) {
	p, ok := c.Locals(principalKey).(authz.Principal)
	if !ok {
		return authz.Principal{}, apperr.Unauthorized("authentication required")
	}
	return p, nil
}
