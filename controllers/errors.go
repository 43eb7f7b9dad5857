package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/utils"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindNotFound:     fiber.StatusNotFound,
	apperr.KindConflict:     fiber.StatusBadRequest,
	apperr.KindBadRequest:   fiber.StatusBadRequest,
	apperr.KindForbidden:    fiber.StatusForbidden,
	apperr.KindUnauthorized: fiber.StatusUnauthorized,
	apperr.KindStorage:      fiber.StatusInternalServerError,
}

var messageByKind = map[apperr.Kind]string{
	apperr.KindNotFound:     "Resource not found",
	apperr.KindConflict:     "Conflict with an existing record",
	apperr.KindBadRequest:   "Invalid request",
	apperr.KindForbidden:    "Forbidden",
	apperr.KindUnauthorized: "Unauthorized",
	apperr.KindStorage:      "Internal server error",
}

// ErrorHandler renders every error returned by a handler as utils.ErrorResponse.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(utils.ErrorResponse{
				Message: fe.Message,
				Error:   fe.Error(),
			})
		}

		kind := apperr.KindOf(err)
		status := statusByKind[kind]
		detail := err.Error()
		if kind == apperr.KindStorage {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			detail = "unexpected error"
		}

		return c.Status(status).JSON(utils.ErrorResponse{
			Message: messageByKind[kind],
			Error:   detail,
		})
	}
}
