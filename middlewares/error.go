package middlewares

import (
	"errors"
	"strings"

	"staffhub-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var kindStatus = map[services.Kind]int{
	services.KindValidation:    fiber.StatusBadRequest,
	services.KindUnauthorized:  fiber.StatusUnauthorized,
	services.KindNotFound:      fiber.StatusNotFound,
	services.KindConflict:      fiber.StatusConflict,
	services.KindDataIntegrity: fiber.StatusInternalServerError,
	services.KindPersistence:   fiber.StatusInternalServerError,
}

// NewErrorHandler centralizes error responses and keeps messages sanitized.
func NewErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// 1) Fiber errors (use their status code + message)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		// 2) Validation errors (400 + per-field info)
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := make(map[string]string, len(ve))
			for _, fe := range ve {
				// Namespace is "Struct.field[0].sub"; drop the Go type name.
				ns := fe.Namespace()
				if i := strings.IndexByte(ns, '.'); i >= 0 {
					ns = ns[i+1:]
				}
				out[ns] = fe.Tag()
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "validation failed",
				"errors":  out,
			})
		}

		// 3) Domain errors
		kind := services.KindOf(err)
		status, ok := kindStatus[kind]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.Error(err),
				zap.String("kind", kind.String()),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Any("request_id", c.Locals(RequestIDLocalsKey)),
			)
		}
		return c.Status(status).JSON(fiber.Map{"message": services.PublicMessage(err)})
	}
}
