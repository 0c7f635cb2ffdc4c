package handlers

import (
	"errors"
	"fmt"
	"log"

	"sosmed/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// newValidator returns a validator that understands the simpleemail tag.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return services.IsValidEmail(fl.Field().String())
	})
	return v
}

// statusOf maps an error kind to its HTTP status.
func statusOf(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindConflict, services.KindInvalidCredentials:
		return fiber.StatusBadRequest
	case services.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case services.KindForbidden:
		return fiber.StatusForbidden
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindTooManyRequests:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as {"error": message}. Internal causes are logged
// under op and never sent to the client.
func respondError(c *fiber.Ctx, op string, err error) error {
	kind := services.KindOf(err)
	if kind == services.KindInternal {
		log.Printf("Error in %s controller: %v", op, err)
	}
	return c.Status(statusOf(kind)).JSON(fiber.Map{
		"error": services.MessageOf(err),
	})
}

// parseBody decodes and validates the request body into out. It writes the
// 400 response itself and returns false when the body is unusable.
func parseBody(c *fiber.Ctx, v *validator.Validate, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	err := v.Struct(out)
	if err == nil {
		return true, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false, respondError(c, "validation", services.InternalError("failed to validate request", err))
	}

	message := "Validation failed"
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		if e.Tag() == "simpleemail" {
			message = "Invalid email format"
		}
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  message,
		"errors": errorMessages,
	})
}
