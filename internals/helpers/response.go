package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/configs"
)

// The API's body shapes predate this codebase: entities come back raw, and
// everything else is `{message}` or `{message, error}`. Callers branch on
// the presence of `message`, not only on status codes.

// Message sends a 200 informational object (used for "No students found",
// "Maximum attendance limit reached", and friends).
func Message(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": message})
}

func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{"message": message})
}

// ErrorWith attaches the underlying driver error text verbatim, raw SQL
// error included.
func ErrorWith(c *fiber.Ctx, code int, message string, err error) error {
	body := fiber.Map{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(code).JSON(body)
}

// ServerError adds the stack only in development; whether that flag reads
// the way its author intended is anyone's guess, but it is what ships.
func ServerError(c *fiber.Ctx, message string, err error, stack []byte) error {
	body := fiber.Map{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	if configs.IsDevelopment() && len(stack) > 0 {
		body["stack"] = string(stack)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}

func ValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return Error(c, fiber.StatusBadRequest, "Invalid input")
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  fields,
	})
}
