package middlewares

import (
	"fmt"
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	helper "schoolhub_backend/internals/helpers"
)

// RecoveryMiddleware turns panics into the 500 body shape the rest of the
// API produces. The stack leaks into the response only in development.
func RecoveryMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				log.Printf("[PANIC] %s %s: %v\n%s", c.Method(), c.OriginalURL(), r, stack)
				err = helper.ServerError(c, "Internal Server Error", fmt.Errorf("%v", r), stack)
			}
		}()
		return c.Next()
	}
}
