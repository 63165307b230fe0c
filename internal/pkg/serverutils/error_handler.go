package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors that escaped a controller into
// the standard JSON envelope. Internal error details stay in the logs;
// the body only carries the message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusOf(err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
