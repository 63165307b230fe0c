package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CurrentUserId reads the authenticated user id stored in locals by the
// JWT middleware.
func CurrentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	idStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, NewUnauthorized("Unauthorized")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewUnauthorized("Unauthorized")
	}
	return id, nil
}
