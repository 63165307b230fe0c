package contract

import (
	"context"

	"swiftmart-be/internal/entity"
	"swiftmart-be/internal/repository/specification"
)

type UserRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
}
