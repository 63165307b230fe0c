package implementation

import (
	"context"

	"swiftmart-be/internal/entity"
	"swiftmart-be/internal/model"
	"swiftmart-be/internal/repository/contract"
	"swiftmart-be/internal/repository/specification"

	"gorm.io/gorm"
)

type userRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelUser).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &entity.User{
		Id:        modelUser.Id,
		Email:     modelUser.Email,
		FullName:  modelUser.FullName,
		Role:      entity.UserRole(modelUser.Role),
		CreatedAt: modelUser.CreatedAt,
		UpdatedAt: modelUser.UpdatedAt,
	}, nil
}
