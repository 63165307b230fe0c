package contract

import (
	"context"

	"swiftmart-be/internal/model"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindByUserId(ctx context.Context, userId uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	UnreadCount(ctx context.Context, userId uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, userId, notificationId uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userId uuid.UUID) error
}
