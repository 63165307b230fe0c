package service

import (
	"context"
	"testing"
	"time"

	"swiftmart-be/internal/dto"
	"swiftmart-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "notifications-test"

func newNotificationFixture(t *testing.T) (*fakeFactory, *fakeEmailService, INotifierService, INotificationService) {
	t.Helper()

	factory := newFakeFactory()
	emails := &fakeEmailService{}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	notifier := NewNotifierService(testTopic, pubSub)
	svc := NewNotificationService(pubSub, testTopic, factory, emails, noopLogger{})

	require.NoError(t, svc.Consume(context.Background()))
	return factory, emails, notifier, svc
}

func TestNotificationWorker_StoresRowAndSendsEmail(t *testing.T) {
	factory, emails, notifier, svc := newNotificationFixture(t)

	userId := uuid.New()
	factory.uow.users.users[userId] = &entity.User{Id: userId, Email: "buyer@example.com"}

	err := notifier.Notify(context.Background(), &dto.NotificationMessage{
		UserId:  userId,
		Type:    "refund",
		Title:   "Refund processed",
		Message: "Your refund of 50.00 has been processed.",
		Metadata: map[string]interface{}{
			"order_id":      uuid.New().String(),
			"amount":        50.00,
			"refund_method": "wallet",
		},
		Email: true,
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		res, err := svc.GetNotifications(context.Background(), userId, 10, 0)
		return err == nil && len(res.Notifications) == 1
	}, 2*time.Second, 10*time.Millisecond)

	res, err := svc.GetNotifications(context.Background(), userId, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "Refund processed", res.Notifications[0].Title)
	assert.Equal(t, "wallet", res.Notifications[0].Metadata["refund_method"])
	assert.Equal(t, int64(1), res.UnreadCount)

	assert.Eventually(t, func() bool {
		emails.mu.Lock()
		defer emails.mu.Unlock()
		return len(emails.refunded) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNotificationWorker_NoEmailWhenNotRequested(t *testing.T) {
	factory, emails, notifier, svc := newNotificationFixture(t)

	userId := uuid.New()
	factory.uow.users.users[userId] = &entity.User{Id: userId, Email: "vendor@example.com"}

	err := notifier.Notify(context.Background(), &dto.NotificationMessage{
		UserId:  userId,
		Type:    "order",
		Title:   "Order cancelled",
		Message: "Order was cancelled by the customer.",
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		res, err := svc.GetUnreadCount(context.Background(), userId)
		return err == nil && res.UnreadCount == 1
	}, 2*time.Second, 10*time.Millisecond)

	emails.mu.Lock()
	defer emails.mu.Unlock()
	assert.Empty(t, emails.cancelled)
	assert.Empty(t, emails.refunded)
}

func TestNotificationInbox_ReadFlow(t *testing.T) {
	factory, _, notifier, svc := newNotificationFixture(t)

	userId := uuid.New()
	factory.uow.users.users[userId] = &entity.User{Id: userId, Email: "buyer@example.com"}

	for i := 0; i < 3; i++ {
		require.NoError(t, notifier.Notify(context.Background(), &dto.NotificationMessage{
			UserId:  userId,
			Type:    "order",
			Title:   "Order update",
			Message: "something happened",
		}))
	}

	assert.Eventually(t, func() bool {
		res, err := svc.GetUnreadCount(context.Background(), userId)
		return err == nil && res.UnreadCount == 3
	}, 2*time.Second, 10*time.Millisecond)

	res, err := svc.GetNotifications(context.Background(), userId, 10, 0)
	require.NoError(t, err)
	require.Len(t, res.Notifications, 3)

	require.NoError(t, svc.MarkAsRead(context.Background(), userId, res.Notifications[0].Id))
	count, err := svc.GetUnreadCount(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.UnreadCount)

	require.NoError(t, svc.MarkAllAsRead(context.Background(), userId))
	count, err = svc.GetUnreadCount(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.UnreadCount)
}
