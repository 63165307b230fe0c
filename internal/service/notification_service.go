package service

import (
	"context"
	"encoding/json"
	"time"

	"swiftmart-be/internal/dto"
	"swiftmart-be/internal/model"
	"swiftmart-be/internal/pkg/logger"
	"swiftmart-be/internal/pkg/mailer"
	"swiftmart-be/internal/pkg/serverutils"
	"swiftmart-be/internal/repository/specification"
	"swiftmart-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type INotificationService interface {
	// Consume starts the background worker draining the notification
	// topic. It returns once the subscription is established.
	Consume(ctx context.Context) error

	GetNotifications(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userId uuid.UUID) (*dto.UnreadCountResponse, error)
	MarkAsRead(ctx context.Context, userId, notificationId uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userId uuid.UUID) error
}

type notificationService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	log          logger.ILogger
}

func NewNotificationService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		emailService: emailService,
		log:          log,
	}
}

func (s *notificationService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *notificationService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.NotificationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.log.Error("notification-worker", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		// Malformed payloads never become valid; drop them.
		msg.Ack()
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	notification := &model.Notification{
		Id:      uuid.New(),
		UserId:  payload.UserId,
		Type:    payload.Type,
		Title:   payload.Title,
		Message: payload.Message,
	}
	if payload.Metadata != nil {
		if raw, err := json.Marshal(payload.Metadata); err == nil {
			notification.Metadata = datatypes.JSON(raw)
		}
	}

	if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
		s.log.Error("notification-worker", "failed to store notification", map[string]interface{}{
			"user_id": payload.UserId.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	if payload.Email {
		s.sendEmail(ctx, uow, &payload)
	}

	msg.Ack()
}

// sendEmail is best-effort: an SMTP outage must not requeue the
// message, the inbox row is already written.
func (s *notificationService) sendEmail(ctx context.Context, uow unitofwork.UnitOfWork, payload *dto.NotificationMessage) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.UserId})
	if err != nil || user == nil || user.Email == "" {
		s.log.Warn("notification-worker", "skipping email, user lookup failed", map[string]interface{}{
			"user_id": payload.UserId.String(),
		})
		return
	}

	var sendErr error
	switch payload.Type {
	case "refund":
		amount, _ := payload.Metadata["amount"].(float64)
		method, _ := payload.Metadata["refund_method"].(string)
		orderId, _ := payload.Metadata["order_id"].(string)
		sendErr = s.emailService.SendRefundProcessed(user.Email, orderId, amount, method)
	default:
		orderId, _ := payload.Metadata["order_id"].(string)
		reason, _ := payload.Metadata["reason"].(string)
		sendErr = s.emailService.SendOrderCancelled(user.Email, orderId, reason)
	}

	if sendErr != nil {
		s.log.Warn("notification-worker", "failed to send email", map[string]interface{}{
			"user_id": payload.UserId.String(),
			"error":   sendErr.Error(),
		})
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	rows, total, err := uow.NotificationRepository().FindByUserId(ctx, userId, limit, offset)
	if err != nil {
		return nil, serverutils.NewInternal("failed to load notifications", err)
	}

	unread, err := uow.NotificationRepository().UnreadCount(ctx, userId)
	if err != nil {
		return nil, serverutils.NewInternal("failed to count notifications", err)
	}

	res := &dto.NotificationListResponse{
		Notifications: make([]*dto.NotificationResponse, 0, len(rows)),
		Total:         total,
		UnreadCount:   unread,
	}
	for i := range rows {
		res.Notifications = append(res.Notifications, toNotificationResponse(&rows[i]))
	}
	return res, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userId uuid.UUID) (*dto.UnreadCountResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	unread, err := uow.NotificationRepository().UnreadCount(ctx, userId)
	if err != nil {
		return nil, serverutils.NewInternal("failed to count notifications", err)
	}
	return &dto.UnreadCountResponse{UnreadCount: unread}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userId, notificationId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAsRead(ctx, userId, notificationId)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAllAsRead(ctx, userId)
}

func toNotificationResponse(n *model.Notification) *dto.NotificationResponse {
	res := &dto.NotificationResponse{
		Id:        n.Id,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Metadata) > 0 {
		var meta map[string]interface{}
		if err := json.Unmarshal(n.Metadata, &meta); err == nil {
			res.Metadata = meta
		}
	}
	return res
}

// notificationTimestamp formats inbox timestamps consistently for
// metadata payloads produced by the services.
func notificationTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
