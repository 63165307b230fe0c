package service

import (
	"context"
	"encoding/json"

	"swiftmart-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// INotifierService publishes notification payloads onto the in-process
// topic consumed by the notification worker. Callers treat failures as
// best-effort: a notification that cannot be queued never fails the
// operation that produced it.
type INotifierService interface {
	Notify(ctx context.Context, msg *dto.NotificationMessage) error
}

type notifierService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewNotifierService(topicName string, pubSub *gochannel.GoChannel) INotifierService {
	return &notifierService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (s *notifierService) Notify(ctx context.Context, msg *dto.NotificationMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	wmMsg := message.NewMessage(watermill.NewUUID(), payload)
	wmMsg.SetContext(ctx)
	return s.pubSub.Publish(s.topicName, wmMsg)
}
