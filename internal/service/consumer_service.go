package service

import (
	"context"
	"encoding/json"
	"log"

	"bolt-sync-be/internal/dto"
	internalWS "bolt-sync-be/internal/websocket"
	"bolt-sync-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *internalWS.Hub
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *internalWS.Hub,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage forwards sync and deploy notifications to the websocket
// hub so connected editors can refresh their tree.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishSyncedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	eventType := payload.EventType
	if eventType == "" {
		eventType = events.FilesSynced
	}

	data := map[string]interface{}{
		"project_id": payload.ProjectId.String(),
		"file_count": payload.FileCount,
	}
	for k, v := range payload.Data {
		data[k] = v
	}

	if cs.hub != nil {
		cs.hub.Send(payload.ProjectId, events.New(eventType, data))
	}

	msg.Ack()
}
