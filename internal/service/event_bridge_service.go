package service

import (
	"context"

	"bolt-sync-be/internal/pkg/logger"
	"bolt-sync-be/pkg/events"
	pktNats "bolt-sync-be/pkg/nats"

	"github.com/google/uuid"
)

// EventDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type EventDelivery interface {
	Send(projectID uuid.UUID, event events.Event)
}

// EventBridgeService relays events arriving on the NATS stream to the
// websocket clients of this instance, so work done by other services
// still reaches connected editors.
type EventBridgeService struct {
	subscriber *pktNats.Subscriber
	delivery   EventDelivery
	logger     logger.ILogger
}

func NewEventBridgeService(sub *pktNats.Subscriber, delivery EventDelivery, log logger.ILogger) *EventBridgeService {
	return &EventBridgeService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *EventBridgeService) Start() {
	err := s.subscriber.Subscribe(pktNats.SubjectPrefix+".>", "sync-event-bridge", s.handleEvent)
	if err != nil {
		s.logger.Error("EventBridgeService", "Failed to start event bridge subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("EventBridgeService", "Event bridge started, listening to "+pktNats.SubjectPrefix+".>", nil)
}

func (s *EventBridgeService) handleEvent(ctx context.Context, event events.Event) error {
	rawID, _ := event.Payload()["project_id"].(string)
	if rawID == "" {
		// Events without a project target have no socket audience.
		return nil
	}

	projectID, err := uuid.Parse(rawID)
	if err != nil {
		s.logger.Warn("EventBridgeService", "Event carries an unparseable project_id", map[string]interface{}{
			"type":       event.EventType(),
			"project_id": rawID,
		})
		return nil
	}

	if s.delivery != nil {
		s.delivery.Send(projectID, event)
	}
	return nil
}
