package service

import (
	"context"
	"path/filepath"
	"testing"

	"bolt-sync-be/internal/pkg/logger"
	"bolt-sync-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDelivery struct {
	projectIDs []uuid.UUID
	events     []events.Event
}

func (r *recordingDelivery) Send(projectID uuid.UUID, event events.Event) {
	r.projectIDs = append(r.projectIDs, projectID)
	r.events = append(r.events, event)
}

func newBridge(t *testing.T, delivery EventDelivery) *EventBridgeService {
	t.Helper()
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "bridge.log"))
	return NewEventBridgeService(nil, delivery, log)
}

func TestEventBridgeForwardsProjectEvents(t *testing.T) {
	delivery := &recordingDelivery{}
	bridge := newBridge(t, delivery)
	projectID := uuid.New()

	evt := events.New(events.FilesSynced, map[string]interface{}{
		"project_id": projectID.String(),
		"file_count": 3,
	})
	require.NoError(t, bridge.handleEvent(context.Background(), evt))

	require.Len(t, delivery.events, 1)
	assert.Equal(t, projectID, delivery.projectIDs[0])
	assert.Equal(t, events.FilesSynced, delivery.events[0].EventType())
}

func TestEventBridgeSkipsUntargetedEvents(t *testing.T) {
	delivery := &recordingDelivery{}
	bridge := newBridge(t, delivery)

	evt := events.New(events.ProjectDeployed, map[string]interface{}{"repo_name": "demo"})
	require.NoError(t, bridge.handleEvent(context.Background(), evt))

	assert.Empty(t, delivery.events)
}

func TestEventBridgeSkipsBadProjectID(t *testing.T) {
	delivery := &recordingDelivery{}
	bridge := newBridge(t, delivery)

	evt := events.New(events.FilesSynced, map[string]interface{}{"project_id": "not-a-uuid"})
	require.NoError(t, bridge.handleEvent(context.Background(), evt))

	assert.Empty(t, delivery.events)
}
