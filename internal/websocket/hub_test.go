package websocket

import (
	"path/filepath"
	"testing"
	"time"

	"bolt-sync-be/internal/pkg/logger"
	"bolt-sync-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()

	wsLogger := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "ws.log"))
	h := NewHub(nil, wsLogger)
	go h.Run()
	return h
}

func (h *Hub) clientCount(projectID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[projectID])
}

func TestSendDeliversToProjectClients(t *testing.T) {
	h := newTestHub(t)
	projectID := uuid.New()

	client := &Client{Hub: h, ProjectID: projectID, Send: make(chan []byte, 4)}
	h.register <- client

	require.Eventually(t, func() bool {
		return h.clientCount(projectID) == 1
	}, time.Second, 10*time.Millisecond)

	h.Send(projectID, events.New(events.FilesSynced, map[string]interface{}{"file_count": 2}))

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), events.FilesSynced)
	case <-time.After(time.Second):
		t.Fatal("expected a message on the client channel")
	}
}

func TestSlowClientEvictedWithoutPanic(t *testing.T) {
	h := newTestHub(t)
	projectID := uuid.New()

	slow := &Client{Hub: h, ProjectID: projectID, Send: make(chan []byte, 1)}
	h.register <- slow

	require.Eventually(t, func() bool {
		return h.clientCount(projectID) == 1
	}, time.Second, 10*time.Millisecond)

	// First event fills the 1-slot buffer; the second finds it full and
	// must evict through the unregister path instead of panicking.
	evt := events.New(events.FilesSynced, map[string]interface{}{"file_count": 1})
	h.Send(projectID, evt)
	h.Send(projectID, evt)

	require.Eventually(t, func() bool {
		return h.clientCount(projectID) == 0
	}, time.Second, 10*time.Millisecond)

	// The unregister handler closed Send exactly once; the buffered
	// message is still readable and the channel reports closed after it.
	<-slow.Send
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestTwoSlowClientsInOneSweep(t *testing.T) {
	h := newTestHub(t)
	projectID := uuid.New()

	a := &Client{Hub: h, ProjectID: projectID, Send: make(chan []byte, 1)}
	b := &Client{Hub: h, ProjectID: projectID, Send: make(chan []byte, 1)}
	h.register <- a
	h.register <- b

	require.Eventually(t, func() bool {
		return h.clientCount(projectID) == 2
	}, time.Second, 10*time.Millisecond)

	evt := events.New(events.FilesSynced, map[string]interface{}{"file_count": 1})
	h.Send(projectID, evt)

	done := make(chan struct{})
	go func() {
		// Both buffers are full now; evicting two clients in one sweep
		// must not deadlock against the hub loop.
		h.Send(projectID, evt)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub deadlocked evicting slow clients")
	}

	require.Eventually(t, func() bool {
		return h.clientCount(projectID) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestBroadcastReachesAllProjects(t *testing.T) {
	h := newTestHub(t)

	a := &Client{Hub: h, ProjectID: uuid.New(), Send: make(chan []byte, 4)}
	b := &Client{Hub: h, ProjectID: uuid.New(), Send: make(chan []byte, 4)}
	h.register <- a
	h.register <- b

	require.Eventually(t, func() bool {
		return h.clientCount(a.ProjectID) == 1 && h.clientCount(b.ProjectID) == 1
	}, time.Second, 10*time.Millisecond)

	h.Broadcast(events.New(events.ProjectDeployed, map[string]interface{}{"repo_name": "demo"}))

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			assert.Contains(t, string(msg), events.ProjectDeployed)
		case <-time.After(time.Second):
			t.Fatal("expected a broadcast message on every client")
		}
	}
}
