package handler

import (
	"bolt-sync-be/internal/pkg/logger"
	internalWS "bolt-sync-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// SyncEventHandler exposes the websocket feed that pushes sync and deploy
// events to connected editors.
type SyncEventHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewSyncEventHandler(hub *internalWS.Hub, log logger.ILogger) *SyncEventHandler {
	return &SyncEventHandler{
		hub:    hub,
		logger: log,
	}
}

// ServeWs upgrades the connection and binds it to one project's feed.
func (h *SyncEventHandler) ServeWs(c *fiber.Ctx) error {
	projectIDStr := c.Query("project_id")
	if projectIDStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing project_id query param"})
	}

	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project_id format"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("SyncEventHandler", "Starting WebSocket session", map[string]interface{}{"project_id": projectID})
			internalWS.ServeWs(h.hub, conn, projectID)
			h.logger.Info("SyncEventHandler", "WebSocket session ended", map[string]interface{}{"project_id": projectID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the websocket endpoint.
func (h *SyncEventHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/sync/ws", h.ServeWs)
}
