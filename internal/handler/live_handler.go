package handler

import (
	"medichat-web/internal/constant"
	"medichat-web/internal/pkg/logger"
	"medichat-web/internal/pkg/serverutils"
	"medichat-web/internal/service"
	internalWS "medichat-web/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// LiveHandler upgrades /api/live to a websocket that streams UI state of
// the calling browser client.
type LiveHandler struct {
	hub    *internalWS.Hub
	chat   service.IChatService
	media  service.IMediaService
	logger logger.ILogger
}

func NewLiveHandler(hub *internalWS.Hub, chat service.IChatService, media service.IMediaService, log logger.ILogger) *LiveHandler {
	return &LiveHandler{
		hub:    hub,
		chat:   chat,
		media:  media,
		logger: log,
	}
}

func (h *LiveHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/live", h.ServeWs)
}

func (h *LiveHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	clientID := serverutils.ClientID(c)
	if clientID == "" {
		return fiber.ErrUnauthorized
	}

	var initial [][]byte
	if frame, err := internalWS.EncodeEvent(constant.LiveEventTranscriptUpdated, h.chat.Snapshot(clientID)); err == nil {
		initial = append(initial, frame)
	}
	if frame, err := internalWS.EncodeEvent(constant.LiveEventAnalysisUpdated, h.media.Snapshot(clientID)); err == nil {
		initial = append(initial, frame)
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("LiveHandler", "Starting WebSocket session", map[string]interface{}{"client_id": clientID})
		internalWS.ServeWs(h.hub, conn, clientID, initial...)
		h.logger.Info("LiveHandler", "WebSocket session ended", map[string]interface{}{"client_id": clientID})
	})(c)
}
