package api

import (
	"net/http"
	"time"

	"ankachat/internal/auth"
	"ankachat/internal/channel"
	"ankachat/internal/hub"
	"ankachat/internal/server"
	"ankachat/pkg/chat"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Close codes sent on connection rejection. These are a stable contract
// with the frontend.
const (
	CloseKindMismatch = 4000
	CloseUnauthorized = 4001
	CloseForbidden    = 4003
	CloseNotFound     = 4004
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The token query parameter is the access control; origin checking is
	// left to the deployment proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub      *hub.Hub
	auth     *auth.Service
	channels *channel.Service
	servers  *server.Service
}

func NewWebSocketHandler(h *hub.Hub, a *auth.Service, ch *channel.Service, s *server.Service) *WebSocketHandler {
	return &WebSocketHandler{hub: h, auth: a, channels: ch, servers: s}
}

// ChatSocketHandler upgrades a chat connection for a text channel
// @Summary Chat websocket endpoint
// @Tags WebSocket
// @Param id path int true "Channel ID"
// @Param token query string true "Bearer token"
// @Success 101 {string} string "Switching Protocols"
// @Router /ws/chat/{id} [get]
func (h *WebSocketHandler) ChatSocketHandler(c *gin.Context) {
	h.serve(c, chat.ChannelText)
}

// VoiceSocketHandler upgrades a signaling connection for a voice channel
// @Summary Voice signaling websocket endpoint
// @Tags WebSocket
// @Param id path int true "Channel ID"
// @Param token query string true "Bearer token"
// @Success 101 {string} string "Switching Protocols"
// @Router /ws/voice/{id} [get]
func (h *WebSocketHandler) VoiceSocketHandler(c *gin.Context) {
	h.serve(c, chat.ChannelVoice)
}

// serve runs the connect-time checks in strict order: authenticate, find
// the channel, check server membership, check channel kind. Every rejection
// happens before any hub registration, so a refused session leaves no state
// behind.
func (h *WebSocketHandler) serve(c *gin.Context, kind chat.ChannelKind) {
	channelID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel id"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Str("module", "gateway").Err(err).Msg("upgrade failed")
		return
	}

	user, err := h.auth.ResolveToken(c.Query("token"))
	if err != nil {
		reject(ws, CloseUnauthorized, "invalid token")
		return
	}

	ch, err := h.channels.Get(channelID)
	if err != nil {
		reject(ws, CloseNotFound, "channel not found")
		return
	}

	member, err := h.servers.IsMember(ch.ServerID, user.ID)
	if err != nil || !member {
		reject(ws, CloseForbidden, "not a member of this server")
		return
	}

	if ch.Kind != kind {
		reject(ws, CloseKindMismatch, "wrong channel type")
		return
	}

	identity := chat.UserInfo{ID: user.ID, Username: user.Username}
	if kind == chat.ChannelVoice {
		h.hub.ServeVoice(ws, identity, ch.ID)
	} else {
		h.hub.ServeChat(ws, identity, ch.ID)
	}
}

func reject(ws *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(5 * time.Second)
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), deadline)
	_ = ws.Close()
}
