package hub

import (
	"encoding/json"
	"strings"

	"ankachat/pkg/chat"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ServeChat runs the session loop for one text-channel connection. The
// caller has already authenticated the user and verified channel kind and
// membership; from here on the connection is Joined until the socket breaks.
// Deregistration and the leave announcement run on every exit path.
func (h *Hub) ServeChat(ws *websocket.Conn, user chat.UserInfo, channelID uint) {
	c := newConn(ws, user, channelID)
	go c.writePump()

	log.Info().Str("module", "hub").Str("sid", c.sid).
		Uint("user", user.ID).Uint("channel", channelID).Msg("chat session joined")

	h.registry.Join(channelID, c)
	h.registry.Broadcast(channelID, userJoinedEvent(channelID, user), nil)

	defer func() {
		h.registry.Leave(channelID, c)
		c.Close()
		h.registry.Broadcast(channelID, userLeftEvent(channelID, user), nil)
		h.prunePublishLock(channelID)
		log.Info().Str("module", "hub").Str("sid", c.sid).
			Uint("user", user.ID).Uint("channel", channelID).Msg("chat session left")
	}()

	ws.SetReadLimit(maxMessageSize)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		h.handleChatFrame(c, data)
	}
}

func (h *Hub) handleChatFrame(c *Conn, data []byte) {
	var env chat.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.deliver(errorEvent("Invalid JSON format"))
		return
	}

	switch env.Type {
	case chat.TypeChatMessage:
		var payload chat.ChatMessagePayload
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				c.deliver(errorEvent("Invalid message payload"))
				return
			}
		}
		h.publishChatMessage(c, strings.TrimSpace(payload.Content))
	default:
		// Unknown types are ignored for forward compatibility.
	}
}

// publishChatMessage persists the message and fans the canonical record out
// to the whole channel, sender included (the echo carries the authoritative
// id and timestamp). Empty content is dropped silently. The per-channel
// publish lock keeps fan-out in commit order.
func (h *Hub) publishChatMessage(c *Conn, content string) {
	if content == "" {
		return
	}

	mu := h.publishLock(c.channelID)
	mu.Lock()
	defer mu.Unlock()

	msg, err := h.store.Create(c.user.ID, c.channelID, content)
	if err != nil {
		log.Error().Str("module", "hub").Str("sid", c.sid).Err(err).Msg("persist message")
		c.deliver(errorEvent("Failed to save message"))
		return
	}

	h.registry.Broadcast(c.channelID, chatMessageEvent(msg, c.user), nil)
}
