package hub

import (
	"encoding/json"
	"strconv"

	"ankachat/pkg/chat"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ServeVoice runs the session loop for one voice-channel connection: roster
// presence plus relay of WebRTC negotiation frames. The payloads themselves
// are opaque to the hub; it only stamps the sender and routes.
func (h *Hub) ServeVoice(ws *websocket.Conn, user chat.UserInfo, channelID uint) {
	c := newConn(ws, user, channelID)
	go c.writePump()

	log.Info().Str("module", "hub").Str("sid", c.sid).
		Uint("user", user.ID).Uint("channel", channelID).Msg("voice session joined")

	h.registry.Join(channelID, c)
	roster := h.registry.VoiceJoin(channelID, user)
	h.registry.Broadcast(channelID, voiceUsersEvent(channelID, roster), nil)

	defer func() {
		h.registry.Leave(channelID, c)
		c.Close()
		roster := h.registry.VoiceLeave(channelID, user)
		h.registry.Broadcast(channelID, voiceUsersEvent(channelID, roster), nil)
		log.Info().Str("module", "hub").Str("sid", c.sid).
			Uint("user", user.ID).Uint("channel", channelID).Msg("voice session left")
	}()

	ws.SetReadLimit(maxMessageSize)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		h.handleSignalFrame(c, data)
	}
}

// handleSignalFrame relays an offer/answer/ice-candidate frame. The frame is
// forwarded in its original shape with "from" overwritten by the sender's
// identity, so clients can never claim to be someone else. A frame with a
// target goes to that user's connection alone; without one it goes to every
// other connection in the channel.
func (h *Hub) handleSignalFrame(c *Conn, data []byte) {
	var frame map[string]any
	if err := json.Unmarshal(data, &frame); err != nil {
		c.deliver(errorEvent("Invalid JSON format"))
		return
	}

	kind, _ := frame["type"].(string)
	switch kind {
	case chat.SignalOffer, chat.SignalAnswer, chat.SignalCandidate:
	default:
		return
	}

	frame["from"] = c.user

	out, err := json.Marshal(frame)
	if err != nil {
		log.Error().Str("module", "hub").Str("sid", c.sid).Err(err).Msg("marshal signal")
		return
	}

	// Any present target makes the frame targeted; a frame meant for one
	// peer must never fan out channel-wide, even when the target id is
	// unusable.
	if v, ok := frame["target"]; ok && v != nil {
		targetID, ok := targetUserID(v)
		if !ok {
			return
		}
		// Target gone already? Expected race on disconnect; drop silently.
		if dst := h.registry.FindUser(c.channelID, targetID); dst != nil {
			h.registry.SendTo(dst, out)
		}
		return
	}

	h.registry.Broadcast(c.channelID, out, c)
}

// targetUserID parses the "target" field. JSON numbers arrive as float64;
// some clients send the id as a decimal string.
func targetUserID(v any) (uint, bool) {
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return uint(n), true
		}
	case string:
		if id, err := strconv.ParseUint(n, 10, 32); err == nil && id > 0 {
			return uint(id), true
		}
	}
	return 0, false
}
