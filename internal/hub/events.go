package hub

import (
	"encoding/json"
	"time"

	"ankachat/pkg/chat"

	"github.com/rs/zerolog/log"
)

func marshalEvent(eventType string, data any) []byte {
	frame, err := json.Marshal(chat.Event{Type: eventType, Data: data})
	if err != nil {
		// Event payloads are built server-side from plain structs; this
		// only fires on a programming error.
		log.Error().Str("module", "hub").Str("type", eventType).Err(err).Msg("marshal event")
		return nil
	}
	return frame
}

func userJoinedEvent(channelID uint, user chat.UserInfo) []byte {
	return marshalEvent(chat.EventUserJoined, map[string]any{
		"channel_id": channelID,
		"user":       user,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

func userLeftEvent(channelID uint, user chat.UserInfo) []byte {
	return marshalEvent(chat.EventUserLeft, map[string]any{
		"channel_id": channelID,
		"user":       user,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

// chatMessageEvent carries exactly what persistence returned; clients rely
// on the server-assigned id and timestamp.
func chatMessageEvent(msg *chat.Message, author chat.UserInfo) []byte {
	return marshalEvent(chat.EventChatMessage, map[string]any{
		"id":         msg.ID,
		"content":    msg.Content,
		"user_id":    author.ID,
		"username":   author.Username,
		"channel_id": msg.ChannelID,
		"created_at": msg.CreatedAt.Format(time.RFC3339),
	})
}

func voiceUsersEvent(channelID uint, roster []chat.UserInfo) []byte {
	return marshalEvent(chat.EventVoiceUsersUpdate, map[string]any{
		"channel_id": channelID,
		"users":      roster,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

func errorEvent(message string) []byte {
	return marshalEvent(chat.EventError, map[string]any{
		"message": message,
	})
}
