package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ankachat/internal/channel"
	"ankachat/internal/message"
	"ankachat/internal/server"
	"ankachat/pkg/chat"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MessageHandlers struct {
	messages *message.Service
	channels *channel.Service
	servers  *server.Service
}

func NewMessageHandlers(db *gorm.DB) *MessageHandlers {
	return &MessageHandlers{
		messages: message.NewService(db),
		channels: channel.NewService(db),
		servers:  server.NewService(db),
	}
}

type CreateMessageInput struct {
	Content   string `json:"content" binding:"required" example:"hello"`
	ChannelID uint   `json:"channel_id" binding:"required" example:"1"`
}

type MessageResponse struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	UserID    uint   `json:"user_id"`
	Username  string `json:"username,omitempty"`
	ChannelID uint   `json:"channel_id"`
	CreatedAt string `json:"created_at"`
}

func messageResponse(m *chat.Message, username string) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Content:   m.Content,
		UserID:    m.UserID,
		Username:  username,
		ChannelID: m.ChannelID,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

// CreateMessageHandler persists a message over REST (text channels only).
// The websocket relay is the usual path; this exists for bots and clients
// without a socket.
// @Summary Create a message
// @Tags Messages
// @Accept json
// @Produce json
// @Security Bearer
// @Success 201 {object} MessageResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Router /api/messages [post]
func (h *MessageHandlers) CreateMessageHandler(c *gin.Context) {
	var input CreateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ch, err := h.channels.Get(input.ChannelID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if !h.requireMember(c, ch.ServerID) {
		return
	}

	if ch.Kind != chat.ChannelText {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send messages to non-text channels"})
		return
	}

	msg, err := h.messages.Create(currentUserID(c), ch.ID, input.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, messageResponse(msg, currentUsername(c)))
}

// ListMessagesHandler returns channel history, newest first
// @Summary List channel messages
// @Tags Messages
// @Produce json
// @Security Bearer
// @Param id path int true "Channel ID"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} MessageResponse
// @Router /api/channels/{id}/messages [get]
func (h *MessageHandlers) ListMessagesHandler(c *gin.Context) {
	channelID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel id"})
		return
	}

	ch, err := h.channels.Get(channelID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if !h.requireMember(c, ch.ServerID) {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.messages.ListByChannel(channelID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list messages"})
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, messageResponse(&messages[i], messages[i].User.Username))
	}
	c.JSON(http.StatusOK, out)
}

// DeleteMessageHandler deletes a message (author or server owner)
// @Summary Delete a message
// @Tags Messages
// @Security Bearer
// @Param id path int true "Message ID"
// @Success 204 "Deleted"
// @Router /api/messages/{id} [delete]
func (h *MessageHandlers) DeleteMessageHandler(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message id"})
		return
	}

	msg, err := h.messages.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}

	isOwner := false
	if ch, err := h.channels.Get(msg.ChannelID); err == nil {
		if srv, err := h.servers.Get(ch.ServerID); err == nil {
			isOwner = srv.OwnerID == currentUserID(c)
		}
	}

	if err := h.messages.Delete(id, currentUserID(c), isOwner); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *MessageHandlers) requireMember(c *gin.Context, serverID uint) bool {
	member, err := h.servers.IsMember(serverID, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return false
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": server.ErrNotMember.Error()})
		return false
	}
	return true
}

func (h *MessageHandlers) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, channel.ErrNotFound), errors.Is(err, server.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
