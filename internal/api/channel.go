package api

import (
	"errors"
	"net/http"

	"ankachat/internal/channel"
	"ankachat/internal/server"
	"ankachat/pkg/chat"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ChannelHandlers struct {
	channels *channel.Service
	servers  *server.Service
}

func NewChannelHandlers(db *gorm.DB) *ChannelHandlers {
	return &ChannelHandlers{
		channels: channel.NewService(db),
		servers:  server.NewService(db),
	}
}

type CreateChannelInput struct {
	Name     string `json:"name" binding:"required" example:"general"`
	Kind     string `json:"type" binding:"required" example:"text"`
	ServerID uint   `json:"server_id" binding:"required" example:"1"`
}

type UpdateChannelInput struct {
	Name string `json:"name"`
}

type ChannelResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"type"`
	ServerID uint   `json:"server_id"`
}

func channelResponse(ch *chat.Channel) ChannelResponse {
	return ChannelResponse{
		ID:       ch.ID,
		Name:     ch.Name,
		Kind:     string(ch.Kind),
		ServerID: ch.ServerID,
	}
}

// CreateChannelHandler creates a channel in a server (owner only)
// @Summary Create a channel
// @Tags Channels
// @Accept json
// @Produce json
// @Security Bearer
// @Success 201 {object} ChannelResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Router /api/channels [post]
func (h *ChannelHandlers) CreateChannelHandler(c *gin.Context) {
	var input CreateChannelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	srv, err := h.servers.Get(input.ServerID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if srv.OwnerID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the server owner can create channels"})
		return
	}

	ch, err := h.channels.Create(srv.ID, input.Name, chat.ChannelKind(input.Kind))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, channelResponse(ch))
}

// ListChannelsHandler lists channels in a server (members only)
// @Summary List channels of a server
// @Tags Channels
// @Produce json
// @Security Bearer
// @Param id path int true "Server ID"
// @Success 200 {array} ChannelResponse
// @Router /api/servers/{id}/channels [get]
func (h *ChannelHandlers) ListChannelsHandler(c *gin.Context) {
	serverID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid server id"})
		return
	}

	if !h.requireMember(c, serverID) {
		return
	}

	channels, err := h.channels.ListByServer(serverID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list channels"})
		return
	}

	out := make([]ChannelResponse, 0, len(channels))
	for i := range channels {
		out = append(out, channelResponse(&channels[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetChannelHandler returns a single channel (members only)
// @Summary Get a channel
// @Tags Channels
// @Produce json
// @Security Bearer
// @Param id path int true "Channel ID"
// @Success 200 {object} ChannelResponse
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /api/channels/{id} [get]
func (h *ChannelHandlers) GetChannelHandler(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel id"})
		return
	}

	ch, err := h.channels.Get(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if !h.requireMember(c, ch.ServerID) {
		return
	}

	c.JSON(http.StatusOK, channelResponse(ch))
}

// UpdateChannelHandler renames a channel (server owner only)
// @Summary Rename a channel
// @Tags Channels
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Channel ID"
// @Success 200 {object} ChannelResponse
// @Router /api/channels/{id} [put]
func (h *ChannelHandlers) UpdateChannelHandler(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel id"})
		return
	}

	var input UpdateChannelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ch, err := h.channels.Get(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if !h.requireOwner(c, ch.ServerID) {
		return
	}

	ch, err = h.channels.Rename(id, input.Name)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, channelResponse(ch))
}

// DeleteChannelHandler removes a channel (server owner only)
// @Summary Delete a channel
// @Tags Channels
// @Security Bearer
// @Param id path int true "Channel ID"
// @Success 204 "Deleted"
// @Router /api/channels/{id} [delete]
func (h *ChannelHandlers) DeleteChannelHandler(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel id"})
		return
	}

	ch, err := h.channels.Get(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if !h.requireOwner(c, ch.ServerID) {
		return
	}

	if err := h.channels.Delete(id); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ChannelHandlers) requireMember(c *gin.Context, serverID uint) bool {
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

func (h *ChannelHandlers) requireOwner(c *gin.Context, serverID uint) bool {
	srv, err := h.servers.Get(serverID)
	if err != nil {
		h.renderError(c, err)
		return false
	}
	if srv.OwnerID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the server owner can do this"})
		return false
	}
	return true
}

func (h *ChannelHandlers) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, channel.ErrNotFound), errors.Is(err, server.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
