package api

import (
	"errors"
	"net/http"

	"ankachat/internal/server"
	"ankachat/pkg/chat"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ServerHandlers struct {
	service *server.Service
}

func NewServerHandlers(db *gorm.DB) *ServerHandlers {
	return &ServerHandlers{service: server.NewService(db)}
}

type CreateServerInput struct {
	Name        string `json:"name" binding:"required" example:"My Server"`
	Description string `json:"description" example:"A place to hang out"`
}

type UpdateServerInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ServerResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     uint   `json:"owner_id"`
}

func serverResponse(s *chat.Server) ServerResponse {
	return ServerResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		OwnerID:     s.OwnerID,
	}
}

// CreateServerHandler creates a server owned by the caller
// @Summary Create a server
// @Tags Servers
// @Accept json
// @Produce json
// @Security Bearer
// @Success 201 {object} ServerResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /api/servers [post]
func (h *ServerHandlers) CreateServerHandler(c *gin.Context) {
	var input CreateServerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	srv, err := h.service.Create(currentUserID(c), input.Name, input.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, serverResponse(srv))
}

// ListServersHandler lists the caller's servers
// @Summary List my servers
// @Tags Servers
// @Produce json
// @Security Bearer
// @Success 200 {array} ServerResponse
// @Router /api/servers [get]
func (h *ServerHandlers) ListServersHandler(c *gin.Context) {
	servers, err := h.service.ListForUser(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list servers"})
		return
	}

	out := make([]ServerResponse, 0, len(servers))
	for i := range servers {
		out = append(out, serverResponse(&servers[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetServerHandler returns one server with its member list
// @Summary Get a server
// @Tags Servers
// @Produce json
// @Security Bearer
// @Param id path int true "Server ID"
// @Success 200 {object} ServerResponse
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /api/servers/{id} [get]
func (h *ServerHandlers) GetServerHandler(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid server id"})
		return
	}

	srv, err := h.service.Get(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	member, err := h.service.IsMember(id, currentUserID(c))
	if err != nil || !member {
		c.JSON(http.StatusForbidden, gin.H{"error": server.ErrNotMember.Error()})
		return
	}

	members, err := h.service.Members(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load members"})
		return
	}

	memberList := make([]UserResponse, 0, len(members))
	for _, m := range members {
		memberList = append(memberList, UserResponse{ID: m.ID, Username: m.Username})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          srv.ID,
		"name":        srv.Name,
		"description": srv.Description,
		"owner_id":    srv.OwnerID,
		"members":     memberList,
	})
}

// UpdateServerHandler updates a server's name/description
// @Summary Update a server
// @Tags Servers
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Server ID"
// @Success 200 {object} ServerResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Router /api/servers/{id} [put]
func (h *ServerHandlers) UpdateServerHandler(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid server id"})
		return
	}

	var input UpdateServerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	srv, err := h.service.Update(id, currentUserID(c), input.Name, input.Description)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, serverResponse(srv))
}

// DeleteServerHandler deletes a server (owner only)
// @Summary Delete a server
// @Tags Servers
// @Security Bearer
// @Param id path int true "Server ID"
// @Success 204 "Deleted"
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Router /api/servers/{id} [delete]
func (h *ServerHandlers) DeleteServerHandler(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid server id"})
		return
	}

	if err := h.service.Delete(id, currentUserID(c)); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// JoinServerHandler adds the caller to a server
// @Summary Join a server
// @Tags Servers
// @Security Bearer
// @Param id path int true "Server ID"
// @Success 204 "Joined"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /api/servers/{id}/members [post]
func (h *ServerHandlers) JoinServerHandler(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid server id"})
		return
	}

	if err := h.service.AddMember(id, currentUserID(c)); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// LeaveServerHandler removes the caller from a server
// @Summary Leave a server
// @Tags Servers
// @Security Bearer
// @Param id path int true "Server ID"
// @Success 204 "Left"
// @Router /api/servers/{id}/members [delete]
func (h *ServerHandlers) LeaveServerHandler(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid server id"})
		return
	}

	if err := h.service.RemoveMember(id, currentUserID(c)); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ServerHandlers) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, server.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, server.ErrNotOwner), errors.Is(err, server.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
