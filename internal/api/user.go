package api

import (
	"net/http"

	"ankachat/internal/user"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandlers struct {
	service *user.Service
}

func NewUserHandlers(db *gorm.DB) *UserHandlers {
	return &UserHandlers{service: user.NewService(db)}
}

// MeHandler returns the authenticated user's profile
// @Summary Get current user
// @Tags Users
// @Produce json
// @Security Bearer
// @Success 200 {object} UserResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/users/me [get]
func (h *UserHandlers) MeHandler(c *gin.Context) {
	u, err := h.service.Get(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, UserResponse{ID: u.ID, Username: u.Username})
}
