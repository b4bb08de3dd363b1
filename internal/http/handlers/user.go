package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealplanner-backend/internal/http/response"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
	"github.com/yungbote/mealplanner-backend/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewUserHandler(log *logger.Logger, authService services.AuthService) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), authService: authService}
}

// GET /api/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	me, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"user": me})
}
