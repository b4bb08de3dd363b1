package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealplanner-backend/internal/http/response"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
	"github.com/yungbote/mealplanner-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	res, err := ah.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"token": res.Token, "user": res.User})
}

// POST /api/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"token": res.Token, "user": res.User})
}
