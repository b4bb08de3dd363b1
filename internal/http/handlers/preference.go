package handlers

import (
	"github.com/gin-gonic/gin"

	domainpref "github.com/yungbote/mealplanner-backend/internal/domain/preference"
	"github.com/yungbote/mealplanner-backend/internal/http/response"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
	"github.com/yungbote/mealplanner-backend/internal/services"
)

type PreferenceHandler struct {
	log         *logger.Logger
	preferences services.PreferenceService
}

func NewPreferenceHandler(log *logger.Logger, preferences services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{log: log.With("handler", "PreferenceHandler"), preferences: preferences}
}

// GET /api/preferences
// Users without a record get empty lists.
func (h *PreferenceHandler) Get(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	prefs, err := h.preferences.Get(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if prefs == nil {
		response.RespondOK(c, gin.H{"preferences": gin.H{
			"likes":             []string{},
			"dislikes":          []string{},
			"caloriePreference": nil,
		}})
		return
	}
	response.RespondOK(c, gin.H{"preferences": prefs})
}

// PUT /api/preferences
// Omitted fields are left as they are.
func (h *PreferenceHandler) Update(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	var req struct {
		Likes             *[]string `json:"likes"`
		Dislikes          *[]string `json:"dislikes"`
		CaloriePreference *string   `json:"caloriePreference"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	patch := domainpref.Patch{Likes: req.Likes, Dislikes: req.Dislikes}
	if req.CaloriePreference != nil {
		class, err := services.ParseCalorieClass(*req.CaloriePreference)
		if err != nil {
			response.RespondAPIError(c, h.log, err)
			return
		}
		patch.Calorie = &class
	}
	prefs, err := h.preferences.Update(c.Request.Context(), userID, patch)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": prefs})
}

// DELETE /api/preferences/:kind/:item
func (h *PreferenceHandler) RemoveItem(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	kind, err := services.ParsePreferenceKind(c.Param("kind"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	removed, err := h.preferences.RemoveItem(c.Request.Context(), userID, kind, c.Param("item"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"removed": removed})
}
