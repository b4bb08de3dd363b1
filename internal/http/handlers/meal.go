package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/mealplanner-backend/internal/domain"
	"github.com/yungbote/mealplanner-backend/internal/http/response"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
	"github.com/yungbote/mealplanner-backend/internal/services"
)

type MealHandler struct {
	log         *logger.Logger
	meals       services.MealService
	suggestions services.SuggestionService
}

func NewMealHandler(log *logger.Logger, meals services.MealService, suggestions services.SuggestionService) *MealHandler {
	return &MealHandler{log: log.With("handler", "MealHandler"), meals: meals, suggestions: suggestions}
}

// POST /api/meals/suggest
// ?format=text returns the model's free-text answer and skips preference learning.
func (h *MealHandler) Suggest(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	var req services.SuggestionRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if strings.EqualFold(strings.TrimSpace(c.Query("format")), "text") {
		text, err := h.suggestions.SuggestText(c.Request.Context(), userID, req)
		if err != nil {
			response.RespondAPIError(c, h.log, err)
			return
		}
		response.RespondOK(c, gin.H{"suggestions": text})
		return
	}
	res, err := h.suggestions.Suggest(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"suggestions":        res.Suggestions,
		"learnedPreferences": res.LearnedPreferences,
	})
}

// GET /api/meals?limit=
func (h *MealHandler) List(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	meals, err := h.meals.List(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"meals": meals})
}

type createMealRequest struct {
	MealName          string   `json:"mealName"`
	Ingredients       []string `json:"ingredients"`
	Date              string   `json:"date"`
	Rating            *int     `json:"rating"`
	Liked             *bool    `json:"liked"`
	Notes             *string  `json:"notes"`
	EstimatedCalories *int     `json:"estimatedCalories"`
	AISuggestion      bool     `json:"aiSuggestion"`
}

// POST /api/meals
func (h *MealHandler) Create(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	var req createMealRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	meal, err := h.meals.Create(c.Request.Context(), userID, services.CreateMealInput{
		MealName:          req.MealName,
		Ingredients:       req.Ingredients,
		Date:              date,
		Rating:            req.Rating,
		Liked:             req.Liked,
		Notes:             req.Notes,
		EstimatedCalories: req.EstimatedCalories,
		AISuggestion:      req.AISuggestion,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"meal": meal})
}

// PATCH /api/meals/:id/rating
func (h *MealHandler) UpdateRating(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	mealID, err := pathUUID(c, "id")
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	var req struct {
		Rating *int    `json:"rating"`
		Liked  *bool   `json:"liked"`
		Notes  *string `json:"notes"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	meal, err := h.meals.UpdateRating(c.Request.Context(), userID, mealID, types.MealFeedback{
		Rating: req.Rating,
		Liked:  req.Liked,
		Notes:  req.Notes,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"meal": meal})
}

// DELETE /api/meals/:id
func (h *MealHandler) Delete(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	mealID, err := pathUUID(c, "id")
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if err := h.meals.Delete(c.Request.Context(), userID, mealID); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, nil)
}

// POST /api/meals/cleanup?keep=
func (h *MealHandler) Cleanup(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	keep, err := queryInt(c, "keep", 0)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	deleted, err := h.meals.Cleanup(c.Request.Context(), userID, keep)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": deleted})
}
