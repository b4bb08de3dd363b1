package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/mealplanner-backend/internal/domain"
	"github.com/yungbote/mealplanner-backend/internal/http/response"
	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
	"github.com/yungbote/mealplanner-backend/internal/services"
)

var errQuantityRequired = apierr.Validation("quantity is required")

type InventoryHandler struct {
	log       *logger.Logger
	inventory services.InventoryService
}

func NewInventoryHandler(log *logger.Logger, inventory services.InventoryService) *InventoryHandler {
	return &InventoryHandler{log: log.With("handler", "InventoryHandler"), inventory: inventory}
}

// GET /api/inventory
func (h *InventoryHandler) List(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	items, err := h.inventory.List(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"items": items})
}

// GET /api/inventory/expiring?days=
func (h *InventoryHandler) Expiring(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	days, err := queryInt(c, "days", 0)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	items, err := h.inventory.ExpiringSoon(c.Request.Context(), userID, days)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"items": items})
}

// POST /api/inventory
func (h *InventoryHandler) Add(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	var req struct {
		IngredientName string  `json:"ingredientName"`
		Quantity       float64 `json:"quantity"`
		Location       string  `json:"location"`
		ExpiresAt      string  `json:"expiresAt"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	in := services.AddInventoryInput{
		IngredientName: req.IngredientName,
		Quantity:       req.Quantity,
		Location:       types.InventoryLocation(req.Location),
	}
	if req.ExpiresAt != "" {
		at, err := parseDate(req.ExpiresAt)
		if err != nil {
			response.RespondAPIError(c, h.log, err)
			return
		}
		in.ExpiresAt = &at
	}
	item, err := h.inventory.Add(c.Request.Context(), userID, in)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"item": item})
}

// PATCH /api/inventory/:id
func (h *InventoryHandler) UpdateQuantity(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	itemID, err := pathUUID(c, "id")
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	var req struct {
		Quantity *float64 `json:"quantity"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if req.Quantity == nil {
		response.RespondAPIError(c, h.log, errQuantityRequired)
		return
	}
	item, err := h.inventory.UpdateQuantity(c.Request.Context(), userID, itemID, *req.Quantity)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"item": item})
}

// DELETE /api/inventory/:id
func (h *InventoryHandler) Remove(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	itemID, err := pathUUID(c, "id")
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if err := h.inventory.Remove(c.Request.Context(), userID, itemID); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, nil)
}
