package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mealplanner-backend/internal/data/repos"
	types "github.com/yungbote/mealplanner-backend/internal/domain"
	domaininv "github.com/yungbote/mealplanner-backend/internal/domain/inventory"
	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
	"github.com/yungbote/mealplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

type AddInventoryInput struct {
	IngredientName string
	Quantity       float64
	Location       types.InventoryLocation
	ExpiresAt      *time.Time
}

type InventoryService interface {
	Add(ctx context.Context, userID uuid.UUID, in AddInventoryInput) (*types.InventoryItem, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.InventoryItem, error)
	ExpiringSoon(ctx context.Context, userID uuid.UUID, days int) ([]*types.InventoryItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity float64) (*types.InventoryItem, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
}

type inventoryService struct {
	log  *logger.Logger
	repo repos.InventoryRepo
	now  func() time.Time
}

func NewInventoryService(log *logger.Logger, repo repos.InventoryRepo) InventoryService {
	return &inventoryService{
		log:  log.With("service", "InventoryService"),
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *inventoryService) Add(ctx context.Context, userID uuid.UUID, in AddInventoryInput) (*types.InventoryItem, error) {
	name := strings.TrimSpace(in.IngredientName)
	if name == "" {
		return nil, apierr.Validation("ingredientName is required")
	}
	loc := types.InventoryLocation(strings.ToLower(strings.TrimSpace(string(in.Location))))
	if !loc.Valid() {
		return nil, apierr.Validation("location must be one of pantry, fridge, freezer")
	}
	qty := in.Quantity
	if qty < 0 {
		return nil, apierr.Validation("quantity must not be negative")
	}
	if qty == 0 {
		qty = 1
	}
	item := &types.InventoryItem{
		ID:             uuid.New(),
		UserID:         userID,
		IngredientName: name,
		Quantity:       qty,
		Location:       loc,
		AddedAt:        s.now(),
		ExpiresAt:      in.ExpiresAt,
	}
	if err := s.repo.Add(dbctx.Context{Ctx: ctx}, item); err != nil {
		return nil, fmt.Errorf("add inventory item: %w", err)
	}
	return item, nil
}

func (s *inventoryService) List(ctx context.Context, userID uuid.UUID) ([]*types.InventoryItem, error) {
	return s.repo.List(dbctx.Context{Ctx: ctx}, userID)
}

// ExpiringSoon lists items expiring between now and now+days. days <= 0 uses
// the default look-ahead.
func (s *inventoryService) ExpiringSoon(ctx context.Context, userID uuid.UUID, days int) ([]*types.InventoryItem, error) {
	if days <= 0 {
		days = domaininv.DefaultExpiringDays
	}
	now := s.now()
	return s.repo.ExpiringBetween(dbctx.Context{Ctx: ctx}, userID, now, now.AddDate(0, 0, days))
}

func (s *inventoryService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity float64) (*types.InventoryItem, error) {
	if quantity < 0 {
		return nil, apierr.Validation("quantity must not be negative")
	}
	item, err := s.repo.UpdateQuantity(dbctx.Context{Ctx: ctx}, userID, itemID, quantity)
	if err != nil {
		return nil, fmt.Errorf("update inventory item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: inventory item", apierr.ErrNotFound)
	}
	return item, nil
}

func (s *inventoryService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	ok, err := s.repo.Remove(dbctx.Context{Ctx: ctx}, userID, itemID)
	if err != nil {
		return fmt.Errorf("remove inventory item: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: inventory item", apierr.ErrNotFound)
	}
	return nil
}
