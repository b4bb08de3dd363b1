package inventory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mealplanner-backend/internal/domain"
	"github.com/yungbote/mealplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

type InventoryRepo interface {
	Add(dbc dbctx.Context, item *types.InventoryItem) error
	List(dbc dbctx.Context, userID uuid.UUID) ([]*types.InventoryItem, error)
	ExpiringBetween(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.InventoryItem, error)
	UpdateQuantity(dbc dbctx.Context, userID, itemID uuid.UUID, quantity float64) (*types.InventoryItem, error)
	Remove(dbc dbctx.Context, userID, itemID uuid.UUID) (bool, error)
}

type inventoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInventoryRepo(db *gorm.DB, baseLog *logger.Logger) InventoryRepo {
	return &inventoryRepo{db: db, log: baseLog.With("repo", "InventoryRepo")}
}

func (r *inventoryRepo) Add(dbc dbctx.Context, item *types.InventoryItem) error {
	if item == nil {
		return nil
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.ExpiresAt != nil {
		t := item.ExpiresAt.UTC()
		item.ExpiresAt = &t
	}
	return dbc.Conn(r.db).Create(item).Error
}

func (r *inventoryRepo) List(dbc dbctx.Context, userID uuid.UUID) ([]*types.InventoryItem, error) {
	var out []*types.InventoryItem
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order("location ASC, ingredient_name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ExpiringBetween returns items whose expiry falls in [from, to], soonest
// first. Items without an expiry never match.
func (r *inventoryRepo) ExpiringBetween(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.InventoryItem, error) {
	var out []*types.InventoryItem
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND expires_at IS NOT NULL AND expires_at >= ? AND expires_at <= ?", userID, from.UTC(), to.UTC()).
		Order("expires_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *inventoryRepo) UpdateQuantity(dbc dbctx.Context, userID, itemID uuid.UUID, quantity float64) (*types.InventoryItem, error) {
	res := dbc.Conn(r.db).
		Model(&types.InventoryItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	var row types.InventoryItem
	if err := dbc.Conn(r.db).Where("id = ?", itemID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *inventoryRepo) Remove(dbc dbctx.Context, userID, itemID uuid.UUID) (bool, error) {
	res := dbc.Conn(r.db).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&types.InventoryItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
