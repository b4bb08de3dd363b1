package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/mealplanner-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.User{},
		&types.Preferences{},
		&types.Meal{},
		&types.InventoryItem{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
