package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/mealplanner-backend/internal/data/repos/inventory"
	"github.com/yungbote/mealplanner-backend/internal/data/repos/meal"
	"github.com/yungbote/mealplanner-backend/internal/data/repos/preference"
	"github.com/yungbote/mealplanner-backend/internal/data/repos/user"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type PreferenceRepo = preference.PreferenceRepo
type MealRepo = meal.MealRepo
type InventoryRepo = inventory.InventoryRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) PreferenceRepo {
	return preference.NewPreferenceRepo(db, baseLog)
}
func NewMealRepo(db *gorm.DB, baseLog *logger.Logger) MealRepo { return meal.NewMealRepo(db, baseLog) }
func NewInventoryRepo(db *gorm.DB, baseLog *logger.Logger) InventoryRepo {
	return inventory.NewInventoryRepo(db, baseLog)
}
