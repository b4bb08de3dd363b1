package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mealplanner-backend/internal/data/repos"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

type Repos struct {
	User       repos.UserRepo
	Preference repos.PreferenceRepo
	Meal       repos.MealRepo
	Inventory  repos.InventoryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		Preference: repos.NewPreferenceRepo(db, log),
		Meal:       repos.NewMealRepo(db, log),
		Inventory:  repos.NewInventoryRepo(db, log),
	}
}
