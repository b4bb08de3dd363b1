package domain

import (
	"github.com/yungbote/mealplanner-backend/internal/domain/inventory"
	"github.com/yungbote/mealplanner-backend/internal/domain/meal"
	"github.com/yungbote/mealplanner-backend/internal/domain/preference"
	"github.com/yungbote/mealplanner-backend/internal/domain/user"
)

type (
	User = user.User

	Meal         = meal.Meal
	MealFeedback = meal.Feedback

	Preferences    = preference.Preferences
	CalorieClass   = preference.CalorieClass
	PreferenceKind = preference.Kind

	InventoryItem     = inventory.Item
	InventoryLocation = inventory.Location
)

const (
	CalorieLow    = preference.CalorieLow
	CalorieMedium = preference.CalorieMedium
	CalorieHigh   = preference.CalorieHigh

	PreferenceLike    = preference.KindLike
	PreferenceDislike = preference.KindDislike

	LocationPantry  = inventory.LocationPantry
	LocationFridge  = inventory.LocationFridge
	LocationFreezer = inventory.LocationFreezer
)
