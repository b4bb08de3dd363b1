package meal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultHistoryKeep is how many meals a user keeps before cleanup trims
// the oldest.
const DefaultHistoryKeep = 100

type Meal struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID                   `gorm:"type:uuid;not null;index:idx_meals_user_date,priority:1;index:idx_meals_user_created,priority:1" json:"userId"`
	MealName          string                      `gorm:"column:meal_name;not null" json:"mealName"`
	Ingredients       datatypes.JSONSlice[string] `gorm:"column:ingredients;not null" json:"ingredients"`
	Date              time.Time                   `gorm:"column:date;not null;index:idx_meals_user_date,priority:2,sort:desc" json:"date"`
	Rating            *int                        `gorm:"column:rating" json:"rating,omitempty"`
	Liked             *bool                       `gorm:"column:liked" json:"liked,omitempty"`
	Notes             *string                     `gorm:"column:notes" json:"notes,omitempty"`
	EstimatedCalories *int                        `gorm:"column:estimated_calories" json:"estimatedCalories,omitempty"`
	AISuggestion      bool                        `gorm:"column:ai_suggestion;not null;default:false" json:"aiSuggestion"`
	CreatedAt         time.Time                   `gorm:"not null;autoCreateTime;index:idx_meals_user_created,priority:2,sort:desc" json:"createdAt"`
}

func (Meal) TableName() string { return "meals" }

// Feedback is a partial update of the user's verdict on a meal.
type Feedback struct {
	Rating *int
	Liked  *bool
	Notes  *string
}

func (f Feedback) Empty() bool {
	return f.Rating == nil && f.Liked == nil && f.Notes == nil
}
