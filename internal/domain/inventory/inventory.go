package inventory

import (
	"time"

	"github.com/google/uuid"
)

type Location string

const (
	LocationPantry  Location = "pantry"
	LocationFridge  Location = "fridge"
	LocationFreezer Location = "freezer"
)

func (l Location) Valid() bool {
	switch l {
	case LocationPantry, LocationFridge, LocationFreezer:
		return true
	default:
		return false
	}
}

// DefaultExpiringDays is the look-ahead used for "expiring soon".
const DefaultExpiringDays = 3

type Item struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	IngredientName string     `gorm:"column:ingredient_name;not null" json:"ingredientName"`
	Quantity       float64    `gorm:"column:quantity;not null;default:1" json:"quantity"`
	Location       Location   `gorm:"column:location;not null" json:"location"`
	AddedAt        time.Time  `gorm:"column:added_at;not null;autoCreateTime" json:"addedAt"`
	ExpiresAt      *time.Time `gorm:"column:expires_at;index" json:"expiresAt,omitempty"`
}

func (Item) TableName() string { return "user_inventory" }
