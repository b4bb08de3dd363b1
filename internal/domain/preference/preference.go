package preference

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MaxItems bounds each of the likes and dislikes lists.
const MaxItems = 100

type CalorieClass string

const (
	CalorieLow    CalorieClass = "low"    // < 400 kcal
	CalorieMedium CalorieClass = "medium" // 400-700 kcal
	CalorieHigh   CalorieClass = "high"   // > 700 kcal
)

func (c CalorieClass) Valid() bool {
	switch c {
	case CalorieLow, CalorieMedium, CalorieHigh:
		return true
	default:
		return false
	}
}

type Kind string

const (
	KindLike    Kind = "like"
	KindDislike Kind = "dislike"
)

func (k Kind) Valid() bool { return k == KindLike || k == KindDislike }

// Column is the table column backing the list for this kind.
func (k Kind) Column() string {
	if k == KindDislike {
		return "dislikes"
	}
	return "likes"
}

// Preferences is the per-user ledger of liked and disliked item names. List
// order is insertion order; the oldest entries are trimmed first.
type Preferences struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"-"`
	UserID            uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Likes             datatypes.JSONSlice[string] `gorm:"column:likes;not null" json:"likes"`
	Dislikes          datatypes.JSONSlice[string] `gorm:"column:dislikes;not null" json:"dislikes"`
	CaloriePreference *CalorieClass               `gorm:"column:calorie_preference" json:"caloriePreference,omitempty"`
	UpdatedAt         time.Time                   `gorm:"not null;index" json:"updatedAt"`
}

func (Preferences) TableName() string { return "user_preferences" }

// List returns the list for kind.
func (p *Preferences) List(kind Kind) []string {
	if kind == KindDislike {
		return p.Dislikes
	}
	return p.Likes
}

func (p *Preferences) SetList(kind Kind, items []string) {
	if kind == KindDislike {
		p.Dislikes = datatypes.JSONSlice[string](items)
		return
	}
	p.Likes = datatypes.JSONSlice[string](items)
}

// Calorie returns the stored class or "" when unset.
func (p *Preferences) Calorie() CalorieClass {
	if p == nil || p.CaloriePreference == nil {
		return ""
	}
	return *p.CaloriePreference
}

// Patch is an explicit update from the user. Nil fields are left untouched.
type Patch struct {
	Likes    *[]string
	Dislikes *[]string
	Calorie  *CalorieClass
}

func (p Patch) Empty() bool {
	return p.Likes == nil && p.Dislikes == nil && p.Calorie == nil
}
