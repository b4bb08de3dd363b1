package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PasswordHash string     `gorm:"not null;column:password_hash" json:"-"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	LastActiveAt *time.Time `gorm:"column:last_active_at" json:"lastActiveAt,omitempty"`
}

func (User) TableName() string { return "users" }
