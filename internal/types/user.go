package types

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID              int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	Password        string         `gorm:"column:password_hash;not null" json:"-"`
	Name            string         `gorm:"column:name" json:"name"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastLogin       *time.Time     `gorm:"column:last_login" json:"last_login,omitempty"`
	AvatarBucketKey string         `gorm:"column:avatar_bucket_key" json:"-"`
	AvatarURL       string         `gorm:"column:avatar_url" json:"avatar_url"`
	AvatarColor     string         `gorm:"column:avatar_color" json:"-"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "users" }
