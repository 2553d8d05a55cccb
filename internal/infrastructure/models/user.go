package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	EmailVerified bool      `gorm:"not null;default:false"`
	IsBanned      bool      `gorm:"not null;default:false"`
	IsAdmin       bool      `gorm:"not null;default:false"`
	Name          *string   `gorm:"type:varchar(100)"`
	Phone         *string   `gorm:"type:varchar(32)"`
	Gender        *string   `gorm:"type:varchar(32)"`
	Volunteering  null.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	// Plain nullable column rather than gorm.DeletedAt: auth lookups must see
	// soft-deleted rows to reject them.
	DeletedAt *time.Time `gorm:"index"`
}

func (User) TableName() string { return "users" }
