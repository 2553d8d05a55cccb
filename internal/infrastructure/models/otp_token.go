package models

import (
	"time"

	"github.com/google/uuid"
)

type OtpToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:varchar(255);not null;index:idx_otp_tokens_email_code"`
	Code      string    `gorm:"type:varchar(6);not null;index:idx_otp_tokens_email_code"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Used      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (OtpToken) TableName() string { return "otp_tokens" }
