package models

import (
	"time"

	"github.com/google/uuid"
)

type Moderator struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null"`
	IsActive        bool        `gorm:"not null;default:true"`
	AssignedRegions StringSlice `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Associations
	User User `gorm:"foreignKey:UserID"`
}

func (Moderator) TableName() string { return "moderators" }

// SeedClaimID is the only primary key the seed marker table ever holds.
const SeedClaimID = 1

// ModeratorSeedClaim is a singleton marker row written in the seed transaction.
type ModeratorSeedClaim struct {
	ID        int    `gorm:"primaryKey;autoIncrement:false"`
	Email     string `gorm:"type:varchar(255);not null"`
	ClaimedAt time.Time
}

func (ModeratorSeedClaim) TableName() string { return "moderator_seed_claims" }
