package entities

import (
	"time"

	"github.com/google/uuid"
)

// Moderator is an elevated principal backed by a regular user account.
type Moderator struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	IsActive        bool      `json:"isActive"`
	AssignedRegions []string  `json:"assignedRegions"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	User            *User     `json:"user,omitempty"`
}

func (m *Moderator) PrincipalID() uuid.UUID { return m.ID }

// Disabled follows the backing user; a moderator without a loaded user is treated as disabled.
func (m *Moderator) Disabled() bool {
	return m.User == nil || m.User.Disabled()
}

// SeedModeratorInput represents input for the one-time moderator bootstrap.
type SeedModeratorInput struct {
	Email string `json:"email" binding:"required"`
}
