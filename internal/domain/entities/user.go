package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// VolunteeringPreferences is stored as a single JSON column on the user row.
type VolunteeringPreferences struct {
	Causes []string `json:"causes"`
	Skills []string `json:"skills"`
}

// User represents a user entity
type User struct {
	ID            uuid.UUID               `json:"id"`
	Email         string                  `json:"email"`
	EmailVerified bool                    `json:"emailVerified"`
	IsBanned      bool                    `json:"isBanned"`
	IsAdmin       bool                    `json:"isAdmin"`
	Name          null.String             `json:"name"`
	Phone         null.String             `json:"phone"`
	Gender        null.String             `json:"gender"`
	Volunteering  VolunteeringPreferences `json:"volunteering"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
	DeletedAt     null.Time               `json:"-"`
}

func (u *User) PrincipalID() uuid.UUID { return u.ID }

// Disabled reports whether the account may no longer authenticate.
func (u *User) Disabled() bool {
	return u.IsBanned || u.DeletedAt.Valid
}

// UpdateProfileInput represents a partial profile update. Nil fields are left untouched.
type UpdateProfileInput struct {
	Name         *string                  `json:"name" binding:"omitempty,max=100"`
	Phone        *string                  `json:"phone" binding:"omitempty,max=32"`
	Gender       *string                  `json:"gender" binding:"omitempty,max=32"`
	Volunteering *VolunteeringPreferences `json:"volunteering"`
}

// UserListFilter narrows the moderator user listing.
type UserListFilter struct {
	Search string
	Limit  int
	Offset int
}
