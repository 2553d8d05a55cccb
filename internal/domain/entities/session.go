package entities

import (
	"time"

	"github.com/google/uuid"
)

// PrincipalKind selects the session namespace.
type PrincipalKind string

const (
	PrincipalUser      PrincipalKind = "user"
	PrincipalModerator PrincipalKind = "moderator"
)

// Principal is anything a session can authenticate.
type Principal interface {
	PrincipalID() uuid.UUID
	Disabled() bool
}

// Session is an opaque bearer token row. User and moderator sessions share
// this shape but live in separate tables.
type Session struct {
	ID             uuid.UUID
	PrincipalID    uuid.UUID
	Token          string
	ExpiresAt      time.Time
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
