package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
)

type UserSession struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Token          string    `gorm:"type:varchar(128);uniqueIndex;not null"`
	ExpiresAt      time.Time `gorm:"not null;index"`
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

func (UserSession) TableName() string { return "sessions" }

type ModeratorSession struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ModeratorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token          string    `gorm:"type:varchar(128);uniqueIndex;not null"`
	ExpiresAt      time.Time `gorm:"not null;index"`
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

func (ModeratorSession) TableName() string { return "moderator_sessions" }

// SessionTable names the physical table and owner column of one session namespace.
type SessionTable struct {
	Name            string
	PrincipalColumn string
}

var sessionTables = map[entities.PrincipalKind]SessionTable{
	entities.PrincipalUser:      {Name: UserSession{}.TableName(), PrincipalColumn: "user_id"},
	entities.PrincipalModerator: {Name: ModeratorSession{}.TableName(), PrincipalColumn: "moderator_id"},
}

// SessionTableFor returns the table layout for kind.
func SessionTableFor(kind entities.PrincipalKind) (SessionTable, bool) {
	t, ok := sessionTables[kind]
	return t, ok
}

// SessionRecord is the namespace-neutral scan target for session queries.
type SessionRecord struct {
	ID             uuid.UUID
	PrincipalID    uuid.UUID
	Token          string
	ExpiresAt      time.Time
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
