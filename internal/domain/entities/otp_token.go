package entities

import (
	"time"

	"github.com/google/uuid"
)

// OtpToken is a single-use numeric code bound to an email address.
type OtpToken struct {
	ID        uuid.UUID
	Email     string
	Code      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Consumable reports whether the token may still be redeemed at now.
func (t *OtpToken) Consumable(now time.Time) bool {
	return !t.Used && t.ExpiresAt.After(now)
}
