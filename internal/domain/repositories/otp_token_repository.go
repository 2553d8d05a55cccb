package repositories

import (
	"context"
	"time"

	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
)

// OtpTokenRepository defines OTP persistence
type OtpTokenRepository interface {
	Create(ctx context.Context, token *entities.OtpToken) error
	// Consume atomically marks the newest live token matching email and code
	// as used. It returns errors.ErrInvalidOTP when nothing was consumed.
	Consume(ctx context.Context, email, code string, now time.Time) error
	DeleteStale(ctx context.Context, now time.Time) (int64, error)
}
