package repositories

import (
	"context"
	"time"

	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/infrastructure/models"
	"gorm.io/gorm"
)

// OtpTokenRepository implements OTP persistence
type OtpTokenRepository struct {
	db *gorm.DB
}

// NewOtpTokenRepository creates a new OTP token repository
func NewOtpTokenRepository(db *gorm.DB) *OtpTokenRepository {
	return &OtpTokenRepository{db: db}
}

func (r *OtpTokenRepository) Create(ctx context.Context, token *entities.OtpToken) error {
	m := &models.OtpToken{
		ID:        token.ID,
		Email:     token.Email,
		Code:      token.Code,
		ExpiresAt: token.ExpiresAt.UTC(),
		Used:      token.Used,
		CreatedAt: token.CreatedAt.UTC(),
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// Consume flips used on the newest live matching row in a single statement,
// so two concurrent redemptions of one code cannot both succeed.
func (r *OtpTokenRepository) Consume(ctx context.Context, email, code string, now time.Time) error {
	db := GetDB(ctx, r.db)
	newest := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.OtpToken{}).
		Select("id").
		Where("email = ? AND code = ? AND used = ? AND expires_at > ?", email, code, false, now.UTC()).
		Order("created_at DESC").
		Limit(1)

	result := db.Model(&models.OtpToken{}).
		Where("id = (?) AND used = ?", newest, false).
		Update("used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidOTP
	}
	return nil
}

// DeleteStale removes used or expired tokens. Only the cleanup job calls it.
func (r *OtpTokenRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	result := GetDB(ctx, r.db).
		Where("used = ? OR expires_at <= ?", true, now.UTC()).
		Delete(&models.OtpToken{})
	return result.RowsAffected, result.Error
}
