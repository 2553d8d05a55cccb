package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/domain/repositories"
	"github.com/zhravan/juztadrop-sub000/pkg/crypto"
	"github.com/zhravan/juztadrop-sub000/pkg/logger"
	"github.com/zhravan/juztadrop-sub000/pkg/metrics"
	"github.com/zhravan/juztadrop-sub000/pkg/utils"
	"go.uber.org/zap"
)

var generateOTPCode = crypto.GenerateNumericCode

// OtpMailer delivers a code to an address.
type OtpMailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

// OtpRateLimiter throttles code requests per key.
type OtpRateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// OtpUsecase issues and redeems one-time login codes. Both the user and
// moderator login flows share it; codes prove control of an email address.
type OtpUsecase struct {
	otpRepo repositories.OtpTokenRepository
	mailer  OtpMailer
	limiter OtpRateLimiter
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewOtpUsecase creates a new OTP usecase. limiter may be nil.
func NewOtpUsecase(
	otpRepo repositories.OtpTokenRepository,
	mailer OtpMailer,
	limiter OtpRateLimiter,
	m *metrics.Metrics,
) *OtpUsecase {
	return &OtpUsecase{
		otpRepo: otpRepo,
		mailer:  mailer,
		limiter: limiter,
		metrics: m,
		now:     time.Now,
	}
}

// SendOtp stores a fresh code for email and mails it. A mail failure is
// reported but the stored code is kept.
func (u *OtpUsecase) SendOtp(ctx context.Context, email string, kind entities.PrincipalKind) error {
	normalized := utils.NormalizeEmail(email)
	if !utils.LooksLikeEmail(normalized) {
		return domainerrors.ErrInvalidInput
	}

	if u.limiter != nil {
		allowed, err := u.limiter.Allow(ctx, normalized)
		if err != nil {
			logger.Warn(ctx, "otp rate limiter unavailable, allowing request", zap.Error(err))
		} else if !allowed {
			u.metrics.RateLimited("otp_email")
			logger.Warn(ctx, "otp request rate limited", zap.String("email", normalized))
			return domainerrors.ErrRateLimited
		}
	}

	code, err := generateOTPCode()
	if err != nil {
		return err
	}

	now := u.now()
	token := &entities.OtpToken{
		ID:        utils.GenerateUUIDv7(),
		Email:     normalized,
		Code:      code,
		ExpiresAt: now.Add(entities.OTPValidity),
		CreatedAt: now,
	}
	if err := u.otpRepo.Create(ctx, token); err != nil {
		return err
	}

	u.metrics.OTPIssued(string(kind))
	logger.Info(ctx, "otp issued",
		zap.String("email", normalized),
		zap.String("kind", string(kind)),
		zap.Time("expires_at", token.ExpiresAt),
	)

	if err := u.mailer.SendOTP(ctx, normalized, code); err != nil {
		if errors.Is(err, domainerrors.ErrMailDelivery) {
			return err
		}
		return fmt.Errorf("%w: %v", domainerrors.ErrMailDelivery, err)
	}
	return nil
}

// VerifyOtp burns the matching code and returns the normalized email it proved.
// Wrong, expired and reused codes are indistinguishable to the caller.
func (u *OtpUsecase) VerifyOtp(ctx context.Context, email, code string, kind entities.PrincipalKind) (string, error) {
	normalized := utils.NormalizeEmail(email)
	if len(code) != entities.OTPCodeLength {
		u.metrics.OTPVerified(string(kind), false)
		return "", domainerrors.ErrInvalidOTP
	}

	if err := u.otpRepo.Consume(ctx, normalized, code, u.now()); err != nil {
		u.metrics.OTPVerified(string(kind), false)
		return "", err
	}

	u.metrics.OTPVerified(string(kind), true)
	logger.Info(ctx, "otp consumed", zap.String("email", normalized), zap.String("kind", string(kind)))
	return normalized, nil
}
