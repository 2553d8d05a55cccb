package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/domain/repositories"
	"github.com/zhravan/juztadrop-sub000/pkg/logger"
	"github.com/zhravan/juztadrop-sub000/pkg/utils"
	"go.uber.org/zap"
)

// AuthUsecase handles user login, logout and profile access
type AuthUsecase struct {
	otp      *OtpUsecase
	userRepo repositories.UserRepository
	sessions *SessionManager[*entities.User]
	now      func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	otp *OtpUsecase,
	userRepo repositories.UserRepository,
	sessions *SessionManager[*entities.User],
) *AuthUsecase {
	return &AuthUsecase{
		otp:      otp,
		userRepo: userRepo,
		sessions: sessions,
		now:      time.Now,
	}
}

func (u *AuthUsecase) SendOtp(ctx context.Context, email string) error {
	return u.otp.SendOtp(ctx, email, entities.PrincipalUser)
}

// VerifyOtp redeems a code, finds or creates the user and opens a session.
// The ban check runs after the code is burned.
func (u *AuthUsecase) VerifyOtp(ctx context.Context, email, code string) (*entities.VerifyOtpResult, error) {
	normalized, err := u.otp.VerifyOtp(ctx, email, code, entities.PrincipalUser)
	if err != nil {
		return nil, err
	}

	user, isNew, err := u.resolveUser(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if user.Disabled() {
		logger.Warn(ctx, "login rejected for disabled account", zap.String("user_id", user.ID.String()))
		return nil, domainerrors.ErrAccountDisabled
	}

	token, err := u.sessions.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &entities.VerifyOtpResult{
		Token:     token,
		User:      user,
		IsNewUser: isNew,
	}, nil
}

func (u *AuthUsecase) resolveUser(ctx context.Context, email string) (*entities.User, bool, error) {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, false, err
	}

	if user == nil {
		now := u.now()
		user = &entities.User{
			ID:            utils.GenerateUUIDv7(),
			Email:         email,
			EmailVerified: true,
			Volunteering:  entities.VolunteeringPreferences{Causes: []string{}, Skills: []string{}},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		err := u.userRepo.Create(ctx, user)
		if err == nil {
			logger.Info(ctx, "user created", zap.String("user_id", user.ID.String()))
			return user, true, nil
		}
		if !errors.Is(err, domainerrors.ErrUserExists) {
			return nil, false, err
		}
		// lost a create race with a concurrent verify for the same email
		user, err = u.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, false, err
		}
	}

	if !user.EmailVerified {
		if err := u.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
			return nil, false, err
		}
		user, err = u.userRepo.GetByID(ctx, user.ID)
		if err != nil {
			return nil, false, err
		}
	}
	return user, false, nil
}

// ValidateSession is the strict and soft gate's entry point.
func (u *AuthUsecase) ValidateSession(ctx context.Context, token string) (*ValidatedSession[*entities.User], error) {
	return u.sessions.ValidateSession(ctx, token)
}

func (u *AuthUsecase) Logout(ctx context.Context, token string) error {
	return u.sessions.DeleteSession(ctx, token)
}

// Me gets the current user by ID
func (u *AuthUsecase) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial profile update and returns the fresh row.
func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	if err := u.userRepo.UpdateProfile(ctx, userID, input); err != nil {
		return nil, err
	}
	return u.userRepo.GetByID(ctx, userID)
}
