package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/domain/repositories"
	"github.com/zhravan/juztadrop-sub000/pkg/logger"
	"github.com/zhravan/juztadrop-sub000/pkg/utils"
	"go.uber.org/zap"
)

// ModeratorUsecase handles moderator login, the one-time seed and user moderation.
type ModeratorUsecase struct {
	otp           *OtpUsecase
	userRepo      repositories.UserRepository
	moderatorRepo repositories.ModeratorRepository
	uow           repositories.UnitOfWork
	sessions      *SessionManager[*entities.Moderator]
	userSessions  *SessionManager[*entities.User]
	now           func() time.Time
}

// NewModeratorUsecase creates a new moderator usecase
func NewModeratorUsecase(
	otp *OtpUsecase,
	userRepo repositories.UserRepository,
	moderatorRepo repositories.ModeratorRepository,
	uow repositories.UnitOfWork,
	sessions *SessionManager[*entities.Moderator],
	userSessions *SessionManager[*entities.User],
) *ModeratorUsecase {
	return &ModeratorUsecase{
		otp:           otp,
		userRepo:      userRepo,
		moderatorRepo: moderatorRepo,
		uow:           uow,
		sessions:      sessions,
		userSessions:  userSessions,
		now:           time.Now,
	}
}

func (u *ModeratorUsecase) SendOtp(ctx context.Context, email string) error {
	return u.otp.SendOtp(ctx, email, entities.PrincipalModerator)
}

// VerifyOtp redeems a code and opens a moderator session. The code is burned
// even when the email does not belong to an active moderator.
func (u *ModeratorUsecase) VerifyOtp(ctx context.Context, email, code string) (*entities.ModeratorLoginResult, error) {
	normalized, err := u.otp.VerifyOtp(ctx, email, code, entities.PrincipalModerator)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrNotModerator
		}
		return nil, err
	}

	moderator, err := u.moderatorRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrNotModerator
		}
		return nil, err
	}
	if !moderator.IsActive {
		return nil, domainerrors.ErrNotModerator
	}
	if moderator.Disabled() {
		return nil, domainerrors.ErrAccountDisabled
	}

	token, err := u.sessions.CreateSession(ctx, moderator.ID)
	if err != nil {
		return nil, err
	}
	return &entities.ModeratorLoginResult{Token: token, Moderator: moderator}, nil
}

func (u *ModeratorUsecase) ValidateSession(ctx context.Context, token string) (*ValidatedSession[*entities.Moderator], error) {
	return u.sessions.ValidateSession(ctx, token)
}

func (u *ModeratorUsecase) Logout(ctx context.Context, token string) error {
	return u.sessions.DeleteSession(ctx, token)
}

// Seed creates the first and only moderator together with a pre-verified
// user account. Existing accounts cannot be promoted through this path.
func (u *ModeratorUsecase) Seed(ctx context.Context, email string) (*entities.Moderator, error) {
	normalized := utils.NormalizeEmail(email)
	if !utils.LooksLikeEmail(normalized) {
		return nil, domainerrors.ErrInvalidInput
	}

	count, err := u.moderatorRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count != 0 {
		return nil, domainerrors.ErrModeratorExists
	}

	_, err = u.userRepo.GetByEmail(ctx, normalized)
	if err == nil {
		return nil, domainerrors.ErrUserExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	now := u.now()
	user := &entities.User{
		ID:            utils.GenerateUUIDv7(),
		Email:         normalized,
		EmailVerified: true,
		Volunteering:  entities.VolunteeringPreferences{Causes: []string{}, Skills: []string{}},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	moderator := &entities.Moderator{
		ID:              utils.GenerateUUIDv7(),
		UserID:          user.ID,
		IsActive:        true,
		AssignedRegions: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.moderatorRepo.ClaimSeedSlot(txCtx, normalized); err != nil {
			return err
		}
		if err := u.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		return u.moderatorRepo.Create(txCtx, moderator)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrModeratorExists) || errors.Is(err, domainerrors.ErrUserExists) {
			return nil, err
		}
		logger.Error(ctx, "moderator seed transaction failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domainerrors.ErrTransactionFailed, err)
	}

	seeded, err := u.moderatorRepo.GetByID(ctx, moderator.ID)
	if err != nil {
		return nil, err
	}
	if seeded.Disabled() {
		return nil, domainerrors.ErrAccountDisabled
	}

	logger.Info(ctx, "moderator seeded",
		zap.String("moderator_id", seeded.ID.String()),
		zap.String("user_id", seeded.UserID.String()),
	)
	return seeded, nil
}

// ListUsers returns a page of live users matching search.
func (u *ModeratorUsecase) ListUsers(ctx context.Context, search string, pagination utils.PaginationParams) ([]*entities.User, utils.PaginationMeta, error) {
	users, total, err := u.userRepo.List(ctx, entities.UserListFilter{
		Search: search,
		Limit:  pagination.Limit,
		Offset: pagination.CalculateOffset(),
	})
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return users, utils.CalculateMeta(total, pagination.Page, pagination.Limit), nil
}

// BanUser bans the account and revokes its sessions immediately.
func (u *ModeratorUsecase) BanUser(ctx context.Context, actor *entities.Moderator, userID uuid.UUID) error {
	if err := u.guardSelf(actor, userID); err != nil {
		return err
	}
	if err := u.userRepo.SetBanned(ctx, userID, true); err != nil {
		return err
	}
	logger.Info(ctx, "user banned",
		zap.String("user_id", userID.String()),
		zap.String("moderator_id", actor.ID.String()),
	)
	return u.revokeAll(ctx, userID)
}

// UnbanUser lifts a ban. Sessions revoked by the ban stay revoked.
func (u *ModeratorUsecase) UnbanUser(ctx context.Context, actor *entities.Moderator, userID uuid.UUID) error {
	if err := u.userRepo.SetBanned(ctx, userID, false); err != nil {
		return err
	}
	logger.Info(ctx, "user unbanned",
		zap.String("user_id", userID.String()),
		zap.String("moderator_id", actor.ID.String()),
	)
	return nil
}

// DeleteUser soft-deletes the account and revokes its sessions immediately.
func (u *ModeratorUsecase) DeleteUser(ctx context.Context, actor *entities.Moderator, userID uuid.UUID) error {
	if err := u.guardSelf(actor, userID); err != nil {
		return err
	}
	if err := u.userRepo.SoftDelete(ctx, userID); err != nil {
		return err
	}
	logger.Info(ctx, "user deleted",
		zap.String("user_id", userID.String()),
		zap.String("moderator_id", actor.ID.String()),
	)
	return u.revokeAll(ctx, userID)
}

func (u *ModeratorUsecase) guardSelf(actor *entities.Moderator, userID uuid.UUID) error {
	if actor != nil && actor.UserID == userID {
		return domainerrors.NewError("moderators cannot ban or delete their own account", domainerrors.ErrInvalidInput)
	}
	return nil
}

// revokeAll drops the user's sessions and, when the user backs a moderator,
// the moderator sessions too.
func (u *ModeratorUsecase) revokeAll(ctx context.Context, userID uuid.UUID) error {
	if _, err := u.userSessions.DeleteAllSessionsForPrincipal(ctx, userID); err != nil {
		return err
	}
	moderator, err := u.moderatorRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}
	_, err = u.sessions.DeleteAllSessionsForPrincipal(ctx, moderator.ID)
	return err
}
