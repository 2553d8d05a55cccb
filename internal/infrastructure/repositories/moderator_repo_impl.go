package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/infrastructure/models"
	"gorm.io/gorm"
)

// ModeratorRepository implements moderator data operations
type ModeratorRepository struct {
	db *gorm.DB
}

// NewModeratorRepository creates a new moderator repository
func NewModeratorRepository(db *gorm.DB) *ModeratorRepository {
	return &ModeratorRepository{db: db}
}

func (r *ModeratorRepository) Create(ctx context.Context, moderator *entities.Moderator) error {
	regions := models.StringSlice(moderator.AssignedRegions)
	if regions == nil {
		regions = models.StringSlice{}
	}
	m := &models.Moderator{
		ID:              moderator.ID,
		UserID:          moderator.UserID,
		IsActive:        moderator.IsActive,
		AssignedRegions: regions,
		CreatedAt:       moderator.CreatedAt.UTC(),
		UpdatedAt:       moderator.UpdatedAt.UTC(),
	}
	if err := GetDB(ctx, r.db).Omit("User").Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrModeratorExists
		}
		return err
	}
	return nil
}

func (r *ModeratorRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Moderator, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ModeratorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Moderator, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *ModeratorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&models.Moderator{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ClaimSeedSlot writes the fixed-key seed marker. Concurrent seeds race on
// the primary key and only one insert can win.
func (r *ModeratorRepository) ClaimSeedSlot(ctx context.Context, email string) error {
	claim := &models.ModeratorSeedClaim{
		ID:        models.SeedClaimID,
		Email:     email,
		ClaimedAt: time.Now().UTC(),
	}
	if err := GetDB(ctx, r.db).Create(claim).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrModeratorExists
		}
		return err
	}
	return nil
}

func (r *ModeratorRepository) first(ctx context.Context, query string, args ...interface{}) (*entities.Moderator, error) {
	var m models.Moderator
	if err := GetDB(ctx, r.db).Preload("User").Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	mod := &entities.Moderator{
		ID:              m.ID,
		UserID:          m.UserID,
		IsActive:        m.IsActive,
		AssignedRegions: []string(m.AssignedRegions),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if mod.AssignedRegions == nil {
		mod.AssignedRegions = []string{}
	}
	if m.User.ID != uuid.Nil {
		user, err := userToEntity(&m.User)
		if err != nil {
			return nil, err
		}
		mod.User = user
	}
	return mod, nil
}
