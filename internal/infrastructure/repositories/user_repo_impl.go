package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/infrastructure/models"
	"gorm.io/gorm"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m, err := userToModel(user)
	if err != nil {
		return err
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrUserExists
		}
		return err
	}
	return nil
}

// GetByID gets a user by ID, including banned and soft-deleted rows
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m)
}

// GetByEmail gets a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m)
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return r.updateColumns(GetDB(ctx, r.db).Where("id = ?", id), map[string]interface{}{
		"email_verified": true,
	})
}

// UpdateProfile applies the non-nil fields of input to a live account.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, input *entities.UpdateProfileInput) error {
	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Gender != nil {
		updates["gender"] = *input.Gender
	}
	if input.Volunteering != nil {
		raw, err := marshalVolunteering(*input.Volunteering)
		if err != nil {
			return err
		}
		updates["volunteering"] = raw
	}
	return r.updateColumns(GetDB(ctx, r.db).Where("id = ? AND deleted_at IS NULL", id), updates)
}

func (r *UserRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	return r.updateColumns(GetDB(ctx, r.db).Where("id = ?", id), map[string]interface{}{
		"is_banned": banned,
	})
}

// SoftDelete stamps deleted_at once; deleting twice reports ErrNotFound.
func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.updateColumns(GetDB(ctx, r.db).Where("id = ? AND deleted_at IS NULL", id), map[string]interface{}{
		"deleted_at": time.Now().UTC(),
	})
}

// List lists live users, newest first, with optional email/name search
func (r *UserRepository) List(ctx context.Context, filter entities.UserListFilter) ([]*entities.User, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.User{}).Where("deleted_at IS NULL")

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(COALESCE(name, '')) LIKE ?", searchTerm, searchTerm)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var userModels []models.User
	if err := query.Order("created_at DESC").Find(&userModels).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*entities.User, 0, len(userModels))
	for i := range userModels {
		u, err := userToEntity(&userModels[i])
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, nil
}

func (r *UserRepository) updateColumns(scope *gorm.DB, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := scope.Model(&models.User{}).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func marshalVolunteering(v entities.VolunteeringPreferences) (null.JSON, error) {
	if v.Causes == nil {
		v.Causes = []string{}
	}
	if v.Skills == nil {
		v.Skills = []string{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return null.JSON{}, fmt.Errorf("marshal volunteering: %w", err)
	}
	return null.JSONFrom(raw), nil
}

func userToModel(u *entities.User) (*models.User, error) {
	volunteering, err := marshalVolunteering(u.Volunteering)
	if err != nil {
		return nil, err
	}
	return &models.User{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		IsBanned:      u.IsBanned,
		IsAdmin:       u.IsAdmin,
		Name:          u.Name.Ptr(),
		Phone:         u.Phone.Ptr(),
		Gender:        u.Gender.Ptr(),
		Volunteering:  volunteering,
		CreatedAt:     u.CreatedAt.UTC(),
		UpdatedAt:     u.UpdatedAt.UTC(),
		DeletedAt:     u.DeletedAt.Ptr(),
	}, nil
}

func userToEntity(m *models.User) (*entities.User, error) {
	u := &entities.User{
		ID:            m.ID,
		Email:         m.Email,
		EmailVerified: m.EmailVerified,
		IsBanned:      m.IsBanned,
		IsAdmin:       m.IsAdmin,
		Name:          null.StringFromPtr(m.Name),
		Phone:         null.StringFromPtr(m.Phone),
		Gender:        null.StringFromPtr(m.Gender),
		Volunteering:  entities.VolunteeringPreferences{Causes: []string{}, Skills: []string{}},
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		DeletedAt:     null.TimeFromPtr(m.DeletedAt),
	}
	if m.Volunteering.Valid && len(m.Volunteering.JSON) > 0 {
		if err := m.Volunteering.Unmarshal(&u.Volunteering); err != nil {
			return nil, fmt.Errorf("unmarshal volunteering for user %s: %w", m.ID, err)
		}
	}
	return u, nil
}
