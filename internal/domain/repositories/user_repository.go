package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
)

// UserRepository defines user data operations. Lookups include banned and
// soft-deleted rows so callers can reject them explicitly.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	UpdateProfile(ctx context.Context, id uuid.UUID, input *entities.UpdateProfileInput) error
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter entities.UserListFilter) ([]*entities.User, int64, error)
}
