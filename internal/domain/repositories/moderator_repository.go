package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
)

// ModeratorRepository defines moderator data operations. Returned moderators
// carry their backing user.
type ModeratorRepository interface {
	Create(ctx context.Context, moderator *entities.Moderator) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Moderator, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Moderator, error)
	Count(ctx context.Context) (int64, error)
	// ClaimSeedSlot inserts the singleton seed marker. A second claim fails
	// with errors.ErrModeratorExists.
	ClaimSeedSlot(ctx context.Context, email string) error
}
