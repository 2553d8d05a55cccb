package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
)

// SessionRepository defines session persistence for one principal namespace.
type SessionRepository interface {
	Kind() entities.PrincipalKind
	Create(ctx context.Context, session *entities.Session) error
	GetByToken(ctx context.Context, token string) (*entities.Session, error)
	TouchLastAccessed(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteByPrincipal(ctx context.Context, principalID uuid.UUID) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
