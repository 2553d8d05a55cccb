package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/infrastructure/models"
	"gorm.io/gorm"
)

// SessionRepository implements session persistence for one principal kind.
// User and moderator sessions share the implementation but not the table.
type SessionRepository struct {
	db    *gorm.DB
	kind  entities.PrincipalKind
	table models.SessionTable
}

// NewSessionRepository creates a session repository bound to kind's table.
// It panics on an unknown kind.
func NewSessionRepository(db *gorm.DB, kind entities.PrincipalKind) *SessionRepository {
	table, ok := models.SessionTableFor(kind)
	if !ok {
		panic(fmt.Sprintf("no session table for principal kind %q", kind))
	}
	return &SessionRepository{db: db, kind: kind, table: table}
}

func (r *SessionRepository) Kind() entities.PrincipalKind {
	return r.kind
}

func (r *SessionRepository) Create(ctx context.Context, s *entities.Session) error {
	row := map[string]interface{}{
		"id":                    s.ID,
		r.table.PrincipalColumn: s.PrincipalID,
		"token":                 s.Token,
		"expires_at":            s.ExpiresAt.UTC(),
		"created_at":            s.CreatedAt.UTC(),
		"last_accessed_at":      s.LastAccessedAt.UTC(),
	}
	if err := GetDB(ctx, r.db).Table(r.table.Name).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("session token collision: %w", err)
		}
		return err
	}
	return nil
}

// GetByToken returns the session with exactly this token, expired or not.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*entities.Session, error) {
	var rec models.SessionRecord
	err := GetDB(ctx, r.db).
		Table(r.table.Name).
		Select(fmt.Sprintf("id, %s AS principal_id, token, expires_at, created_at, last_accessed_at", r.table.PrincipalColumn)).
		Where("token = ?", token).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrInvalidSession
		}
		return nil, err
	}
	return &entities.Session{
		ID:             rec.ID,
		PrincipalID:    rec.PrincipalID,
		Token:          rec.Token,
		ExpiresAt:      rec.ExpiresAt,
		CreatedAt:      rec.CreatedAt,
		LastAccessedAt: rec.LastAccessedAt,
	}, nil
}

func (r *SessionRepository) TouchLastAccessed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return GetDB(ctx, r.db).
		Table(r.table.Name).
		Where("id = ?", id).
		Update("last_accessed_at", at.UTC()).Error
}

// DeleteByToken is idempotent: a missing row is not an error.
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	return GetDB(ctx, r.db).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE token = ?", r.table.Name), token).Error
}

func (r *SessionRepository) DeleteByPrincipal(ctx context.Context, principalID uuid.UUID) (int64, error) {
	result := GetDB(ctx, r.db).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.table.Name, r.table.PrincipalColumn), principalID)
	return result.RowsAffected, result.Error
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := GetDB(ctx, r.db).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE expires_at <= ?", r.table.Name), now.UTC())
	return result.RowsAffected, result.Error
}
