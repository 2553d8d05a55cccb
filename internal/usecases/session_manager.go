package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/internal/domain/repositories"
	"github.com/zhravan/juztadrop-sub000/pkg/crypto"
	"github.com/zhravan/juztadrop-sub000/pkg/logger"
	"github.com/zhravan/juztadrop-sub000/pkg/metrics"
	"github.com/zhravan/juztadrop-sub000/pkg/utils"
	"go.uber.org/zap"
)

var generateSessionToken = crypto.GenerateSessionToken

// PrincipalLoader resolves a session owner. It must return
// errors.ErrNotFound when the principal no longer exists.
type PrincipalLoader[P entities.Principal] func(ctx context.Context, id uuid.UUID) (P, error)

// ValidatedSession is the result of a successful session check.
type ValidatedSession[P entities.Principal] struct {
	PrincipalID uuid.UUID
	Principal   P
	Session     *entities.Session
}

// SessionManager issues and checks opaque session tokens for one principal kind.
type SessionManager[P entities.Principal] struct {
	sessions repositories.SessionRepository
	load     PrincipalLoader[P]
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewSessionManager[P entities.Principal](
	sessions repositories.SessionRepository,
	load PrincipalLoader[P],
	m *metrics.Metrics,
) *SessionManager[P] {
	return &SessionManager[P]{
		sessions: sessions,
		load:     load,
		metrics:  m,
		now:      time.Now,
	}
}

// NewUserSessionManager binds the manager to the user session namespace.
func NewUserSessionManager(sessions repositories.SessionRepository, users repositories.UserRepository, m *metrics.Metrics) *SessionManager[*entities.User] {
	return NewSessionManager[*entities.User](sessions, users.GetByID, m)
}

// NewModeratorSessionManager binds the manager to the moderator session namespace.
func NewModeratorSessionManager(sessions repositories.SessionRepository, moderators repositories.ModeratorRepository, m *metrics.Metrics) *SessionManager[*entities.Moderator] {
	return NewSessionManager[*entities.Moderator](sessions, moderators.GetByID, m)
}

func (m *SessionManager[P]) Kind() entities.PrincipalKind {
	return m.sessions.Kind()
}

// CreateSession persists a new 30-day session and returns its token.
func (m *SessionManager[P]) CreateSession(ctx context.Context, principalID uuid.UUID) (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", err
	}

	now := m.now()
	session := &entities.Session{
		ID:             utils.GenerateUUIDv7(),
		PrincipalID:    principalID,
		Token:          token,
		ExpiresAt:      now.Add(entities.SessionValidity),
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return "", err
	}

	m.metrics.SessionCreated(string(m.Kind()))
	logger.Info(ctx, "session created",
		zap.String("kind", string(m.Kind())),
		zap.String("principal_id", principalID.String()),
		zap.Time("expires_at", session.ExpiresAt),
	)
	return token, nil
}

// ValidateSession resolves token to its principal. Expired sessions and those
// whose principal is gone, banned or soft-deleted are deleted on the spot.
func (m *SessionManager[P]) ValidateSession(ctx context.Context, token string) (*ValidatedSession[P], error) {
	if token == "" {
		return nil, domainerrors.ErrInvalidSession
	}

	now := m.now()
	session, err := m.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !session.ExpiresAt.After(now) {
		m.revoke(ctx, session, "expired")
		return nil, domainerrors.ErrInvalidSession
	}

	principal, err := m.load(ctx, session.PrincipalID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			m.revoke(ctx, session, "principal_missing")
			return nil, domainerrors.ErrInvalidSession
		}
		return nil, err
	}
	if principal.Disabled() {
		m.revoke(ctx, session, "principal_disabled")
		return nil, domainerrors.ErrInvalidSession
	}

	if err := m.sessions.TouchLastAccessed(ctx, session.ID, now); err != nil {
		logger.Warn(ctx, "failed to touch session", zap.String("kind", string(m.Kind())), zap.Error(err))
	} else {
		session.LastAccessedAt = now
	}

	return &ValidatedSession[P]{
		PrincipalID: session.PrincipalID,
		Principal:   principal,
		Session:     session,
	}, nil
}

// DeleteSession removes the session with token. Unknown tokens are not an error.
func (m *SessionManager[P]) DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessions.DeleteByToken(ctx, token); err != nil {
		return err
	}
	m.metrics.SessionsRevoked(string(m.Kind()), "logout", 1)
	logger.Info(ctx, "session revoked", zap.String("kind", string(m.Kind())), zap.String("reason", "logout"))
	return nil
}

// DeleteAllSessionsForPrincipal revokes every session the principal holds.
func (m *SessionManager[P]) DeleteAllSessionsForPrincipal(ctx context.Context, principalID uuid.UUID) (int64, error) {
	n, err := m.sessions.DeleteByPrincipal(ctx, principalID)
	if err != nil {
		return 0, err
	}
	m.metrics.SessionsRevoked(string(m.Kind()), "bulk", n)
	logger.Info(ctx, "session revoked",
		zap.String("kind", string(m.Kind())),
		zap.String("reason", "bulk"),
		zap.String("principal_id", principalID.String()),
		zap.Int64("count", n),
	)
	return n, nil
}

func (m *SessionManager[P]) revoke(ctx context.Context, session *entities.Session, reason string) {
	if err := m.sessions.DeleteByToken(ctx, session.Token); err != nil {
		logger.Warn(ctx, "failed to delete invalid session", zap.String("kind", string(m.Kind())), zap.Error(err))
		return
	}
	m.metrics.SessionsRevoked(string(m.Kind()), reason, 1)
	logger.Info(ctx, "session revoked",
		zap.String("kind", string(m.Kind())),
		zap.String("reason", reason),
		zap.String("principal_id", session.PrincipalID.String()),
	)
}
