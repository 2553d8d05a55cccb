package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
)

func newUserSessionManagerForTest(now time.Time) (*SessionManager[*entities.User], *MockSessionRepository, *MockUserRepository) {
	sessions := &MockSessionRepository{kind: entities.PrincipalUser}
	users := new(MockUserRepository)
	m := NewUserSessionManager(sessions, users, nil)
	m.now = fixedClock(now)
	return m, sessions, users
}

func TestSessionManager_CreateSession(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	m, sessions, _ := newUserSessionManagerForTest(now)
	ctx := context.Background()
	userID := uuid.New()

	orig := generateSessionToken
	t.Cleanup(func() { generateSessionToken = orig })
	generateSessionToken = func() (string, error) { return "opaque-token", nil }

	sessions.On("Create", ctx, mock.MatchedBy(func(s *entities.Session) bool {
		return s.PrincipalID == userID &&
			s.Token == "opaque-token" &&
			s.ExpiresAt.Equal(now.Add(30*24*time.Hour)) &&
			s.LastAccessedAt.Equal(now) &&
			s.ID != uuid.Nil
	})).Return(nil)

	token, err := m.CreateSession(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", token)
	assert.Equal(t, entities.PrincipalUser, m.Kind())
}

func TestSessionManager_CreateSession_RealTokensDiffer(t *testing.T) {
	m, sessions, _ := newUserSessionManagerForTest(time.Now())
	ctx := context.Background()
	sessions.On("Create", ctx, mock.Anything).Return(nil)

	a, err := m.CreateSession(ctx, uuid.New())
	require.NoError(t, err)
	b, err := m.CreateSession(ctx, uuid.New())
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestSessionManager_CreateSession_Errors(t *testing.T) {
	m, sessions, _ := newUserSessionManagerForTest(time.Now())
	ctx := context.Background()

	orig := generateSessionToken
	t.Cleanup(func() { generateSessionToken = orig })
	generateSessionToken = func() (string, error) { return "", errors.New("no entropy") }
	_, err := m.CreateSession(ctx, uuid.New())
	require.EqualError(t, err, "no entropy")

	generateSessionToken = orig
	sessions.On("Create", ctx, mock.Anything).Return(errors.New("db down"))
	_, err = m.CreateSession(ctx, uuid.New())
	require.EqualError(t, err, "db down")
}

func TestSessionManager_ValidateSession_Success(t *testing.T) {
	now := time.Now()
	m, sessions, users := newUserSessionManagerForTest(now)
	ctx := context.Background()
	user := &entities.User{ID: uuid.New(), Email: "a@example.com"}
	session := &entities.Session{ID: uuid.New(), PrincipalID: user.ID, Token: "tok", ExpiresAt: now.Add(time.Hour)}

	sessions.On("GetByToken", ctx, "tok").Return(session, nil)
	users.On("GetByID", ctx, user.ID).Return(user, nil)
	sessions.On("TouchLastAccessed", ctx, session.ID, now).Return(nil)

	got, err := m.ValidateSession(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.PrincipalID)
	assert.Same(t, user, got.Principal)
	assert.Equal(t, now, got.Session.LastAccessedAt)
	sessions.AssertNotCalled(t, "DeleteByToken", mock.Anything, mock.Anything)
}

func TestSessionManager_ValidateSession_TouchFailureIsBestEffort(t *testing.T) {
	now := time.Now()
	m, sessions, users := newUserSessionManagerForTest(now)
	ctx := context.Background()
	user := &entities.User{ID: uuid.New()}
	session := &entities.Session{ID: uuid.New(), PrincipalID: user.ID, Token: "tok", ExpiresAt: now.Add(time.Hour)}

	sessions.On("GetByToken", ctx, "tok").Return(session, nil)
	users.On("GetByID", ctx, user.ID).Return(user, nil)
	sessions.On("TouchLastAccessed", ctx, session.ID, now).Return(errors.New("replica read-only"))

	got, err := m.ValidateSession(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.PrincipalID)
}

func TestSessionManager_ValidateSession_UnknownOrEmpty(t *testing.T) {
	now := time.Now()
	m, sessions, _ := newUserSessionManagerForTest(now)
	ctx := context.Background()

	_, err := m.ValidateSession(ctx, "")
	require.ErrorIs(t, err, domainerrors.ErrInvalidSession)

	sessions.On("GetByToken", ctx, "unknown").Return(nil, domainerrors.ErrInvalidSession)
	_, err = m.ValidateSession(ctx, "unknown")
	require.ErrorIs(t, err, domainerrors.ErrInvalidSession)
}

func TestSessionManager_ValidateSession_RevokesExpired(t *testing.T) {
	now := time.Now()
	m, sessions, users := newUserSessionManagerForTest(now)
	ctx := context.Background()
	session := &entities.Session{ID: uuid.New(), PrincipalID: uuid.New(), Token: "old", ExpiresAt: now}

	sessions.On("GetByToken", ctx, "old").Return(session, nil)
	sessions.On("DeleteByToken", ctx, "old").Return(nil).Once()

	_, err := m.ValidateSession(ctx, "old")
	require.ErrorIs(t, err, domainerrors.ErrInvalidSession)
	sessions.AssertExpectations(t)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	sessions.AssertNotCalled(t, "TouchLastAccessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionManager_ValidateSession_RevokesDisabledPrincipals(t *testing.T) {
	cases := map[string]*entities.User{
		"banned":  {ID: uuid.New(), IsBanned: true},
		"deleted": {ID: uuid.New(), DeletedAt: null.TimeFrom(time.Now())},
	}
	for name, user := range cases {
		t.Run(name, func(t *testing.T) {
			now := time.Now()
			m, sessions, users := newUserSessionManagerForTest(now)
			ctx := context.Background()
			session := &entities.Session{ID: uuid.New(), PrincipalID: user.ID, Token: "tok", ExpiresAt: now.Add(time.Hour)}

			sessions.On("GetByToken", ctx, "tok").Return(session, nil)
			users.On("GetByID", ctx, user.ID).Return(user, nil)
			sessions.On("DeleteByToken", ctx, "tok").Return(nil).Once()

			_, err := m.ValidateSession(ctx, "tok")
			require.ErrorIs(t, err, domainerrors.ErrInvalidSession)
			sessions.AssertExpectations(t)
			sessions.AssertNotCalled(t, "TouchLastAccessed", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSessionManager_ValidateSession_MissingPrincipal(t *testing.T) {
	now := time.Now()
	m, sessions, users := newUserSessionManagerForTest(now)
	ctx := context.Background()
	session := &entities.Session{ID: uuid.New(), PrincipalID: uuid.New(), Token: "tok", ExpiresAt: now.Add(time.Hour)}

	sessions.On("GetByToken", ctx, "tok").Return(session, nil)
	users.On("GetByID", ctx, session.PrincipalID).Return(nil, domainerrors.ErrNotFound)
	sessions.On("DeleteByToken", ctx, "tok").Return(errors.New("delete failed"))

	_, err := m.ValidateSession(ctx, "tok")
	require.ErrorIs(t, err, domainerrors.ErrInvalidSession)
	sessions.AssertCalled(t, "DeleteByToken", ctx, "tok")
}

func TestSessionManager_ValidateSession_LoaderErrorPropagates(t *testing.T) {
	now := time.Now()
	m, sessions, users := newUserSessionManagerForTest(now)
	ctx := context.Background()
	session := &entities.Session{ID: uuid.New(), PrincipalID: uuid.New(), Token: "tok", ExpiresAt: now.Add(time.Hour)}

	sessions.On("GetByToken", ctx, "tok").Return(session, nil)
	users.On("GetByID", ctx, session.PrincipalID).Return(nil, errors.New("db down"))

	_, err := m.ValidateSession(ctx, "tok")
	require.EqualError(t, err, "db down")
	sessions.AssertNotCalled(t, "DeleteByToken", mock.Anything, mock.Anything)
}

func TestSessionManager_ModeratorFollowsBackingUser(t *testing.T) {
	now := time.Now()
	sessions := &MockSessionRepository{kind: entities.PrincipalModerator}
	moderators := new(MockModeratorRepository)
	m := NewModeratorSessionManager(sessions, moderators, nil)
	m.now = fixedClock(now)
	ctx := context.Background()

	mod := &entities.Moderator{ID: uuid.New(), User: &entities.User{ID: uuid.New(), IsBanned: true}}
	session := &entities.Session{ID: uuid.New(), PrincipalID: mod.ID, Token: "mod-tok", ExpiresAt: now.Add(time.Hour)}
	sessions.On("GetByToken", ctx, "mod-tok").Return(session, nil)
	moderators.On("GetByID", ctx, mod.ID).Return(mod, nil)
	sessions.On("DeleteByToken", ctx, "mod-tok").Return(nil)

	_, err := m.ValidateSession(ctx, "mod-tok")
	require.ErrorIs(t, err, domainerrors.ErrInvalidSession)
	assert.Equal(t, entities.PrincipalModerator, m.Kind())
}

func TestSessionManager_DeleteSession(t *testing.T) {
	m, sessions, _ := newUserSessionManagerForTest(time.Now())
	ctx := context.Background()

	require.NoError(t, m.DeleteSession(ctx, ""))
	sessions.AssertNotCalled(t, "DeleteByToken", mock.Anything, mock.Anything)

	sessions.On("DeleteByToken", ctx, "tok").Return(nil).Twice()
	require.NoError(t, m.DeleteSession(ctx, "tok"))
	require.NoError(t, m.DeleteSession(ctx, "tok"))

	sessions.On("DeleteByToken", ctx, "broken").Return(errors.New("db down"))
	require.Error(t, m.DeleteSession(ctx, "broken"))
}

func TestSessionManager_DeleteAllSessionsForPrincipal(t *testing.T) {
	m, sessions, _ := newUserSessionManagerForTest(time.Now())
	ctx := context.Background()
	id := uuid.New()

	sessions.On("DeleteByPrincipal", ctx, id).Return(int64(3), nil).Once()
	n, err := m.DeleteAllSessionsForPrincipal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	sessions.On("DeleteByPrincipal", ctx, id).Return(int64(0), errors.New("db down")).Once()
	_, err = m.DeleteAllSessionsForPrincipal(ctx, id)
	require.Error(t, err)
}
